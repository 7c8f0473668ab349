package normalize

import (
	"log"
	"regexp"
	"strings"

	"poe2guide/pkg/models"
)

// Reward note tags recognized by the tag matchers below.
const (
	TagPermanentBuff = "permanent_buff"
	TagSkillPoints   = "skill_points"
	TagAscendancy    = "ascendancy"
	TagKeyUnlock     = "key_unlock"
)

// Boss item tags, kept in sync with the boss classification.
const (
	TagRequiredProgression = "required_progression"
	TagOptionalContent     = "optional_content"
)

var permanentPowerRegex = regexp.MustCompile(`permanent\s+(buff|power)`)

// rewardTagMatchers run against lowercased reward note text. Each matcher
// contributes its tag independently, so a note may carry several tags.
var rewardTagMatchers = []struct {
	tag string
	re  *regexp.Regexp
}{
	{TagPermanentBuff, permanentPowerRegex},
	{TagSkillPoints, regexp.MustCompile(`skill\s*points?|passive|book`)},
	{TagAscendancy, regexp.MustCompile(`ascendancy`)},
	{TagKeyUnlock, regexp.MustCompile(`unlock|key|access|gate`)},
}

// RewardNoteTags extracts the tag set for one reward note.
func RewardNoteTags(note string) []string {
	lower := strings.ToLower(note)
	var tags []string
	for _, m := range rewardTagMatchers {
		if m.re.MatchString(lower) {
			tags = append(tags, m.tag)
		}
	}
	return tags
}

// Classifier decides whether a boss key or reward note belongs on the
// checklist. Boss keys resolve through the override table, then the optional
// key suffix regex, then the configured default. Reward notes classify purely
// by tag membership against the permanent power tag set.
type Classifier struct {
	keyOverrides   map[string]models.Classification
	optionalSuffix *regexp.Regexp
	defaultClass   models.Classification
	permanentPower map[string]struct{}
	logger         *log.Logger
}

// NewClassifier builds a Classifier from the document's checklist overrides.
// Invalid configuration never fails construction: bad override values and an
// unparseable regex are logged and skipped, an invalid default falls back to
// optional.
func NewClassifier(overrides *models.ChecklistOverrides, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.Default()
	}

	c := &Classifier{
		keyOverrides:   make(map[string]models.Classification),
		defaultClass:   models.ClassificationOptional,
		permanentPower: make(map[string]struct{}),
		logger:         logger,
	}

	for _, tag := range []string{TagPermanentBuff, TagSkillPoints, TagAscendancy, TagKeyUnlock} {
		c.permanentPower[tag] = struct{}{}
	}

	if overrides == nil {
		return c
	}

	for key, value := range overrides.KeyClassifications {
		if !models.ValidClassification(value) {
			logger.Printf("[classify] invalid classification %q for key %q, ignoring", value, key)
			continue
		}
		c.keyOverrides[key] = models.Classification(value)
	}

	if overrides.ClassificationDefault != "" {
		if models.ValidClassification(overrides.ClassificationDefault) {
			c.defaultClass = models.Classification(overrides.ClassificationDefault)
		} else {
			logger.Printf("[classify] invalid classification_default %q, falling back to optional", overrides.ClassificationDefault)
		}
	}

	if overrides.OptionalKeySuffixRegex != "" {
		re, err := regexp.Compile(overrides.OptionalKeySuffixRegex)
		if err != nil {
			logger.Printf("[classify] invalid optional_key_suffix_regex %q: %v", overrides.OptionalKeySuffixRegex, err)
		} else {
			c.optionalSuffix = re
		}
	}

	if len(overrides.PermanentPowerTags) > 0 {
		c.permanentPower = make(map[string]struct{}, len(overrides.PermanentPowerTags))
		for _, tag := range overrides.PermanentPowerTags {
			c.permanentPower[tag] = struct{}{}
		}
	}

	return c
}

// ClassifyKey resolves a boss key. First match wins: explicit override,
// optional suffix regex, configured default.
func (c *Classifier) ClassifyKey(key string) models.Classification {
	if class, ok := c.keyOverrides[key]; ok {
		return class
	}
	if c.optionalSuffix != nil && c.optionalSuffix.MatchString(key) {
		return models.ClassificationOptional
	}
	return c.defaultClass
}

// ClassifyRewardTags resolves a reward note from its extracted tags: any
// overlap with the permanent power tag set makes it required.
func (c *Classifier) ClassifyRewardTags(tags []string) models.Classification {
	for _, tag := range tags {
		if _, ok := c.permanentPower[tag]; ok {
			return models.ClassificationRequired
		}
	}
	return models.ClassificationOptional
}

// HasOverride reports whether the key has a valid explicit classification.
// The validator uses this to flag unclassified checklist keys.
func (c *Classifier) HasOverride(key string) bool {
	_, ok := c.keyOverrides[key]
	return ok
}
