package normalize

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"poe2guide/pkg/models"
)

// Interlude container keys mapped to the chapter titles sections use.
var interludeTitles = map[string]string{
	"interlude_1_curse_of_holten":      "Interlude 1: Curse of Holten",
	"interlude_2_the_stolen_barya":     "Interlude 2: The Stolen Barya",
	"interlude_3_doryanis_contingency": "Interlude 3: Doryani's Contingency",
}

// Section removed from the live guide but still present in the document.
const hardExcludedSectionID = "sec_07"

// Context carries everything one normalization run needs, built once from the
// decoded document. It is immutable after construction; NormalizeChapters is a
// pure function of it and may be called repeatedly (hot reload) with
// structurally identical results.
type Context struct {
	db             *models.MasterDB
	zoneNames      map[string]string
	chapterRewards map[string]models.RewardContainer
	classifier     *Classifier
	logger         *log.Logger
}

// NewContext indexes the document and compiles the checklist overrides.
// A nil document is a programming error, not a data error.
func NewContext(db *models.MasterDB, logger *log.Logger) *Context {
	if db == nil {
		panic("normalize: nil master document")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Context{
		db:             db,
		zoneNames:      buildZoneNameMap(db.ZonesDB),
		chapterRewards: buildChapterRewardIndex(db),
		classifier:     NewClassifier(db.ChecklistOverrides, logger),
		logger:         logger,
	}
}

// Document returns the decoded document the context was built from.
func (c *Context) Document() *models.MasterDB { return c.db }

// Revision returns the document revision used to namespace completion state.
func (c *Context) Revision() int { return c.db.Revision() }

// buildChapterRewardIndex keys every act and interlude reward container by the
// chapter title sections reference: "act_3" becomes "Act 3", interlude slugs
// translate through the fixed title table (unknown slugs pass through as-is).
func buildChapterRewardIndex(db *models.MasterDB) map[string]models.RewardContainer {
	index := make(map[string]models.RewardContainer, len(db.Acts)+len(db.Interludes))
	for key, container := range db.Acts {
		index["Act "+strings.TrimPrefix(key, "act_")] = container
	}
	for key, container := range db.Interludes {
		title, ok := interludeTitles[key]
		if !ok {
			title = key
		}
		index[title] = container
	}
	return index
}

func sectionActive(s models.CampaignSection) bool {
	if s.ID == hardExcludedSectionID {
		return false
	}
	if s.Deprecated {
		return false
	}
	if s.IsActive != nil && !*s.IsActive {
		return false
	}
	return true
}

// formatLevelRange prefers the precomputed display string, then formats the
// numeric bounds as "min-max", "min+" or "Up to max". Sections with neither
// get an empty string.
func formatLevelRange(s models.CampaignSection) string {
	if s.CommonLevelRangeDisplay != "" {
		return s.CommonLevelRangeDisplay
	}
	r := s.CommonLevelRange
	if r == nil {
		return ""
	}
	switch {
	case r.Min != nil && r.Max != nil:
		return strconv.Itoa(*r.Min) + "-" + strconv.Itoa(*r.Max)
	case r.Min != nil:
		return strconv.Itoa(*r.Min) + "+"
	case r.Max != nil:
		return "Up to " + strconv.Itoa(*r.Max)
	}
	return ""
}

// rangesOverlap is an inclusive interval overlap test with missing bounds
// treated as unbounded on that side.
func rangesOverlap(aMin, aMax, bMin, bMax *int) bool {
	if aMin != nil && bMax != nil && *aMin > *bMax {
		return false
	}
	if bMin != nil && aMax != nil && *bMin > *aMax {
		return false
	}
	return true
}

// selectUpgrades picks the advisory upgrade rules whose level range overlaps
// the section's numeric range.
func selectUpgrades(s models.CampaignSection, rules []models.UpgradeRule) []models.UpgradeRule {
	out := make([]models.UpgradeRule, 0)
	var sMin, sMax *int
	if s.CommonLevelRange != nil {
		sMin = s.CommonLevelRange.Min
		sMax = s.CommonLevelRange.Max
	}
	for _, rule := range rules {
		if rangesOverlap(sMin, sMax, rule.MinLevel, rule.MaxLevel) {
			out = append(out, rule)
		}
	}
	return out
}

// NormalizeChapters produces the ordered chapter list the UI renders. The
// input document is never mutated; calling this twice yields deep-equal
// output with identical item ids.
func (c *Context) NormalizeChapters() []models.NormalizedChapter {
	sections := make([]models.CampaignSection, 0, len(c.db.CampaignProgressionSections.Sections))
	for _, s := range c.db.CampaignProgressionSections.Sections {
		if sectionActive(s) {
			sections = append(sections, s)
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})

	// Sections arrive sorted by order, so first appearance of a chapter is
	// also the chapter with the smallest minimum order.
	var chapterOrder []string
	grouped := make(map[string][]models.NormalizedSection)
	for _, s := range sections {
		if _, seen := grouped[s.Chapter]; !seen {
			chapterOrder = append(chapterOrder, s.Chapter)
		}
		grouped[s.Chapter] = append(grouped[s.Chapter], c.normalizeSection(s))
	}

	chapters := make([]models.NormalizedChapter, 0, len(chapterOrder))
	for _, title := range chapterOrder {
		if len(grouped[title]) == 0 {
			continue
		}
		chapters = append(chapters, models.NormalizedChapter{
			Title:    title,
			Sections: grouped[title],
		})
	}
	return chapters
}

func (c *Context) normalizeSection(s models.CampaignSection) models.NormalizedSection {
	zoneNames := resolveZoneNames(s.SectionZoneIDs(), c.zoneNames)

	implied := make([]string, 0)
	if s.CompletionRule != nil {
		implied = resolveZoneNames(s.CompletionRule.SubzonesImplied, c.zoneNames)
	}

	items := buildSectionItems(s.ID, c.sectionRewardEntries(s.Chapter, zoneNames), c.classifier)

	return models.NormalizedSection{
		ID:              s.ID,
		Title:           s.SectionTitle,
		Order:           s.Order,
		Chapter:         s.Chapter,
		LevelRange:      formatLevelRange(s),
		ZoneNames:       zoneNames,
		ImpliedSubzones: implied,
		RouteSummary:    s.RouteSummary,
		RouteSteps:      s.RouteSteps,
		Tips:            s.Tips,
		Upgrades:        selectUpgrades(s, c.db.UpgradeRules),
		SectionRewards:  items.SectionRewards,
		Checklist:       items.Checklist,
	}
}

// sectionRewardEntries picks the reward entries for the section's chapter
// whose zone display name is one of the section's zones. A chapter without a
// reward container simply yields no entries.
func (c *Context) sectionRewardEntries(chapter string, zoneNames []string) []models.RewardEntry {
	container, ok := c.chapterRewards[chapter]
	if !ok {
		return nil
	}
	inSection := make(map[string]struct{}, len(zoneNames))
	for _, name := range zoneNames {
		inSection[name] = struct{}{}
	}

	var entries []models.RewardEntry
	for _, entry := range container.Zones {
		if _, ok := inSection[entry.Zone]; ok {
			entries = append(entries, entry)
		}
	}
	return entries
}
