package normalize

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"poe2guide/pkg/models"
)

// Diagnostic is one advisory finding about the raw document. Validation is
// purely diagnostic: it never alters normalization output and never fails.
type Diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Context  string `json:"context,omitempty"`
	Message  string `json:"message"`
}

const SeverityWarning = "warning"

// Diagnostic codes emitted by Validate.
const (
	CodeZoneMissing           = "zone_missing"
	CodeZoneIncomplete        = "zone_incomplete"
	CodeImpliedSubzoneMissing = "implied_subzone_missing"
	CodeLevelRangeMissing     = "level_range_missing"
	CodeLevelRangeInverted    = "level_range_inverted"
	CodeOverridesMissing      = "overrides_missing"
	CodeClassificationInvalid = "classification_invalid"
	CodeKeyUnclassified       = "key_unclassified"
	CodeOrphanPowerNote       = "orphan_power_note"
	CodeRewardNoteUnmatched   = "reward_note_unmatched"
	CodeValidatorError        = "validator_error"
)

// Validate cross-checks the raw document for authoring mistakes. Any internal
// panic is reported as a single validator_error diagnostic instead of
// propagating; the checks are dev-time advice, not gates.
func Validate(db *models.MasterDB) (diags []Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeValidatorError,
				Message:  fmt.Sprintf("data validation encountered an error: %v", r),
			})
		}
	}()

	v := &validator{db: db}
	v.zoneNames = buildZoneNameMap(db.ZonesDB)
	v.chapterRewards = buildChapterRewardIndex(db)

	for _, section := range db.CampaignProgressionSections.Sections {
		v.checkZones(section)
		v.checkLevelRange(section)
		v.checkPowerNotes(section)
		v.checkRewardAssociations(section)
	}
	v.checkOverrides()

	return v.diags
}

// LogDiagnostics prints every diagnostic through the given logger, matching
// the dev-console warning behavior of the web app.
func LogDiagnostics(diags []Diagnostic, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	for _, d := range diags {
		if d.Context != "" {
			logger.Printf("[validate] %s (%s) %s: %s", d.Severity, d.Code, d.Context, d.Message)
			continue
		}
		logger.Printf("[validate] %s (%s): %s", d.Severity, d.Code, d.Message)
	}
}

type validator struct {
	db             *models.MasterDB
	zoneNames      map[string]string
	chapterRewards map[string]models.RewardContainer
	diags          []Diagnostic
}

func (v *validator) warn(code, context, format string, args ...any) {
	v.diags = append(v.diags, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Context:  context,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (v *validator) checkZones(s models.CampaignSection) {
	for _, id := range s.SectionZoneIDs() {
		info, ok := v.db.ZonesDB[id]
		if !ok {
			v.warn(CodeZoneMissing, s.ID, "section references missing zone_id %q", id)
			continue
		}
		if info.DisplayName == "" {
			v.warn(CodeZoneIncomplete, s.ID, "zone %q has no display_name", id)
		}
	}

	if s.CompletionRule == nil {
		return
	}
	for _, id := range s.CompletionRule.SubzonesImplied {
		if _, ok := v.db.ZonesDB[id]; !ok {
			v.warn(CodeImpliedSubzoneMissing, s.ID, "section references missing implied subzone %q", id)
		}
	}
}

func (v *validator) checkLevelRange(s models.CampaignSection) {
	r := s.CommonLevelRange
	hasRange := s.CommonLevelRangeDisplay != "" || (r != nil && (r.Min != nil || r.Max != nil))
	if !hasRange {
		v.warn(CodeLevelRangeMissing, s.ID, "section is missing a level range")
	}
	if r != nil && r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		v.warn(CodeLevelRangeInverted, s.ID, "malformed level range: min (%d) > max (%d)", *r.Min, *r.Max)
	}
}

// sectionEntries mirrors the normalizer's zone-filtered reward entry
// selection so validation findings line up with what normalization will do.
func (v *validator) sectionEntries(s models.CampaignSection) []models.RewardEntry {
	container, ok := v.chapterRewards[s.Chapter]
	if !ok {
		return nil
	}
	zones := make(map[string]struct{})
	for _, name := range resolveZoneNames(s.SectionZoneIDs(), v.zoneNames) {
		zones[name] = struct{}{}
	}
	var entries []models.RewardEntry
	for _, entry := range container.Zones {
		if _, ok := zones[entry.Zone]; ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// checkPowerNotes flags permanent-power-phrased notes in zones with zero
// bosses, which is almost always a data-authoring bug: the reward would never
// reach the checklist.
func (v *validator) checkPowerNotes(s models.CampaignSection) {
	entries := v.sectionEntries(s)
	if len(entries) == 0 {
		return
	}

	bossCount := 0
	for _, entry := range entries {
		bossCount += len(entry.Key)
	}
	if bossCount > 0 {
		return
	}

	for _, entry := range entries {
		for _, note := range entry.RewardNotes {
			if permanentPowerRegex.MatchString(strings.ToLower(note)) {
				v.warn(CodeOrphanPowerNote, s.ID, "permanent power note without bosses: %q (zone %s)", note, entry.Zone)
			}
		}
	}
}

// checkRewardAssociations flags tagged notes in multi-boss sections that
// match no boss name by substring; those fall back to section-level rewards
// and the attribution heuristic silently loses them.
func (v *validator) checkRewardAssociations(s models.CampaignSection) {
	entries := v.sectionEntries(s)
	if len(entries) == 0 {
		return
	}

	var bossNames []string
	for _, entry := range entries {
		bossNames = append(bossNames, entry.Key...)
	}
	if len(bossNames) <= 1 {
		return
	}

	for _, entry := range entries {
		for _, note := range entry.RewardNotes {
			if len(RewardNoteTags(note)) == 0 {
				continue
			}
			lower := strings.ToLower(note)
			matched := false
			for _, boss := range bossNames {
				if strings.Contains(lower, strings.ToLower(boss)) {
					matched = true
					break
				}
			}
			if !matched {
				v.warn(CodeRewardNoteUnmatched, s.ID, "reward note cannot be matched to a boss: %q (zone %s)", note, entry.Zone)
			}
		}
	}
}

func (v *validator) checkOverrides() {
	overrides := v.db.ChecklistOverrides
	if overrides == nil || overrides.KeyClassifications == nil {
		v.warn(CodeOverridesMissing, "", "checklist_overrides.key_classifications is missing; checklist key validation skipped")
		return
	}

	for key, value := range overrides.KeyClassifications {
		if !models.ValidClassification(value) {
			v.warn(CodeClassificationInvalid, key, "invalid checklist classification %q", value)
		}
	}

	// Aggregate every container a given key appears in so each unclassified
	// key produces a single warning.
	missing := make(map[string][]string)
	for id, container := range v.chapterRewards {
		for _, entry := range container.Zones {
			for _, key := range entry.Key {
				if models.ValidClassification(overrides.KeyClassifications[key]) {
					continue
				}
				missing[key] = append(missing[key], id+":"+entry.Zone)
			}
		}
	}

	keys := make([]string, 0, len(missing))
	for key := range missing {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		contexts := missing[key]
		sort.Strings(contexts)
		v.warn(CodeKeyUnclassified, key, "checklist key has no classification; seen in %s", strings.Join(contexts, ", "))
	}
}
