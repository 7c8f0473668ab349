package models

// MasterDB is the canonical in-memory form of the raw campaign document.
// Legacy document shapes are adapted into this structure by the decoder,
// so everything downstream only ever sees this representation.
type MasterDB struct {
	Meta                        *Meta                      `json:"meta,omitempty"`
	CampaignProgressionSections SectionContainer           `json:"campaign_progression_sections"`
	ZonesDB                     map[string]ZoneInfo        `json:"zones_db"`
	Acts                        map[string]RewardContainer `json:"acts"`
	Interludes                  map[string]RewardContainer `json:"interludes"`
	ChecklistOverrides          *ChecklistOverrides        `json:"checklist_overrides,omitempty"`
	UpgradeRules                []UpgradeRule              `json:"upgrade_rules,omitempty"`
}

// Revision returns meta.revision, or 0 when the document carries no meta block.
// The UI namespaces its persisted completion state with this number.
func (db *MasterDB) Revision() int {
	if db == nil || db.Meta == nil {
		return 0
	}
	return db.Meta.Revision
}

type Meta struct {
	Revision int `json:"revision,omitempty"`
}

type SectionContainer struct {
	Sections []CampaignSection `json:"sections"`
}

type CampaignSection struct {
	ID                      string          `json:"id"`
	Order                   int             `json:"order"`
	Chapter                 string          `json:"chapter"`
	SectionTitle            string          `json:"section_title"`
	CommonLevelRange        *LevelRange     `json:"common_level_range,omitempty"`
	CommonLevelRangeDisplay string          `json:"common_level_range_display,omitempty"`
	ZoneIDs                 []string        `json:"zone_ids,omitempty"`
	Zones                   []string        `json:"zones,omitempty"` // legacy key, same meaning as zone_ids
	IsActive                *bool           `json:"is_active,omitempty"`
	Deprecated              bool            `json:"deprecated,omitempty"`
	ReplacedBy              string          `json:"replaced_by,omitempty"`
	CompletionRule          *CompletionRule `json:"completion_rule,omitempty"`
	RouteSummary            string          `json:"route_summary,omitempty"`
	RouteSteps              []string        `json:"route_steps,omitempty"`
	Tips                    []string        `json:"tips,omitempty"`
}

// SectionZoneIDs prefers zone_ids and falls back to the legacy zones key.
func (s *CampaignSection) SectionZoneIDs() []string {
	if len(s.ZoneIDs) > 0 {
		return s.ZoneIDs
	}
	return s.Zones
}

type LevelRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

type CompletionRule struct {
	SubzonesImplied []string `json:"subzones_implied,omitempty"`
}

type ZoneInfo struct {
	DisplayName    string  `json:"display_name"`
	Chapter        string  `json:"chapter,omitempty"`
	ZoneKind       string  `json:"zone_kind,omitempty"`
	ParentZoneID   *string `json:"parent_zone_id,omitempty"`
	ReturnToParent bool    `json:"return_to_parent,omitempty"`
}

// RewardEntry holds the bosses and reward notes recorded for one zone.
// The zone field is a display name, not a zone id.
type RewardEntry struct {
	Zone        string   `json:"zone"`
	Key         []string `json:"key,omitempty"`
	RewardNotes []string `json:"reward_notes,omitempty"`
}

type RewardContainer struct {
	Zones []RewardEntry `json:"zones"`
	Town  string        `json:"town,omitempty"`
	Title string        `json:"title,omitempty"`
}

type ChecklistOverrides struct {
	KeyClassifications     map[string]string `json:"key_classifications,omitempty"`
	ClassificationDefault  string            `json:"classification_default,omitempty"`
	OptionalKeySuffixRegex string            `json:"optional_key_suffix_regex,omitempty"`
	PermanentPowerTags     []string          `json:"permanent_power_tags,omitempty"`
}

// UpgradeRule is a level-range-scoped advisory surfaced alongside sections
// whose level range overlaps it.
type UpgradeRule struct {
	ID       string   `json:"id"`
	MinLevel *int     `json:"min_level,omitempty"`
	MaxLevel *int     `json:"max_level,omitempty"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}
