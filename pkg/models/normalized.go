package models

// Classification controls checklist visibility and default mode filtering.
type Classification string

const (
	ClassificationRequired       Classification = "required"
	ClassificationOptional       Classification = "optional"
	ClassificationNeverChecklist Classification = "never_checklist"
)

// ValidClassification reports whether s is one of the three known values.
func ValidClassification(s string) bool {
	switch Classification(s) {
	case ClassificationRequired, ClassificationOptional, ClassificationNeverChecklist:
		return true
	}
	return false
}

type ItemKind string

const (
	ItemKindBoss   ItemKind = "boss"
	ItemKindReward ItemKind = "reward"
	ItemKindOther  ItemKind = "other"
)

// NormalizedChecklistItem is a single trackable entry. Reward items nested
// under a boss carry ImpliedBy pointing at the boss item's id.
type NormalizedChecklistItem struct {
	ID             string                    `json:"id"`
	Text           string                    `json:"text"`
	Tags           []string                  `json:"tags"`
	Kind           ItemKind                  `json:"kind"`
	Classification Classification            `json:"classification"`
	ImpliedBy      string                    `json:"impliedBy,omitempty"`
	ImpliedRewards []NormalizedChecklistItem `json:"impliedRewards,omitempty"`
}

type NormalizedSection struct {
	ID              string                    `json:"id"`
	Title           string                    `json:"title"`
	Order           int                       `json:"order"`
	Chapter         string                    `json:"chapter"`
	LevelRange      string                    `json:"levelRange,omitempty"`
	ZoneNames       []string                  `json:"zoneNames"`
	ImpliedSubzones []string                  `json:"impliedSubzones"`
	RouteSummary    string                    `json:"routeSummary,omitempty"`
	RouteSteps      []string                  `json:"routeSteps,omitempty"`
	Tips            []string                  `json:"tips,omitempty"`
	Upgrades        []UpgradeRule             `json:"upgrades"`
	SectionRewards  []NormalizedChecklistItem `json:"sectionRewards"`
	Checklist       []NormalizedChecklistItem `json:"checklist"`
}

type NormalizedChapter struct {
	Title    string              `json:"title"`
	Sections []NormalizedSection `json:"sections"`
}
