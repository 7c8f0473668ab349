package normalize

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"poe2guide/pkg/models"
)

// Schema identifies which of the supported document shapes a raw file uses.
// Older exports of the master database stored sections either as a flat
// top-level array or keyed by chapter title; both are adapted into the
// current shape on decode.
type Schema int

const (
	SchemaCurrent Schema = iota
	SchemaLegacyFlat
	SchemaLegacyChaptered
	SchemaUnknown
)

func (s Schema) String() string {
	switch s {
	case SchemaCurrent:
		return "current"
	case SchemaLegacyFlat:
		return "legacy_flat"
	case SchemaLegacyChaptered:
		return "legacy_chaptered"
	}
	return "unknown"
}

// DetectSchema probes the raw document for a known section layout.
func DetectSchema(raw []byte) Schema {
	if gjson.GetBytes(raw, "campaign_progression_sections.sections.#").Int() > 0 {
		return SchemaCurrent
	}
	if r := gjson.GetBytes(raw, "sections"); r.IsArray() && len(r.Array()) > 0 {
		return SchemaLegacyFlat
	}
	if r := gjson.GetBytes(raw, "campaign_sections"); r.IsObject() {
		return SchemaLegacyChaptered
	}
	return SchemaUnknown
}

// Decode parses a raw master document. A document that is not a JSON object
// is an error; a document whose primary section container is empty falls back
// to the legacy shapes before giving up and returning an empty section list.
// Malformed legacy entries are skipped, never fatal.
func Decode(raw []byte) (*models.MasterDB, error) {
	var db models.MasterDB
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("decode master document: %w", err)
	}

	if len(db.CampaignProgressionSections.Sections) > 0 {
		return &db, nil
	}

	switch DetectSchema(raw) {
	case SchemaLegacyFlat:
		db.CampaignProgressionSections.Sections = adaptLegacyFlat(raw)
	case SchemaLegacyChaptered:
		db.CampaignProgressionSections.Sections = adaptLegacyChaptered(raw)
	}
	return &db, nil
}

// LoadFile reads and decodes a master document from disk.
func LoadFile(path string) (*models.MasterDB, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read master document: %w", err)
	}
	return Decode(raw)
}

// adaptLegacyFlat handles the oldest export shape: a top-level "sections"
// array with the same per-section fields as the current schema.
func adaptLegacyFlat(raw []byte) []models.CampaignSection {
	var sections []models.CampaignSection
	gjson.GetBytes(raw, "sections").ForEach(func(_, entry gjson.Result) bool {
		if s, ok := adaptLegacySection(entry, ""); ok {
			sections = append(sections, s)
		}
		return true
	})
	return sections
}

// adaptLegacyChaptered handles the chapter-keyed shape: "campaign_sections"
// maps chapter title to an array of sections, with the chapter implied by the
// key when an entry does not carry one itself.
func adaptLegacyChaptered(raw []byte) []models.CampaignSection {
	var sections []models.CampaignSection
	gjson.GetBytes(raw, "campaign_sections").ForEach(func(chapter, list gjson.Result) bool {
		if !list.IsArray() {
			return true
		}
		list.ForEach(func(_, entry gjson.Result) bool {
			if s, ok := adaptLegacySection(entry, chapter.String()); ok {
				sections = append(sections, s)
			}
			return true
		})
		return true
	})
	return sections
}

// adaptLegacySection maps one loose legacy entry into a CampaignSection.
// Entries without an id are dropped.
func adaptLegacySection(entry gjson.Result, fallbackChapter string) (models.CampaignSection, bool) {
	if !entry.IsObject() || entry.Get("id").String() == "" {
		return models.CampaignSection{}, false
	}

	s := models.CampaignSection{
		ID:                      entry.Get("id").String(),
		Order:                   int(entry.Get("order").Int()),
		Chapter:                 entry.Get("chapter").String(),
		SectionTitle:            entry.Get("section_title").String(),
		CommonLevelRangeDisplay: entry.Get("common_level_range_display").String(),
		RouteSummary:            entry.Get("route_summary").String(),
	}
	if s.Chapter == "" {
		s.Chapter = fallbackChapter
	}
	if s.SectionTitle == "" {
		s.SectionTitle = entry.Get("title").String()
	}

	if r := entry.Get("common_level_range"); r.IsObject() {
		lr := &models.LevelRange{}
		if min := r.Get("min"); min.Exists() {
			v := int(min.Int())
			lr.Min = &v
		}
		if max := r.Get("max"); max.Exists() {
			v := int(max.Int())
			lr.Max = &v
		}
		s.CommonLevelRange = lr
	}

	s.ZoneIDs = stringList(entry.Get("zone_ids"))
	if len(s.ZoneIDs) == 0 {
		s.ZoneIDs = stringList(entry.Get("zones"))
	}
	s.RouteSteps = stringList(entry.Get("route_steps"))
	s.Tips = stringList(entry.Get("tips"))

	if implied := stringList(entry.Get("completion_rule.subzones_implied")); len(implied) > 0 {
		s.CompletionRule = &models.CompletionRule{SubzonesImplied: implied}
	}

	if active := entry.Get("is_active"); active.Exists() {
		v := active.Bool()
		s.IsActive = &v
	}
	s.Deprecated = entry.Get("deprecated").Bool()
	s.ReplacedBy = entry.Get("replaced_by").String()

	return s, true
}

func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		if s := v.String(); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}
