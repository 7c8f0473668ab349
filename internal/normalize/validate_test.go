package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poe2guide/pkg/models"
)

func codes(diags []Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func findByCode(diags []Diagnostic, code string) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func TestValidateCleanDocument(t *testing.T) {
	doc := testDoc()
	doc.ChecklistOverrides = &models.ChecklistOverrides{
		KeyClassifications: map[string]string{
			"Count Geonor": "required",
			"The Hag":      "optional",
		},
	}
	diags := Validate(doc)
	assert.Empty(t, diags, "unexpected diagnostics: %v", codes(diags))
}

func TestValidateMissingZone(t *testing.T) {
	doc := testDoc()
	doc.CampaignProgressionSections.Sections[1].ZoneIDs = []string{"z_missing"}
	diags := Validate(doc)

	found := findByCode(diags, CodeZoneMissing)
	require.Len(t, found, 1)
	assert.Equal(t, "sec_01", found[0].Context)
}

func TestValidateZoneWithoutDisplayName(t *testing.T) {
	doc := testDoc()
	doc.ZonesDB["z_clearfell"] = models.ZoneInfo{}
	diags := Validate(doc)
	assert.NotEmpty(t, findByCode(diags, CodeZoneIncomplete))
}

func TestValidateMissingImpliedSubzone(t *testing.T) {
	doc := testDoc()
	doc.CampaignProgressionSections.Sections[0].CompletionRule.SubzonesImplied = []string{"z_gone"}
	diags := Validate(doc)

	found := findByCode(diags, CodeImpliedSubzoneMissing)
	require.Len(t, found, 1)
	assert.Equal(t, "sec_02", found[0].Context)
}

func TestValidateLevelRanges(t *testing.T) {
	doc := testDoc()
	doc.CampaignProgressionSections.Sections[0].CommonLevelRange = &models.LevelRange{Min: intp(13), Max: intp(10)}
	doc.CampaignProgressionSections.Sections[2].CommonLevelRange = nil
	diags := Validate(doc)

	assert.Len(t, findByCode(diags, CodeLevelRangeInverted), 1)
	missing := findByCode(diags, CodeLevelRangeMissing)
	require.Len(t, missing, 1)
	assert.Equal(t, "sec_03", missing[0].Context)
}

func TestValidateOverridesMissing(t *testing.T) {
	diags := Validate(testDoc())
	assert.Len(t, findByCode(diags, CodeOverridesMissing), 1)
	// key validation is skipped entirely
	assert.Empty(t, findByCode(diags, CodeKeyUnclassified))
}

func TestValidateUnclassifiedKeys(t *testing.T) {
	doc := testDoc()
	doc.ChecklistOverrides = &models.ChecklistOverrides{
		KeyClassifications: map[string]string{"Count Geonor": "required"},
	}
	diags := Validate(doc)

	found := findByCode(diags, CodeKeyUnclassified)
	require.Len(t, found, 1)
	assert.Equal(t, "The Hag", found[0].Context)
	assert.Contains(t, found[0].Message, "Interlude 1: Curse of Holten:Holten")
}

func TestValidateInvalidClassificationValue(t *testing.T) {
	doc := testDoc()
	doc.ChecklistOverrides = &models.ChecklistOverrides{
		KeyClassifications: map[string]string{
			"Count Geonor": "mandatory",
			"The Hag":      "optional",
		},
	}
	diags := Validate(doc)

	invalid := findByCode(diags, CodeClassificationInvalid)
	require.Len(t, invalid, 1)
	assert.Equal(t, "Count Geonor", invalid[0].Context)
	// an invalid value also counts as unclassified
	assert.Len(t, findByCode(diags, CodeKeyUnclassified), 1)
}

func TestValidateOrphanPowerNote(t *testing.T) {
	doc := testDoc()
	doc.Acts["act_2"] = models.RewardContainer{Zones: []models.RewardEntry{
		{Zone: "Vastiri Outskirts", RewardNotes: []string{"Grants a permanent buff to spirit"}},
	}}
	diags := Validate(doc)

	found := findByCode(diags, CodeOrphanPowerNote)
	require.Len(t, found, 1)
	assert.Equal(t, "sec_03", found[0].Context)
}

func TestValidateUnmatchedRewardNote(t *testing.T) {
	doc := testDoc()
	doc.Acts["act_1"] = models.RewardContainer{Zones: []models.RewardEntry{
		{
			Zone:        "Ogham Manor",
			Key:         []string{"Boss A", "Boss B"},
			RewardNotes: []string{"Unlocks something, names nobody"},
		},
	}}
	diags := Validate(doc)
	assert.Len(t, findByCode(diags, CodeRewardNoteUnmatched), 1)
}

func TestValidateNeverPanics(t *testing.T) {
	// zones_db is nil here; any internal panic must surface as a single
	// validator_error diagnostic instead of propagating.
	var diags []Diagnostic
	assert.NotPanics(t, func() {
		diags = Validate(&models.MasterDB{
			CampaignProgressionSections: models.SectionContainer{
				Sections: []models.CampaignSection{{ID: "sec_x", Chapter: "Act 1"}},
			},
		})
	})
	assert.NotEmpty(t, diags)
}
