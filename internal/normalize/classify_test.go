package normalize

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"poe2guide/pkg/models"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestClassifyKeyPrecedence(t *testing.T) {
	overrides := &models.ChecklistOverrides{
		KeyClassifications:     map[string]string{"The Warden (Optional)": "optional"},
		ClassificationDefault:  "required",
		OptionalKeySuffixRegex: `\(Optional\)$`,
	}
	c := NewClassifier(overrides, quietLogger())
	assert.Equal(t, models.ClassificationOptional, c.ClassifyKey("The Warden (Optional)"))

	// The explicit override wins even though the suffix regex still matches.
	overrides.KeyClassifications["The Warden (Optional)"] = "required"
	c = NewClassifier(overrides, quietLogger())
	assert.Equal(t, models.ClassificationRequired, c.ClassifyKey("The Warden (Optional)"))
}

func TestClassifyKeySuffixRegex(t *testing.T) {
	c := NewClassifier(&models.ChecklistOverrides{
		ClassificationDefault:  "required",
		OptionalKeySuffixRegex: `\(Optional\)$`,
	}, quietLogger())

	assert.Equal(t, models.ClassificationOptional, c.ClassifyKey("Azarian (Optional)"))
	assert.Equal(t, models.ClassificationRequired, c.ClassifyKey("Azarian"))
}

func TestClassifyKeyInvalidOverrideFallsThrough(t *testing.T) {
	c := NewClassifier(&models.ChecklistOverrides{
		KeyClassifications:    map[string]string{"Azarian": "sometimes"},
		ClassificationDefault: "required",
	}, quietLogger())

	assert.False(t, c.HasOverride("Azarian"))
	assert.Equal(t, models.ClassificationRequired, c.ClassifyKey("Azarian"))
}

func TestClassifierInvalidConfigFallsBack(t *testing.T) {
	c := NewClassifier(&models.ChecklistOverrides{
		ClassificationDefault:  "mandatory",
		OptionalKeySuffixRegex: `([`,
	}, quietLogger())

	assert.Nil(t, c.optionalSuffix)
	assert.Equal(t, models.ClassificationOptional, c.ClassifyKey("Azarian"))
}

func TestClassifierNilOverrides(t *testing.T) {
	c := NewClassifier(nil, quietLogger())
	assert.Equal(t, models.ClassificationOptional, c.ClassifyKey("Anything"))
}

func TestRewardNoteTags(t *testing.T) {
	tests := []struct {
		note string
		tags []string
	}{
		{"Grants a Permanent Buff to maximum life", []string{TagPermanentBuff}},
		{"permanent power boost", []string{TagPermanentBuff}},
		{"Book of Specialisation: +2 passive skill points", []string{TagSkillPoints}},
		{"Unlocks your Ascendancy class", []string{TagAscendancy, TagKeyUnlock}},
		{"Opens the gate to the crypt", []string{TagKeyUnlock}},
		{"Some flavor text", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tags, RewardNoteTags(tt.note), "note %q", tt.note)
	}
}

func TestClassifyRewardTags(t *testing.T) {
	c := NewClassifier(nil, quietLogger())
	assert.Equal(t, models.ClassificationRequired, c.ClassifyRewardTags([]string{TagPermanentBuff}))
	assert.Equal(t, models.ClassificationRequired, c.ClassifyRewardTags([]string{TagSkillPoints}))
	assert.Equal(t, models.ClassificationOptional, c.ClassifyRewardTags([]string{"cosmetic"}))
	assert.Equal(t, models.ClassificationOptional, c.ClassifyRewardTags(nil))
}

func TestClassifyRewardTagsCustomPowerSet(t *testing.T) {
	c := NewClassifier(&models.ChecklistOverrides{
		PermanentPowerTags: []string{"spirit"},
	}, quietLogger())

	assert.Equal(t, models.ClassificationOptional, c.ClassifyRewardTags([]string{TagPermanentBuff}))
	assert.Equal(t, models.ClassificationRequired, c.ClassifyRewardTags([]string{"spirit"}))
}
