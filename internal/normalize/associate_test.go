package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poe2guide/pkg/models"
)

func TestAssociateZeroBosses(t *testing.T) {
	entries := []models.RewardEntry{
		{Zone: "Clearfell", RewardNotes: []string{
			"Grants a permanent buff to life",
			"Some flavor text",
		}},
	}
	items := buildSectionItems("sec_01", entries, NewClassifier(nil, quietLogger()))

	assert.Empty(t, items.Checklist)
	require.Len(t, items.SectionRewards, 1)
	assert.Equal(t, "Reward: Grants a permanent buff to life", items.SectionRewards[0].Text)
	assert.Equal(t, models.ItemKindReward, items.SectionRewards[0].Kind)
	assert.Empty(t, items.SectionRewards[0].ImpliedBy)
}

func TestAssociateSingleBossPromotion(t *testing.T) {
	entries := []models.RewardEntry{
		{
			Zone:        "Ogham Manor",
			Key:         []string{"Count Geonor"},
			RewardNotes: []string{"Grants a permanent buff to cold resistance"},
		},
	}
	items := buildSectionItems("sec_02", entries, NewClassifier(nil, quietLogger()))

	require.Len(t, items.Checklist, 1)
	assert.Empty(t, items.SectionRewards)

	boss := items.Checklist[0]
	assert.Equal(t, "Defeat: Count Geonor", boss.Text)
	assert.Equal(t, models.ClassificationRequired, boss.Classification)
	assert.Equal(t, []string{TagRequiredProgression}, boss.Tags)

	require.Len(t, boss.ImpliedRewards, 1)
	reward := boss.ImpliedRewards[0]
	assert.Equal(t, boss.ID, reward.ImpliedBy)
	assert.Equal(t, models.ClassificationRequired, reward.Classification)
	assert.Contains(t, reward.Tags, TagPermanentBuff)
}

func TestAssociateSingleBossOptionalReward(t *testing.T) {
	c := NewClassifier(&models.ChecklistOverrides{
		PermanentPowerTags: []string{"nothing_matches_this"},
	}, quietLogger())

	entries := []models.RewardEntry{
		{
			Zone:        "Hunting Grounds",
			Key:         []string{"Crowbell"},
			RewardNotes: []string{"Opens the gate to the crypt"},
		},
	}
	items := buildSectionItems("sec_03", entries, c)

	require.Len(t, items.Checklist, 1)
	boss := items.Checklist[0]
	// optional reward does not promote the boss
	assert.Equal(t, models.ClassificationOptional, boss.Classification)
	assert.Equal(t, []string{TagOptionalContent}, boss.Tags)
	require.Len(t, boss.ImpliedRewards, 1)
	assert.Equal(t, models.ClassificationOptional, boss.ImpliedRewards[0].Classification)
}

func TestAssociateMultiBossSubstringMatch(t *testing.T) {
	entries := []models.RewardEntry{
		{
			Zone: "The Crypt",
			Key:  []string{"Boss A", "Boss B"},
			RewardNotes: []string{
				"Defeating Boss A unlocks the inner vault",
				"A hidden gate opens somewhere",
			},
		},
	}
	items := buildSectionItems("sec_04", entries, NewClassifier(nil, quietLogger()))

	require.Len(t, items.Checklist, 2)
	bossA, bossB := items.Checklist[0], items.Checklist[1]

	require.Len(t, bossA.ImpliedRewards, 1)
	assert.Equal(t, "Reward: Defeating Boss A unlocks the inner vault", bossA.ImpliedRewards[0].Text)
	assert.Empty(t, bossB.ImpliedRewards)

	require.Len(t, items.SectionRewards, 1)
	assert.Equal(t, "Reward: A hidden gate opens somewhere", items.SectionRewards[0].Text)
}

func TestAssociateMultiBossFirstMatchWins(t *testing.T) {
	entries := []models.RewardEntry{
		{
			Zone:        "Twin Arena",
			Key:         []string{"Ketzuli", "Ketzuli the Ascended"},
			RewardNotes: []string{"Defeating Ketzuli the Ascended unlocks the lift"},
		},
	}
	items := buildSectionItems("sec_05", entries, NewClassifier(nil, quietLogger()))

	require.Len(t, items.Checklist, 2)
	// both names are substrings of the note; list order breaks the tie
	assert.Len(t, items.Checklist[0].ImpliedRewards, 1)
	assert.Empty(t, items.Checklist[1].ImpliedRewards)
}

func TestAssociateNeverChecklistBossDropped(t *testing.T) {
	c := NewClassifier(&models.ChecklistOverrides{
		KeyClassifications: map[string]string{"Boss A": "never_checklist"},
	}, quietLogger())

	entries := []models.RewardEntry{
		{
			Zone:        "The Crypt",
			Key:         []string{"Boss A", "Boss B"},
			RewardNotes: []string{"Defeating Boss A grants a permanent buff"},
		},
	}
	items := buildSectionItems("sec_06", entries, c)

	// Boss A never appears, and with one boss remaining the single-boss rule
	// applies: the note is implied by Boss B despite naming Boss A.
	require.Len(t, items.Checklist, 1)
	boss := items.Checklist[0]
	assert.Equal(t, "Defeat: Boss B", boss.Text)
	require.Len(t, boss.ImpliedRewards, 1)
	assert.Equal(t, models.ClassificationRequired, boss.Classification)
	assert.Empty(t, items.SectionRewards)
}

func TestAssociateMultiBossPromotion(t *testing.T) {
	entries := []models.RewardEntry{
		{
			Zone: "Temple",
			Key:  []string{"Boss A", "Boss B"},
			RewardNotes: []string{
				"Defeating Boss B grants a permanent buff",
			},
		},
	}
	items := buildSectionItems("sec_08", entries, NewClassifier(nil, quietLogger()))

	require.Len(t, items.Checklist, 2)
	assert.Equal(t, models.ClassificationOptional, items.Checklist[0].Classification)
	assert.Equal(t, models.ClassificationRequired, items.Checklist[1].Classification)
	assert.Equal(t, []string{TagRequiredProgression}, items.Checklist[1].Tags)
}

func TestRetag(t *testing.T) {
	assert.Equal(t, []string{TagRequiredProgression}, retag([]string{TagOptionalContent}))
	assert.Equal(t, []string{TagRequiredProgression}, retag([]string{TagRequiredProgression}))
	assert.Equal(t, []string{"extra", TagRequiredProgression}, retag([]string{"extra", TagOptionalContent}))
	assert.Equal(t, []string{TagRequiredProgression}, retag(nil))
}
