package normalize

import (
	"strings"

	"poe2guide/pkg/models"
)

// sectionItems is the association engine's output for one section: the
// top-level checklist (boss items, with implied rewards nested) plus reward
// notes that could not be attributed to any boss.
type sectionItems struct {
	Checklist      []models.NormalizedChecklistItem
	SectionRewards []models.NormalizedChecklistItem
}

type bossCandidate struct {
	name string
	item models.NormalizedChecklistItem
}

// buildSectionItems links reward notes to the boss encounters they belong to.
// Entries must already be filtered to the section's zones. Association rules:
//
//   - no bosses: every tagged note becomes a section-level reward
//   - one boss: every tagged note is implied by that boss
//   - several bosses: a note attaches to the first boss whose name appears in
//     the note text (case-insensitive); unmatched notes stay section-level
//
// A boss gaining a required implied reward is promoted to required itself.
func buildSectionItems(sectionID string, entries []models.RewardEntry, classifier *Classifier) sectionItems {
	bosses := collectBosses(sectionID, entries, classifier)
	rewards := collectTaggedRewards(sectionID, entries, classifier)

	var out sectionItems

	switch len(bosses) {
	case 0:
		out.SectionRewards = rewards
	case 1:
		attachRewards(&bosses[0], rewards)
	default:
		for _, reward := range rewards {
			idx := matchBoss(bosses, reward)
			if idx < 0 {
				out.SectionRewards = append(out.SectionRewards, reward)
				continue
			}
			attachRewards(&bosses[idx], []models.NormalizedChecklistItem{reward})
		}
	}

	out.Checklist = make([]models.NormalizedChecklistItem, 0, len(bosses))
	for _, boss := range bosses {
		out.Checklist = append(out.Checklist, boss.item)
	}
	return out
}

// collectBosses builds boss checklist items in entry order. Bosses classified
// never_checklist are dropped here, before the zero/one/many association rules
// count them.
func collectBosses(sectionID string, entries []models.RewardEntry, classifier *Classifier) []bossCandidate {
	var bosses []bossCandidate
	for _, entry := range entries {
		for _, name := range entry.Key {
			class := classifier.ClassifyKey(name)
			if class == models.ClassificationNeverChecklist {
				continue
			}
			text := "Defeat: " + name
			bosses = append(bosses, bossCandidate{
				name: name,
				item: models.NormalizedChecklistItem{
					ID:             ChecklistItemID(sectionID, text),
					Text:           text,
					Tags:           []string{bossTag(class)},
					Kind:           models.ItemKindBoss,
					Classification: class,
				},
			})
		}
	}
	return bosses
}

// collectTaggedRewards builds reward items for every note carrying at least
// one extracted tag. Untagged notes are flavor text and are dropped entirely.
func collectTaggedRewards(sectionID string, entries []models.RewardEntry, classifier *Classifier) []models.NormalizedChecklistItem {
	var rewards []models.NormalizedChecklistItem
	for _, entry := range entries {
		for _, note := range entry.RewardNotes {
			tags := RewardNoteTags(note)
			if len(tags) == 0 {
				continue
			}
			text := "Reward: " + note
			rewards = append(rewards, models.NormalizedChecklistItem{
				ID:             ChecklistItemID(sectionID, text),
				Text:           text,
				Tags:           tags,
				Kind:           models.ItemKindReward,
				Classification: classifier.ClassifyRewardTags(tags),
			})
		}
	}
	return rewards
}

// attachRewards nests rewards under the boss and promotes the boss to
// required if any of them is required. Ties between classification and the
// boss tag set are resolved by rewriting both.
func attachRewards(boss *bossCandidate, rewards []models.NormalizedChecklistItem) {
	for _, reward := range rewards {
		reward.ImpliedBy = boss.item.ID
		boss.item.ImpliedRewards = append(boss.item.ImpliedRewards, reward)

		if reward.Classification == models.ClassificationRequired && boss.item.Classification != models.ClassificationRequired {
			boss.item.Classification = models.ClassificationRequired
			boss.item.Tags = retag(boss.item.Tags)
		}
	}
}

// matchBoss returns the index of the first boss whose name occurs in the
// reward text, or -1. When several boss names are substrings of the same note
// the first in list order wins; the tie is arbitrary and flagged by the
// validator as a data-quality issue.
func matchBoss(bosses []bossCandidate, reward models.NormalizedChecklistItem) int {
	lower := strings.ToLower(reward.Text)
	for i, boss := range bosses {
		if strings.Contains(lower, strings.ToLower(boss.name)) {
			return i
		}
	}
	return -1
}

func bossTag(class models.Classification) string {
	if class == models.ClassificationRequired {
		return TagRequiredProgression
	}
	return TagOptionalContent
}

// retag swaps optional_content for required_progression, preserving any other
// tags the item carries.
func retag(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := false
	for _, tag := range tags {
		if tag == TagOptionalContent {
			if !seen {
				out = append(out, TagRequiredProgression)
				seen = true
			}
			continue
		}
		if tag == TagRequiredProgression {
			seen = true
		}
		out = append(out, tag)
	}
	if !seen {
		out = append(out, TagRequiredProgression)
	}
	return out
}
