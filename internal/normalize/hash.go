package normalize

import (
	"strconv"
	"strings"
)

// ChecklistItemID builds a stable, DOM-safe id for a checklist entry from the
// owning section id and the item's display text. Same inputs always produce
// the same id; the trailing base-36 checksum is a weak collision guard over
// the slug, which is enough for the small hand-curated id space per section.
func ChecklistItemID(sectionID, text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	slug := slugify(normalized)
	base := sectionID + "__" + slug

	var checksum int64
	for _, r := range base {
		checksum += int64(r)
	}
	return base + "-" + strconv.FormatInt(checksum, 36)
}

// slugify collapses every run of non [a-z0-9] characters into a single hyphen
// and trims hyphens from both ends.
func slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
