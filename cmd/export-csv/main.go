package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"poe2guide/internal/normalize"
	"poe2guide/pkg/models"
)

// Flattens the normalized checklist to CSV for spreadsheet-based route
// planning. Implied rewards get their own rows, linked by the implied_by
// column.
func main() {
	var (
		dataPath = flag.String("data", "data/poe2_master_db.json", "master document path")
		outPath  = flag.String("out", "data/checklist.csv", "output CSV path")
	)
	flag.Parse()

	doc, err := normalize.LoadFile(*dataPath)
	if err != nil {
		log.Fatalf("load master document failed: %v", err)
	}

	chapters := normalize.NewContext(doc, log.Default()).NormalizeChapters()

	if err := exportChecklist(chapters, *outPath); err != nil {
		log.Fatalf("export checklist failed: %v", err)
	}

	log.Printf("exported checklist to %s", *outPath)
}

func exportChecklist(chapters []models.NormalizedChapter, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"chapter", "section_id", "section_title", "level_range",
		"item_id", "kind", "classification", "implied_by", "tags", "text",
	}); err != nil {
		return err
	}

	writeItem := func(chapter string, section models.NormalizedSection, item models.NormalizedChecklistItem) error {
		return w.Write([]string{
			chapter,
			section.ID,
			section.Title,
			section.LevelRange,
			item.ID,
			string(item.Kind),
			string(item.Classification),
			item.ImpliedBy,
			strings.Join(item.Tags, "|"),
			item.Text,
		})
	}

	for _, chapter := range chapters {
		for _, section := range chapter.Sections {
			for _, item := range section.Checklist {
				if err := writeItem(chapter.Title, section, item); err != nil {
					return err
				}
				for _, reward := range item.ImpliedRewards {
					if err := writeItem(chapter.Title, section, reward); err != nil {
						return err
					}
				}
			}
			for _, reward := range section.SectionRewards {
				if err := writeItem(chapter.Title, section, reward); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}
