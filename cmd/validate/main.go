package main

import (
	"flag"
	"log"
	"os"

	"poe2guide/internal/normalize"
)

func main() {
	var (
		dataPath = flag.String("data", "data/poe2_master_db.json", "master document path")
		strict   = flag.Bool("strict", false, "exit non-zero when any diagnostic is found")
	)
	flag.Parse()

	doc, err := normalize.LoadFile(*dataPath)
	if err != nil {
		log.Fatalf("load master document failed: %v", err)
	}

	diags := normalize.Validate(doc)
	normalize.LogDiagnostics(diags, log.Default())

	chapters := normalize.NewContext(doc, log.Default()).NormalizeChapters()
	sections := 0
	for _, chapter := range chapters {
		sections += len(chapter.Sections)
	}

	log.Printf("document revision %d: %d chapters, %d sections, %d diagnostics",
		doc.Revision(), len(chapters), sections, len(diags))

	if *strict && len(diags) > 0 {
		os.Exit(1)
	}
}
