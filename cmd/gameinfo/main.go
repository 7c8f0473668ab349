package main

import (
	"context"
	"flag"
	"log"
	"time"

	"poe2guide/internal/gameinfo"
)

func main() {
	var (
		outPath = flag.String("out", "public/poe2-game-info.json", "output JSON path")
		timeout = flag.Duration("timeout", 60*time.Second, "overall deadline for the run")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := gameinfo.NewClient()

	// All five requests run concurrently; any failure aborts the run with no
	// partial output.
	info, err := client.Fetch(ctx)
	if err != nil {
		log.Fatalf("fetch game info failed: %v", err)
	}

	if err := gameinfo.WriteFile(*outPath, info); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	log.Printf("wrote %s", *outPath)
}
