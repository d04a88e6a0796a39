// collect_images pulls supplementary training images from public stock-photo
// APIs, one directory per category, recording every download in the ledger so
// re-runs only fetch new photos.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/fedepasi/racetagger-training/collect"
	"github.com/fedepasi/racetagger-training/db"
)

type apiConfig struct {
	UnsplashKey string `env:"UNSPLASH_API_KEY"`
	PexelsKey   string `env:"PEXELS_API_KEY"`
	PerPage     int    `env:"COLLECT_PER_PAGE" envDefault:"30"`
}

// categories mirror the scene classifier's class list: each one feeds a
// distinct label with queries phrased the way stock-photo search understands.
var categories = []collect.Category{
	{
		Name:        "race_start",
		Description: "Starting grid and race starts",
		Queries:     []string{"race start grid", "motorsport starting grid", "race cars lined up start"},
		Target:      100,
	},
	{
		Name:        "pit_stop",
		Description: "Pit lane and pit stop action",
		Queries:     []string{"pit stop racing", "race car pit lane", "mechanics pit stop"},
		Target:      100,
	},
	{
		Name:        "overtake",
		Description: "Cars racing side by side",
		Queries:     []string{"race cars side by side", "motorsport overtake", "cars battling race track"},
		Target:      100,
	},
	{
		Name:        "podium",
		Description: "Podium and trophy celebrations",
		Queries:     []string{"racing podium celebration", "motorsport trophy champagne", "race winner podium"},
		Target:      100,
	},
	{
		Name:        "crowd",
		Description: "Grandstands and spectators",
		Queries:     []string{"race track grandstand crowd", "motorsport spectators", "racing fans stands"},
		Target:      100,
	},
}

func main() {
	godotenv.Load()

	outputDir := flag.String("output", "collected", "Output directory")
	sourceName := flag.String("source", "all", "Source to use: unsplash, pexels or all")
	only := flag.String("category", "", "Collect a single category by name")
	flag.Parse()

	cfg := apiConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("ERROR: parsing config: %v", err)
	}

	var sources []collect.Source
	if (*sourceName == "all" || *sourceName == "unsplash") && cfg.UnsplashKey != "" {
		sources = append(sources, collect.NewUnsplashSource(cfg.UnsplashKey))
	}
	if (*sourceName == "all" || *sourceName == "pexels") && cfg.PexelsKey != "" {
		sources = append(sources, collect.NewPexelsSource(cfg.PexelsKey))
	}
	if len(sources) == 0 {
		log.Fatal("ERROR: no sources available. Set UNSPLASH_API_KEY and/or PEXELS_API_KEY.")
	}

	ledger, err := db.NewDBClient()
	if err != nil {
		log.Printf("WARNING: download ledger unavailable, duplicates possible: %v\n", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	selected := categories
	if *only != "" {
		selected = nil
		for _, cat := range categories {
			if strings.EqualFold(cat.Name, *only) {
				selected = []collect.Category{cat}
				break
			}
		}
		if len(selected) == 0 {
			log.Fatalf("ERROR: unknown category %q", *only)
		}
	}

	total := 0
	for _, source := range sources {
		log.Printf("Collecting from %s...\n", source.Name())
		collector := collect.NewCollector(source, ledger, cfg.PerPage)

		for _, cat := range selected {
			dir := filepath.Join(*outputDir, cat.Name)
			count, err := collector.CollectCategory(cat, dir)
			if err != nil {
				log.Printf("WARNING: %s/%s failed: %v\n", source.Name(), cat.Name, err)
				continue
			}
			log.Printf("  %s: %d new images\n", cat.Name, count)
			total += count
		}
	}

	log.Println()
	log.Printf("Collected %d new images into %s\n", total, *outputDir)
	if ledger != nil {
		if ledgerTotal, err := ledger.TotalDownloaded(); err == nil {
			log.Printf("Ledger total: %d downloads\n", ledgerTotal)
		}
	}
}
