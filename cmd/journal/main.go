package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"clickcounter/internal/config"
	"clickcounter/internal/logger"
	"clickcounter/internal/model"
	"clickcounter/internal/repository/sqlite"
	"clickcounter/internal/service/export"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.JournalPath, "Export journal database path")
	scanDir := flag.String("scan", "", "Directory to backfill existing exports from")
	source := flag.String("source", "", "Only list exports of this source path")
	limit := flag.Int("limit", 20, "Maximum number of exports to list")
	wipe := flag.Bool("clear", false, "Delete every journal record")
	flag.Parse()

	if *dbPath == "" {
		log.Fatalf("No journal configured: set JOURNAL_PATH or pass -db")
	}

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := sqlite.NewExportRepository(db)

	if *wipe {
		if err := repo.DeleteAll(); err != nil {
			log.Fatalf("Failed to clear journal: %v", err)
		}
		fmt.Printf("🗑️  Cleared journal %s\n", *dbPath)
		return
	}

	if *scanDir != "" {
		fmt.Printf("Backfilling exports from %s into %s\n", *scanDir, *dbPath)
		added, skipped, err := export.Backfill(*scanDir, repo, logger.New(os.Stderr))
		if err != nil {
			log.Fatalf("Failed to backfill: %v", err)
		}
		fmt.Printf("✅ Recorded %d exports\n", added)
		if skipped > 0 {
			fmt.Printf("⚠️  Skipped %d files (already recorded or unreadable)\n", skipped)
		}
	}

	filter := &model.ExportFilter{SourcePath: *source, Limit: *limit}
	exports, err := repo.GetAll(filter)
	if err != nil {
		log.Fatalf("Failed to list exports: %v", err)
	}
	total, err := repo.GetTotalCount(&model.ExportFilter{SourcePath: *source})
	if err != nil {
		log.Fatalf("Failed to count exports: %v", err)
	}

	if total == 0 {
		fmt.Println("No exports recorded")
		return
	}

	fmt.Printf("\n📊 Journal Statistics:\n")
	fmt.Printf("   Total exports: %d\n", total)
	fmt.Printf("   Latest:\n")
	for _, exp := range exports {
		fmt.Printf("      - %s  %s  %d marks  %dx%d  %d bytes\n",
			exp.Timestamp.Local().Format("2006-01-02 15:04:05"),
			exp.Filename, exp.MarkCount, exp.Width, exp.Height, exp.FileSize)
	}
}
