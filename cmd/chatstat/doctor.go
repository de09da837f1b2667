package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/index"
	"github.com/Zuo-Peng/chatstat/internal/scan"
)

func doctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify transcript root, DB, FTS5, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			cfg := a.cfg

			fmt.Fprintln(w, "=== Paths ===")
			checkDir(w, "Transcripts", cfg.TranscriptRoot)
			checkDir(w, "Charts", cfg.ChartDir)

			fmt.Fprintln(w, "\n=== File Scan ===")
			files, err := scan.ScanRoot(cfg.TranscriptRoot)
			if err != nil {
				fmt.Fprintf(w, "  scan error: %v\n", err)
			} else {
				fmt.Fprintf(w, "  Transcript files: %d\n", len(files))
			}

			fmt.Fprintln(w, "\n=== Database ===")
			fmt.Fprintf(w, "  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Fprintln(w, "  Status: NOT FOUND (run 'chatstat index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			transcriptCount, err := db.TranscriptCount()
			if err != nil {
				return fmt.Errorf("count transcripts: %w", err)
			}
			messageCount, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}

			fmt.Fprintf(w, "  Transcripts: %d\n", transcriptCount)
			fmt.Fprintf(w, "  Messages:    %d\n", messageCount)

			fmt.Fprintln(w, "\n=== FTS5 ===")
			ftsCount, err := db.FTSCount()
			if err != nil {
				fmt.Fprintf(w, "  FTS5 error: %v\n", err)
			} else {
				fmt.Fprintf(w, "  FTS5 entries: %d\n", ftsCount)
				if ftsCount == messageCount {
					fmt.Fprintln(w, "  Status: OK (synced)")
				} else {
					fmt.Fprintf(w, "  Status: MISMATCH (messages=%d, fts=%d)\n", messageCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Fprintf(w, "\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkDir(w io.Writer, name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Fprintf(w, "  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Fprintf(w, "  %s: %s (OK)\n", name, path)
	}
}
