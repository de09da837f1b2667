package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/index"
)

func indexCmd(a *app) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan and index chat transcripts for search",
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				root = a.cfg.TranscriptRoot
			}

			db, err := index.OpenDB(a.cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			a.log.Info("scanning", "root", root, "db", a.cfg.DBPath)

			st, err := index.IndexAll(cmd.Context(), db, root, a.log)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Done. %s\n", st)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Transcript directory (default transcript_root from config)")

	return cmd
}
