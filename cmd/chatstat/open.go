package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatstat/internal/index"
	"github.com/Zuo-Peng/chatstat/internal/open"
)

func openCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <key|file> [line]",
		Short: "Open a transcript in $EDITOR at a line",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid line %q: %w", args[1], err)
				}
				line = n
			}

			path := args[0]
			if strings.HasPrefix(path, "txt:") {
				p, err := a.indexedPath(path)
				if err != nil {
					return err
				}
				path = p
			}
			return open.Record(path, line)
		},
	}
}

func (a *app) indexedPath(key string) (string, error) {
	db, err := index.OpenDB(a.cfg.DBPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	t, err := db.GetTranscriptByKey(key)
	if err != nil {
		return "", fmt.Errorf("get transcript: %w", err)
	}
	if t == nil {
		return "", fmt.Errorf("transcript not found: %s", key)
	}
	return t.FilePath, nil
}
