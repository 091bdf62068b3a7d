package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-listfield/components/messagetypes"
	"github.com/goliatone/go-listfield/pkg/taglist"
)

func (a *app) suggestCmd() *cobra.Command {
	var (
		limit       int
		catalogPath string
	)
	cmd := &cobra.Command{
		Use:   "suggest [query]",
		Short: "Print message types whose display name contains query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := loadPool(catalogPath)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			results := messagetypes.Suggest(pool, query, limit, messagetypes.NewSettings())
			a.log.Debug("suggestions computed", "query", query, "results", len(results))

			out := cmd.OutOrStdout()
			for _, suggestion := range results {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", suggestion.Value, suggestion.Label); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of suggestions (0 uses the default)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog to use instead of the bundled message types")
	return cmd
}

func loadPool(path string) (*taglist.Pool, error) {
	if strings.TrimSpace(path) == "" {
		return messagetypes.DefaultPool()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return messagetypes.LoadPool(f)
}
