package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-listfield/pkg/schemabind"
)

func (a *app) operationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operations <openapi-file>",
		Short: "List the operations of an OpenAPI document and their list fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read openapi document: %w", err)
			}
			ids, err := schemabind.Operations(cmd.Context(), data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, id := range ids {
				doc, err := schemabind.Bind(cmd.Context(), data, id, schemabind.WithLogger(a.log))
				if err != nil {
					a.log.Debug("operation skipped", "operation", id, "error", err)
					continue
				}
				for _, field := range doc.Fields {
					if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", id, field.Name, field.Kind); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}
