package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-listfield/pkg/config"
	"github.com/goliatone/go-listfield/pkg/renderers/tui"
	"github.com/goliatone/go-listfield/pkg/schemabind"
)

func (a *app) editCmd() *cobra.Command {
	var (
		configPath  string
		openapiPath string
		operation   string
		valuesPath  string
		errorsPath  string
		format      string
		outputPath  string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit fields interactively and print the resulting values",
		Long: "Edit fields described by a configuration file or directory (the bundled " +
			"defaults when omitted) or by the request body of an OpenAPI operation.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var (
				doc config.Document
				err error
			)
			if openapiPath != "" {
				if operation == "" {
					return errors.New("--operation is required with --openapi")
				}
				data, rerr := os.ReadFile(openapiPath)
				if rerr != nil {
					return fmt.Errorf("read openapi document: %w", rerr)
				}
				doc, err = schemabind.Bind(ctx, data, operation, schemabind.WithLogger(a.log))
			} else {
				doc, err = loadDocument(configPath)
			}
			if err != nil {
				return err
			}
			if doc.Empty() {
				return errors.New("no editable fields found")
			}

			f, err := config.BuildForm(doc, config.WithLogger(a.log))
			if err != nil {
				return err
			}
			defer f.Close()

			if valuesPath != "" {
				values, err := readValues(valuesPath)
				if err != nil {
					return err
				}
				f.SetValues(values)
			}
			if errorsPath != "" {
				payload, err := readServerErrors(errorsPath)
				if err != nil {
					return err
				}
				mapped := f.ApplyServerErrors(payload)
				a.log.Debug("server errors applied", "fields", len(mapped.Fields), "form", len(mapped.Form))
			}

			editor := tui.New(
				tui.WithOutputFormat(tui.ParseOutputFormat(format)),
				tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
				tui.WithLogger(a.log),
			)
			out, err := editor.EditForm(ctx, f)
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, out, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				a.log.Info("values written", "path", outputPath, "contentType", editor.ContentType())
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file or directory")
	cmd.Flags().StringVar(&openapiPath, "openapi", "", "OpenAPI document to derive fields from")
	cmd.Flags().StringVar(&operation, "operation", "", "operation id used with --openapi")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON file with initial values")
	cmd.Flags().StringVar(&errorsPath, "errors", "", "JSON file with server validation errors keyed by field path")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, pretty or form")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func loadDocument(path string) (config.Document, error) {
	if path == "" {
		return config.Load(config.EmbeddedFS())
	}
	info, err := os.Stat(path)
	if err != nil {
		return config.Document{}, fmt.Errorf("read config: %w", err)
	}
	if info.IsDir() {
		return config.Load(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Document{}, fmt.Errorf("read config: %w", err)
	}
	return config.Parse(data, path)
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode values %s: %w", path, err)
	}
	return values, nil
}

// readServerErrors decodes a server error payload. Each path maps to a single
// message or a list of messages.
func readServerErrors(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read errors: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode errors %s: %w", path, err)
	}
	payload := make(map[string][]string, len(raw))
	for key, value := range raw {
		var messages []string
		if err := json.Unmarshal(value, &messages); err == nil {
			payload[key] = messages
			continue
		}
		var message string
		if err := json.Unmarshal(value, &message); err != nil {
			return nil, fmt.Errorf("decode errors %s: %q is neither a string nor a list of strings", path, key)
		}
		payload[key] = []string{message}
	}
	return payload, nil
}
