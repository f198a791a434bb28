package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"schemagraph/internal/app"
	"schemagraph/internal/customschema"
	"schemagraph/internal/jsonld"
	"schemagraph/internal/page"
	"schemagraph/internal/schema"
	"schemagraph/internal/schemaerr"
)

func newTypesCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the schema types with a dedicated template",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app.App, _ []string) error {
			for _, t := range a.Registry.Types() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		}),
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a JSON-LD document or array of documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			docs, err := jsonld.ParseAll(raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for i, doc := range docs {
				err := schema.Validate(doc)
				var verr *schemaerr.ValidationError
				switch {
				case err == nil:
					fmt.Fprintf(out, "ok    #%d %s\n", i, doc.Type())
				case errors.As(err, &verr):
					invalid++
					fmt.Fprintf(out, "FAIL  #%d %s\n", i, doc.Type())
					for _, issue := range verr.Issues {
						fmt.Fprintf(out, "        %s: %s\n", issue.Field, issue.Message)
					}
				default:
					return err
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d documents invalid", invalid, len(docs))
			}
			return nil
		},
	}
}

func newExportCmd(run appRunner) *cobra.Command {
	var pageID uint
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the custom schemas of a page as JSON",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app.App, _ []string) error {
			entries, err := a.Custom.Export(cmd.Context(), pageID)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []customschema.Entry{}
			}
			raw, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			raw = append(raw, '\n')
			if output == "" {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			return os.WriteFile(output, raw, 0o644)
		}),
	}
	cmd.Flags().UintVar(&pageID, "page", 0, "page id (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}

func newImportCmd(run appRunner) *cobra.Command {
	var pageID uint
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append the documents of a JSON file to a page",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app.App, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			docs, err := jsonld.ParseAll(raw)
			if err != nil {
				return err
			}
			n, err := a.Custom.Import(cmd.Context(), pageID, docs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d schemas into page %d\n", n, pageID)
			return nil
		}),
	}
	cmd.Flags().UintVar(&pageID, "page", 0, "page id (required)")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}

func newAddCmd(run appRunner) *cobra.Command {
	var (
		pageID    uint
		typ       string
		inputFile string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom schema to a page from a type template",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app.App, _ []string) error {
			var in schema.Input
			if inputFile != "" {
				raw, err := os.ReadFile(inputFile)
				if err != nil {
					return err
				}
				if err := yaml.Unmarshal(raw, &in); err != nil {
					return fmt.Errorf("parse %s: %w", inputFile, err)
				}
			}

			ctx := cmd.Context()
			pc, err := a.Pages.Context(ctx, pageID)
			if err != nil && !schemaerr.Is(err, schemaerr.ErrCodeNotFound) {
				return err
			}
			if err != nil {
				pc = page.Context{ID: pageID}
			}
			bc := schema.BuildContext{Page: pc, SiteName: a.Config.SiteName, SiteURL: a.Config.SiteURL, Now: time.Now()}
			entry, index, err := a.Custom.AddFromTemplate(ctx, pageID, typ, in, bc)
			if err != nil {
				return err
			}
			if err := schema.Validate(entry.Document); err != nil {
				loggerFrom(ctx).Warn("schema stored but will not be emitted until fixed", "error", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s at index %d (id %s)\n", entry.Document.Type(), index, entry.ID)
			return nil
		}),
	}
	cmd.Flags().UintVar(&pageID, "page", 0, "page id (required)")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "schema type (required)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "YAML file with template fields")
	_ = cmd.MarkFlagRequired("page")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
