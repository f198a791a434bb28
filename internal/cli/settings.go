package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"schemagraph/internal/app"
	"schemagraph/internal/settings"
)

func newSettingsCmd(run appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write option groups as YAML",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "get <group>",
		Short:     "Print an option group with defaults filled in",
		Args:      cobra.ExactArgs(1),
		ValidArgs: settings.Groups(),
		RunE: run(func(cmd *cobra.Command, a *app.App, args []string) error {
			values, err := a.Settings.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(values); err != nil {
				return err
			}
			return enc.Close()
		}),
	})

	var merge bool
	set := &cobra.Command{
		Use:       "set <group> <file.yaml>",
		Short:     "Store the values of a YAML file as an option group",
		Args:      cobra.ExactArgs(2),
		ValidArgs: settings.Groups(),
		RunE: run(func(cmd *cobra.Command, a *app.App, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			values := map[string]any{}
			if err := yaml.Unmarshal(raw, &values); err != nil {
				return fmt.Errorf("parse %s: %w", args[1], err)
			}
			if merge {
				err = a.Settings.Update(cmd.Context(), args[0], values)
			} else {
				err = a.Settings.Set(cmd.Context(), args[0], values)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", args[0])
			return nil
		}),
	}
	set.Flags().BoolVar(&merge, "merge", false, "merge into the stored values instead of replacing them")
	cmd.AddCommand(set)
	return cmd
}
