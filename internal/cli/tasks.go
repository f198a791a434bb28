package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"schemagraph/internal/app"
	"schemagraph/internal/tasks"
)

func newTasksCmd(run appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and run the maintenance tasks of the worker",
	}

	registry := func(a *app.App) *tasks.Registry {
		r := tasks.NewRegistry()
		tasks.DefineTasks(r, tasks.Deps{Menus: a.Menus, Pages: a.Pages, Graph: a.Graph, Logger: a.Logger})
		return r
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the registered tasks",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app.App, _ []string) error {
			for _, name := range registry(a).Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "run <task>",
		Short: "Run one task now and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app.App, args []string) error {
			handler, ok := registry(a).Get(args[0])
			if !ok {
				return fmt.Errorf("unknown task %q", args[0])
			}
			result, err := handler(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(result)
		}),
	})
	return cmd
}
