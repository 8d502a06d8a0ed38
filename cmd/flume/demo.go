package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statewise/flume"
	"github.com/statewise/flume/internal/cli"
	"github.com/statewise/flume/internal/presentation/tui"
	"github.com/statewise/flume/pkg/middleware"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted dispatch scenario against a counter store",
	Long: `Runs a scenario of sync and async dispatches against an integer counter,
with the logging middleware attached, and prints the resulting state after
each commit. Without --scenario a built-in script runs that also shows a
failing reduction and the async last-commit-wins race.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		path, _ := cmd.Flags().GetString("scenario")

		logger := cli.NewLogger(debug)

		scenario := cli.DefaultScenario()
		if path != "" {
			loaded, err := cli.LoadScenario(path)
			if err != nil {
				return err
			}
			scenario = loaded
		}

		if cli.Interactive() {
			tui.PrintBanner(flume.Version)
		}

		store := flume.New(scenario.Initial,
			flume.WithLogger[int](logger),
			flume.WithMiddleware[int](middleware.NewLogging[int](logger)),
			flume.WithAsyncErrorHandler[int](func(a flume.Action[int], err error) {
				logger.Warn("async dispatch failed", "action", a.Label(), "err", err)
			}),
		)
		defer store.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		for i, step := range scenario.Steps {
			action, err := step.ToAction()
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			if action == nil { // wait step
				store.Wait()
				continue
			}
			if err := store.Dispatch(ctx, action); err != nil {
				// A failed sync reduction is part of the show: the state is
				// untouched and the scenario carries on.
				logger.Warn("dispatch failed", "action", action.Label(), "err", err)
			}
		}
		store.Wait()

		summary := fmt.Sprintf("# Scenario finished\n\nFinal committed state: **%d** after %d steps.\n",
			store.State(), len(scenario.Steps))
		if cli.Interactive() {
			render := tui.NewRenderer()
			if out, err := render(summary); err == nil {
				fmt.Print(out)
				return nil
			}
		}
		fmt.Fprintf(os.Stdout, "final state: %d\n", store.State())
		return nil
	},
}

func init() {
	demoCmd.Flags().String("scenario", "", "Path to a YAML scenario file")
	rootCmd.AddCommand(demoCmd)
}
