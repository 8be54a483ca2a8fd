package main

import (
	"encoding/json"
	"fmt"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/game"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a circuit headlessly and print its tick log",
		Long: `Run a circuit for a number of ticks without a window.

Prints the grid before and after the run, every signal change, a
summary, and an activity report that names the tick from which the
circuit settles or starts repeating. A save string that fails to decode falls back to an empty grid
of the configured size.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			save, _ := cmd.Flags().GetString("save")
			ticks, _ := cmd.Flags().GetInt("ticks")
			verbose, _ := cmd.Flags().GetBool("verbose")
			if ticks < 0 {
				return fmt.Errorf("--ticks must be >= 0, got %d", ticks)
			}

			opts := []game.SimOption{
				game.WithGridSize(cfg.Grid.Width, cfg.Grid.Height),
				game.WithVerbose(verbose),
			}
			if save != "" {
				if g, err := readGrid(save, cmd.InOrStdin()); err == nil {
					save = circuit.EncodeSave(g)
				}
				opts = append(opts, game.WithSave(save))
			}
			ts := game.NewTestSim(opts...)
			if ts.Err != nil {
				logger.Warn("failed to load circuit, starting empty", "err", ts.Err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				ts.RunTicks(ticks)
				res := map[string]any{
					"ticks":   ts.CurrentTick(),
					"events":  ts.SimLog.Entries(),
					"final":   ts.Snapshot(),
					"save":    circuit.EncodeSave(ts.Grid),
					"changes": ts.SimLog.Count("signal", ""),
				}
				if start, period, ok := ts.Reporter.Cycle(); ok {
					res["cycle"] = map[string]int{"start": start, "period": period}
				}
				return json.NewEncoder(out).Encode(res)
			}

			fmt.Fprintf(out, "=== Circuit %dx%d, %d ticks ===\n", ts.Width, ts.Height, ticks)
			fmt.Fprint(out, game.Render(ts.Grid))
			ts.RunTicks(ticks)
			fmt.Fprintln(out)
			fmt.Fprint(out, ts.SimLog.Format())
			fmt.Fprintln(out)
			fmt.Fprint(out, game.Render(ts.Grid))
			fmt.Fprint(out, ts.SimLog.Summary(ts.CurrentTick(), ts.Grid))
			fmt.Fprintln(out)
			fmt.Fprint(out, ts.Reporter.WindowSummary().Format())
			logger.Debug("simulation finished", "ticks", ts.CurrentTick(), "active", ts.ActiveCount())
			return nil
		},
	}
	cmd.Flags().String("save", "", "save string or share link (- reads stdin)")
	cmd.Flags().Int("ticks", 10, "ticks to run")
	cmd.Flags().Bool("verbose", false, "also log flood fills and active counts per tick")
	return cmd
}
