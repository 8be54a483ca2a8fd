package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/config"
	"github.com/Garsondee/Circuits/internal/library"
	"github.com/Garsondee/Circuits/internal/logging"
	"github.com/Garsondee/Circuits/internal/share"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "circuitctl",
		Short: "Headless tools for grid logic circuits",
		Long: `circuitctl simulates, converts and stores circuits built in the
Circuits editor, and serves a live shared session over websockets.

Circuits are passed around as save strings or share links.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "circuits.yaml", "YAML config file (optional)")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newShowCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newLibraryCmd(),
		newSnapshotCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// loadConfig reads the --config file and environment, and builds a logger
// writing to the command's stderr.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()), nil
}

func openLibrary(cfg *config.Config) (*library.Library, error) {
	lib, err := library.Open(cfg.Library.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

// readGrid decodes a save string or share link. "-" reads the first line of
// in.
func readGrid(s string, in io.Reader) (*circuit.Grid, error) {
	if s == "-" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading save from stdin: %w", err)
		}
		s = strings.TrimRight(line, "\r\n")
	}
	if s == "" {
		return nil, fmt.Errorf("no save string given")
	}
	return share.FromLink(s)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
