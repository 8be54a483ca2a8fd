package main

import (
	"encoding/json"
	"fmt"

	"github.com/Garsondee/Circuits/internal/protocol"
	"github.com/Garsondee/Circuits/internal/snapshot"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return json.NewEncoder(out).Encode(map[string]any{
					"version":  version,
					"protocol": protocol.Version,
					"snapshot": snapshot.Version,
				})
			}
			fmt.Fprintf(out, "circuitctl version %s (protocol %s, snapshot v%d)\n", version, protocol.Version, snapshot.Version)
			return nil
		},
	}
}
