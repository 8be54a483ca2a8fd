package main

import (
	"fmt"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/snapshot"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Move circuits between snapshot files and the library",
	}
	cmd.AddCommand(newSnapshotExportCmd(), newSnapshotImportCmd())
	return cmd
}

func newSnapshotExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a save string or library circuit to a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			save, _ := cmd.Flags().GetString("save")
			name, _ := cmd.Flags().GetString("library")
			outPath, _ := cmd.Flags().GetString("out")
			tick, _ := cmd.Flags().GetUint64("tick")
			if outPath == "" {
				outPath = cfg.Editor.SnapshotPath
			}

			var g *circuit.Grid
			switch {
			case save != "" && name != "":
				return fmt.Errorf("--save and --library are mutually exclusive")
			case name != "":
				lib, err := openLibrary(cfg)
				if err != nil {
					return err
				}
				defer lib.Close()
				if g, err = lib.Load(cmd.Context(), name); err != nil {
					return err
				}
			default:
				if g, err = readGrid(save, cmd.InOrStdin()); err != nil {
					return err
				}
				name = cfg.Editor.SessionName
			}

			s := snapshot.Snapshot{Name: name, Tick: tick, Grid: g}
			if err := snapshot.Write(outPath, s); err != nil {
				return err
			}
			logger.Info("wrote snapshot", "path", outPath, "name", name)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %dx%d)\n", outPath, name, g.Width(), g.Height())
			return nil
		},
	}
	cmd.Flags().String("save", "", "save string or share link (- reads stdin)")
	cmd.Flags().String("library", "", "library circuit to export")
	cmd.Flags().String("out", "", "snapshot file (defaults to editor.snapshot_path)")
	cmd.Flags().Uint64("tick", 0, "tick recorded in the header")
	return cmd
}

func newSnapshotImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a snapshot file's circuit in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			in, _ := cmd.Flags().GetString("in")
			name, _ := cmd.Flags().GetString("name")
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			s, err := snapshot.Read(in)
			if err != nil {
				return err
			}
			if name == "" {
				name = s.Name
			}

			lib, err := openLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()
			if err := lib.Save(cmd.Context(), name, s.Grid); err != nil {
				return err
			}
			logger.Info("imported snapshot", "path", in, "name", name, "tick", s.Tick)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %s (tick %d, %dx%d)\n", in, name, s.Tick, s.Grid.Width(), s.Grid.Height())
			return nil
		},
	}
	cmd.Flags().String("in", "", "snapshot file to read")
	cmd.Flags().String("name", "", "library name (defaults to the snapshot's name)")
	return cmd
}
