package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/share"
	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the named circuit library",
	}
	cmd.AddCommand(
		newLibrarySaveCmd(),
		newLibraryLoadCmd(),
		newLibraryListCmd(),
		newLibraryDeleteCmd(),
	)
	return cmd
}

func newLibrarySaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Store a circuit under NAME, replacing any previous one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			save, _ := cmd.Flags().GetString("save")
			g, err := readGrid(save, cmd.InOrStdin())
			if err != nil {
				return err
			}
			lib, err := openLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			if err := lib.Save(cmd.Context(), args[0], g); err != nil {
				return err
			}
			logger.Info("saved circuit", "name", args[0], "width", g.Width(), "height", g.Height())
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%dx%d)\n", args[0], g.Width(), g.Height())
			return nil
		},
	}
	cmd.Flags().String("save", "", "save string or share link (- reads stdin)")
	return cmd
}

func newLibraryLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load NAME",
		Short: "Print the save string or share link of a stored circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			lib, err := openLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			g, err := lib.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			base, _ := cmd.Flags().GetString("base")
			if base == "" {
				base = cfg.Editor.ShareBaseURL
			}
			if base == "" {
				fmt.Fprintln(out, circuit.EncodeSave(g))
				return nil
			}
			link, err := share.Link(base, g)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, link)
			return nil
		},
	}
	cmd.Flags().String("base", "", "share link base URL (defaults to editor.share_base_url)")
	return cmd
}

type entryJSON struct {
	Name    string    `json:"name"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Updated time.Time `json:"updated"`
}

func newLibraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored circuits",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			lib, err := openLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			entries, err := lib.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				list := make([]entryJSON, 0, len(entries))
				for _, e := range entries {
					list = append(list, entryJSON(e))
				}
				return json.NewEncoder(out).Encode(list)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "library is empty")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%dx%d\t%s\n", e.Name, e.Width, e.Height, e.Updated.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newLibraryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			lib, err := openLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			logger.Info("deleted circuit", "name", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
