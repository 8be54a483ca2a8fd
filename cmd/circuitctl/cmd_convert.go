package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/game"
	"github.com/Garsondee/Circuits/internal/share"
	"github.com/Garsondee/Circuits/internal/snapshot"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render a circuit as text",
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetString("save")
			g, err := readGrid(save, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return json.NewEncoder(out).Encode(map[string]any{
					"width":  g.Width(),
					"height": g.Height(),
					"rows":   renderRows(g),
				})
			}
			fmt.Fprintf(out, "%dx%d\n", g.Width(), g.Height())
			fmt.Fprint(out, game.Render(g))
			return nil
		},
	}
	cmd.Flags().String("save", "", "save string or share link (- reads stdin)")
	return cmd
}

func renderRows(g *circuit.Grid) []string {
	text := strings.TrimSuffix(game.Render(g), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the save string or share link of a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			base, _ := cmd.Flags().GetString("base")
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			s, err := snapshot.Read(in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if base == "" {
				fmt.Fprintln(out, circuit.EncodeSave(s.Grid))
				return nil
			}
			link, err := share.Link(base, s.Grid)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, link)
			return nil
		},
	}
	cmd.Flags().String("in", "", "snapshot file to read")
	cmd.Flags().String("base", "", "share link base URL; empty prints the bare save string")
	return cmd
}

type cellJSON struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Kind   string `json:"kind"`
	Dir    string `json:"dir,omitempty"`
	Active bool   `json:"active"`
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "List the non-empty cells of a save string",
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetString("save")
			g, err := readGrid(save, cmd.InOrStdin())
			if err != nil {
				return err
			}
			var cells []cellJSON
			for p, c := range g.All() {
				if c.Kind == circuit.Empty {
					continue
				}
				cj := cellJSON{X: p.X, Y: p.Y, Kind: c.Kind.String(), Active: c.IsActive()}
				if d, ok := c.Direction(); ok {
					cj.Dir = d.String()
				}
				cells = append(cells, cj)
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return json.NewEncoder(out).Encode(map[string]any{
					"width":  g.Width(),
					"height": g.Height(),
					"cells":  cells,
				})
			}
			fmt.Fprintf(out, "grid %dx%d, %d cells\n", g.Width(), g.Height(), len(cells))
			for _, c := range cells {
				dir := c.Dir
				if dir == "" {
					dir = "-"
				}
				fmt.Fprintf(out, "%3d,%-3d %-6s %-6s active=%t\n", c.X, c.Y, c.Kind, dir, c.Active)
			}
			return nil
		},
	}
	cmd.Flags().String("save", "", "save string or share link (- reads stdin)")
	return cmd
}
