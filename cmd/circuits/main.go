package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/config"
	"github.com/Garsondee/Circuits/internal/game"
	"github.com/Garsondee/Circuits/internal/library"
	"github.com/Garsondee/Circuits/internal/logging"
	"github.com/Garsondee/Circuits/internal/share"
	"github.com/Garsondee/Circuits/internal/snapshot"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var cfgPath, save, snapPath, libName string
	flag.StringVar(&cfgPath, "config", "circuits.yaml", "YAML config file (optional)")
	flag.StringVar(&save, "save", "", "save string or share link to open")
	flag.StringVar(&snapPath, "snapshot", "", "snapshot file to open")
	flag.StringVar(&libName, "library", "", "library circuit to open")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

	lib, err := library.Open(cfg.Library.Path)
	if err != nil {
		logger.Warn("library unavailable", "path", cfg.Library.Path, "err", err)
		lib = nil
	}

	g := initialGrid(cfg, lib, logger, save, snapPath, libName)

	opts := game.Options{
		Config:    cfg.Editor,
		Clipboard: share.System(),
		Logger:    logger,
	}
	if lib != nil {
		opts.Library = lib
	}

	ebiten.SetWindowTitle("Circuits")
	ebiten.SetWindowSize(cfg.Editor.WindowWidth, cfg.Editor.WindowHeight)
	runErr := ebiten.RunGame(game.New(g, opts))
	if runErr != nil {
		logger.Error("game exited", "err", runErr)
	}
	if lib != nil {
		if err := lib.Close(); err != nil {
			logger.Warn("close library", "err", err)
		}
	}
	if runErr != nil {
		os.Exit(1)
	}
}

// initialGrid picks the first configured source. Any failure falls back to
// an empty grid of the configured size.
func initialGrid(cfg *config.Config, lib *library.Library, logger *slog.Logger, save, snapPath, libName string) *circuit.Grid {
	var (
		g      *circuit.Grid
		err    error
		source string
	)
	switch {
	case save != "":
		source = "save"
		g, err = share.FromLink(save)
	case snapPath != "":
		source = "snapshot"
		var s snapshot.Snapshot
		if s, err = snapshot.Read(snapPath); err == nil {
			g = s.Grid
		}
	case libName != "":
		source = "library"
		if lib == nil {
			err = errors.New("library unavailable")
		} else {
			g, err = lib.Load(context.Background(), libName)
		}
	default:
		return circuit.New(cfg.Grid.Width, cfg.Grid.Height)
	}
	if err != nil {
		logger.Warn("failed to load circuit, starting empty", "source", source, "err", err)
		return circuit.New(cfg.Grid.Width, cfg.Grid.Height)
	}
	logger.Info("loaded circuit", "source", source, "width", g.Width(), "height", g.Height())
	return g
}
