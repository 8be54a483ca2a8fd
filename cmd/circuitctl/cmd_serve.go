package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/session"
	"github.com/Garsondee/Circuits/internal/snapshot"
	"github.com/Garsondee/Circuits/internal/transport/ws"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live shared session over websockets",
		Long: `Run one circuit as a live session. Clients connect to /v1/ws, send a
HELLO, then edit and run the circuit with CMD messages and receive a
FRAME after every change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			save, _ := cmd.Flags().GetString("save")
			name, _ := cmd.Flags().GetString("library")
			snapOut, _ := cmd.Flags().GetString("snapshot-on-exit")
			if addr == "" {
				addr = cfg.Server.Addr
			}

			g := circuit.New(cfg.Grid.Width, cfg.Grid.Height)
			sessName := cfg.Editor.SessionName
			switch {
			case save != "":
				loaded, err := readGrid(save, cmd.InOrStdin())
				if err != nil {
					logger.Warn("failed to load circuit, starting empty", "err", err)
				} else {
					g = loaded
				}
			case name != "":
				lib, err := openLibrary(cfg)
				if err != nil {
					return err
				}
				loaded, err := lib.Load(cmd.Context(), name)
				lib.Close()
				if err != nil {
					return err
				}
				g, sessName = loaded, name
			}

			sess := session.New(g, session.Options{
				Name:   sessName,
				Period: time.Second / time.Duration(cfg.Server.TickRateHz),
				Logger: logger,
			})
			srv := ws.NewServer(sess, ws.Options{
				MaxClients: cfg.Server.MaxClients,
				WriteWait:  cfg.Server.WriteWait,
				Logger:     logger,
			})

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			sessCtx, stopSession := context.WithCancel(context.Background())
			defer stopSession()
			sessErr := make(chan error, 1)
			go func() { sessErr <- sess.Run(sessCtx) }()

			mux := http.NewServeMux()
			mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
				rw.WriteHeader(http.StatusOK)
				_, _ = rw.Write([]byte("ok"))
			})
			mux.HandleFunc("/v1/ws", srv.Handler())
			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-ctx.Done()
				ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel2()
				_ = httpSrv.Shutdown(ctx2)
			}()

			logger.Info("listening", "addr", addr, "session", sessName, "grid", fmt.Sprintf("%dx%d", g.Width(), g.Height()))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen: %w", err)
			}

			if snapOut != "" {
				snapCtx, cancelSnap := context.WithTimeout(context.Background(), 5*time.Second)
				s, err := sess.Snapshot(snapCtx)
				cancelSnap()
				if err != nil {
					logger.Warn("failed to capture final snapshot", "err", err)
				} else if err := snapshot.Write(snapOut, s); err != nil {
					logger.Warn("failed to write final snapshot", "path", snapOut, "err", err)
				} else {
					logger.Info("wrote final snapshot", "path", snapOut, "tick", s.Tick)
				}
			}

			stopSession()
			if err := <-sessErr; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "listen address (defaults to server.addr)")
	cmd.Flags().String("save", "", "initial circuit as save string or share link")
	cmd.Flags().String("library", "", "initial circuit from the library; names the session")
	cmd.Flags().String("snapshot-on-exit", "", "write the session to this snapshot file on shutdown")
	return cmd
}

// signalContext is cancelled on the first interrupt or when parent ends.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 2)
	notifySignals(ch)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
