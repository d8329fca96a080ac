// Command choreo plays the tool-use inference scene: it prints the beat list, renders
// frames for an offline renderer, or streams them live to websocket viewers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"choreo/config"
	"choreo/export"
	"choreo/network"
	"choreo/scene"
	"choreo/stage"
	"choreo/timeline"
)

const shutdownWait = 5 * time.Second

type app struct {
	configPath string
	verbose    bool
	detail     string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "choreo",
		Short:        "Choreograph the tool-use inference scene",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.detail, "detail", "", "detail level: minimal or default")

	root.AddCommand(a.timelineCmd(), a.framesCmd(), a.serveCmd())
	return root
}

func (a *app) init() error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.detail != "" {
		d, err := scene.ParseDetail(a.detail)
		if err != nil {
			return err
		}
		cfg.Scene.Detail = d
	}
	logger, err := cfg.NewLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// output returns the named file, or the command's stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func (a *app) timelineCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the beat list as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := output(cmd, out)
			if err != nil {
				return err
			}
			defer w.Close()
			beats := timeline.Script(scene.New(a.cfg.Scene))
			a.logger.Debug("writing timeline",
				zap.Int("beats", len(beats)),
				zap.Float64("duration", timeline.TotalDuration(beats)))
			return export.WriteTimeline(w, beats)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) framesCmd() *cobra.Command {
	var (
		out    string
		fps    int
		script string
	)
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Render every frame as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fps <= 0 {
				fps = a.cfg.Playback.FrameHz
			}
			sc := scene.New(a.cfg.Scene)
			beats := timeline.Script(sc)
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("open timeline: %w", err)
				}
				beats, err = export.ReadTimeline(f)
				f.Close()
				if err != nil {
					return err
				}
			}
			p, err := timeline.NewPlayer(sc, beats, fps)
			if err != nil {
				return err
			}

			w, err := output(cmd, out)
			if err != nil {
				return err
			}
			defer w.Close()
			n, err := export.WriteFrames(cmd.Context(), w, p)
			if err != nil {
				return err
			}
			a.logger.Info("frames written", zap.Int("frames", n), zap.Int("fps", fps))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&fps, "fps", 0, "frame rate (default from config)")
	cmd.Flags().StringVar(&script, "timeline", "", "YAML beat list to play instead of the built-in one")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream the scene to websocket viewers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Address = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	mgr := stage.NewManager(a.cfg.StageOptions(a.logger))
	srv := &http.Server{
		Addr:              a.cfg.Server.Address,
		Handler:           network.NewServer(mgr, a.cfg.Scene, a.cfg.Server.AllowedOrigins, a.logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		mgr.StopAll()
		a.logger.Info("server stopped")
		return err
	})
	return g.Wait()
}
