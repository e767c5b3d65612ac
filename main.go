package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vempatir/portfolio/config"
	"github.com/vempatir/portfolio/internal/admin"
	"github.com/vempatir/portfolio/internal/analytics"
	"github.com/vempatir/portfolio/internal/site"
)

const cleanupInterval = time.Hour

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Personal portfolio site",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, newExportCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func newExportCmd() *cobra.Command {
	var out, theme, images string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the portfolio to a standalone HTML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := site.New(site.Config{
				Content: siteContent(),
				Images:  os.DirFS(images),
			})
			if err != nil {
				return err
			}
			err = writeExport(out, func(w io.Writer) error {
				return srv.RenderIndex(w, site.ParseTheme(theme))
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "index.html", "output file")
	cmd.Flags().StringVar(&theme, "theme", string(site.DefaultTheme), "initial theme (dark or light)")
	cmd.Flags().StringVar(&images, "images", "./images", "directory holding project images")
	return cmd
}

// writeExport renders into path. On any failure the file is removed so no
// partial page is left behind.
func writeExport(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var errs []error
	if err := render(f); err != nil {
		errs = append(errs, fmt.Errorf("render index: %w", err))
	}
	if err := f.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", path, err))
	}
	if len(errs) == 0 {
		return nil
	}
	if err := os.Remove(path); err != nil {
		errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
	}
	return errors.Join(errs...)
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logger()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		recorder analytics.Recorder = analytics.Nop{}
		store    *analytics.Store
	)
	if cfg.Analytics.DBPath != "" {
		var err error
		store, err = analytics.Open(ctx, cfg.Analytics.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
		logger.Info("visitor tracking enabled with hashed IP addresses", "db", cfg.Analytics.DBPath)
	}

	siteCfg := site.Config{
		Content:          siteContent(),
		RotationInterval: cfg.App.RotationInterval,
		Recorder:         recorder,
		Logger:           logger,
		Images:           os.DirFS(cfg.Server.ImagesDir),
	}
	if store != nil {
		siteCfg.Retention = cfg.Analytics.Retention
	}
	srv, err := site.New(siteCfg)
	if err != nil {
		return err
	}

	// runs before store.Close so no visit is written to a closed database
	tracker := analytics.NewTracker(recorder, logger)
	defer tracker.Wait()

	r := srv.Engine(tracker.Middleware())
	if store != nil {
		adminHandler, err := admin.New(store, admin.Config{
			Credentials: admin.Credentials{
				Username: cfg.Admin.Username,
				Password: cfg.Admin.Password,
			},
			SecureCookie: cfg.IsProduction(),
			Retention:    cfg.Analytics.Retention,
			Logger:       logger,
		})
		if err != nil {
			return err
		}
		adminHandler.RegisterRoutes(r)
	}

	g, gctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// label streams end when the server starts shutting down
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		logger.Info("starting server", "addr", "http://localhost:"+cfg.Server.Port, "env", cfg.App.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	})
	if store != nil {
		g.Go(func() error {
			return store.RunCleanup(gctx, cfg.Analytics.Retention, cleanupInterval, logger)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}
