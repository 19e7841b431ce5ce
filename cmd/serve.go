package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/chaos-io/cutout/artifact"
	"github.com/chaos-io/cutout/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the background removal HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides CUTOUT_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	extractor, err := newExtractor()
	if err != nil {
		return err
	}

	opts := server.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		StaticDir:      cfg.StaticDir,
		Logger:         logger.Named("server"),
	}

	if cfg.Artifact.Dir != "" {
		store, err := artifact.NewStore(cfg.Artifact.Dir, cfg.Artifact.TTL, logger.Named("artifact"))
		if err != nil {
			return fmt.Errorf("failed to open artifact store: %w", err)
		}
		janitor, err := artifact.NewJanitor(store, cfg.Artifact.PruneSpec)
		if err != nil {
			return fmt.Errorf("failed to schedule artifact pruning: %w", err)
		}
		janitor.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			janitor.Stop(stopCtx)
		}()
		opts.Artifacts = store
		logger.Info("persisting artifacts",
			zap.String("dir", store.Dir()),
			zap.Duration("ttl", cfg.Artifact.TTL),
			zap.String("prune_spec", cfg.Artifact.PruneSpec))
	}

	srv := server.New(extractor, newCompositor(), opts)
	return srv.Run(ctx, cfg.Addr)
}
