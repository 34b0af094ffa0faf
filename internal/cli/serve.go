package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cueline/internal/api"
	"github.com/mgpai22/cueline/internal/media"
	"github.com/mgpai22/cueline/internal/playback"
	"github.com/mgpai22/cueline/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve [media_file]",
	Short: "Start the caption editing server",
	Long: `Start the local HTTP server behind the caption editing page. A media file
given on the command line is loaded before the server starts accepting
requests, and --captions preloads an existing caption file.

Media routes only answer requests from this machine.

Examples:
  cueline serve
  cueline serve talk.mp4 --captions talk.srt
  cueline serve --port 9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Listen host; defaults to server.host")
	serveCmd.Flags().IntP("port", "p", 0, "Listen port; defaults to server.port")
	serveCmd.Flags().String("captions", "", "Caption file to load at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prober := media.NewProber(newResolver())
	sess := session.New(session.Options{
		DefaultDuration: cfg.Caption.DefaultDuration,
		StrictTiming:    cfg.Caption.StrictTiming,
		ExportFormat:    cfg.ExportFormat(),
		ExportFilename:  cfg.Export.Filename,
	}, playback.NewMirror(), prober, logger)

	if len(args) == 1 {
		if _, err := sess.LoadMedia(ctx, absPath(args[0])); err != nil {
			return err
		}
	}
	if captionsPath, _ := cmd.Flags().GetString("captions"); captionsPath != "" {
		if _, err := sess.ImportFile(captionsPath); err != nil {
			return err
		}
	}

	server := api.NewServer(api.ServerConfig{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		ReadTimeout: cfg.Server.ReadTimeout,
		Session:     sess,
		Streamer:    playback.NewStreamer(logger),
		Logger:      logger.Named("api"),
		StartTime:   startTime,
		Version:     Version,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Cueline editing server listening on http://%s\n", server.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Infow("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	}

	logger.Infow("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("failed to shutdown HTTP server", "error", err)
		return err
	}

	logger.Infow("shutdown complete")
	return nil
}
