package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akashicode/grade/internal/catalog"
	"github.com/akashicode/grade/internal/display"
	"github.com/akashicode/grade/internal/importer"
	"github.com/akashicode/grade/internal/reader"
	"github.com/akashicode/grade/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the curriculum HTTP API",
	Long: `Starts the HTTP API on server.port (8000 by default, or $PORT).

Endpoints:
  POST /v1/curricula/extract        - extract {"pdfBase64"} or {"text"}
  GET  /v1/courses/{id}/curriculum  - stored curriculum of a course
  PUT  /v1/courses/{id}/curriculum  - replace it with {"subjects": [...]}
  GET  /health                      - liveness`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8000, "Port to listen on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := cfg.Server.Port
	// Use PORT env variable if set (container environments)
	if envPort := os.Getenv("PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		p, err := strconv.Atoi(envPort)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", envPort, err)
		}
		port = p
	}

	backend, err := reader.ParseBackend(cfg.Reader.Backend)
	if err != nil {
		return err
	}

	store, err := catalog.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	srv, err := server.New(server.Config{
		Importer:       importer.New(reader.Options{Backend: backend}, store),
		StoreDriver:    cfg.Store.Driver,
		ExtractTimeout: cfg.Server.ExtractTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
	})
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	courses, err := store.Courses(cmd.Context())
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	display.PrintBanner(display.ServerInfo{
		Version:        version,
		StoreDriver:    cfg.Store.Driver,
		StorePath:      storePath(),
		Courses:        len(courses),
		ReaderBackend:  string(backend),
		ExtractTimeout: cfg.Server.ExtractTimeout.String(),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Port:           port,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ExtractTimeout+5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func storePath() string {
	if cfg.Store.Driver == "memory" {
		return ""
	}
	return cfg.Store.Path
}
