package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/heap-browser/internal/webui"
	"github.com/heap-browser/pkg/telemetry"
)

var (
	// Serve command flags
	serveDataDir string
	servePort    int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browse server over a directory of snapshots",
	Long: `Start an HTTP server exposing the snapshot browsing API.

The server loads snapshot files on demand, keeps a bounded number of them
in memory, and serves object fields, array items, inbound references and
class-merged views as JSON. Large collections come back as expandable
container nodes.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	binName := BinName()
	serveCmd.Example = `  # Start with default settings (port 8080, ./snapshots directory)
  ` + binName + ` serve

  # Specify snapshot directory and port
  ` + binName + ` serve -d ./dumps -p 9090`

	serveCmd.Flags().StringVarP(&serveDataDir, "data-dir", "d", "./snapshots", "Directory containing snapshot files")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port for the browse server (0 uses the configured port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	conf := GetConfig()

	if _, err := os.Stat(serveDataDir); os.IsNotExist(err) {
		return fmt.Errorf("data directory not found: %s", serveDataDir)
	}

	port := servePort
	if port == 0 {
		port = conf.Server.Port
	}

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Init(ctx)
	if err != nil {
		log.Warn("Failed to initialize telemetry: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer shutdownTelemetry(ctx)

	service := webui.NewBrowseService(serveDataDir, conf.Browser, conf.Server.MaxSnapshots, log, nil)
	server := webui.NewServer(service, port, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		shutdownTelemetry(shutdownCtx)
		os.Exit(0)
	}()

	log.Info("Snapshot directory: %s", serveDataDir)
	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
