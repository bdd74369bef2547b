package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/waxworks/sidecut/api"
	"github.com/waxworks/sidecut/api/types"
	"github.com/waxworks/sidecut/internal/database"
	"github.com/waxworks/sidecut/internal/services/library"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the review API server",
	Long: `Start the HTTP server for remote review of library state.

The server exposes album state, boundary analysis, and waveform data
for display, without modifying anything on disk.

Example:
  sidecut serve
  sidecut serve --port 9090`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if serverHost != "" {
		appConfig.Server.Host = serverHost
	}
	if serverPort != 0 {
		appConfig.Server.Port = serverPort
	}

	db, err := database.Initialize(appConfig.Database.Path, appConfig.Database.Verbose)
	if err != nil {
		return err
	}
	defer db.Close()

	albums := library.NewService(library.NewRepository(db), appConfig.Library.Path)

	server := api.NewServer(appConfig)
	server.SetDependencies(&types.Dependencies{
		DB:     db,
		Albums: albums,
		Config: appConfig,
	})
	if err := server.Initialize(); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Review server listening on %s\n", appConfig.ServerAddress())

	select {
	case <-stop:
		fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintln(os.Stderr, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Server gracefully stopped")
	return nil
}
