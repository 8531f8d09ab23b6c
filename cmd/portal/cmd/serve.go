package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/jackc/envconf"
	"github.com/spf13/cobra"

	"github.com/coverleaf/go-portal/server"
)

var shutdownSignals = []os.Signal{os.Interrupt}

var serveEnvconf = envconf.New()

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portal web server",

	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddress, _ := cmd.Flags().GetString("listen-address")
		apiURL, _ := cmd.Flags().GetString("api-url")
		logFormat, _ := cmd.Flags().GetString("log-format")

		if !cmd.Flags().Changed("listen-address") {
			if v := firstNonEmpty(serveEnvconf.Value("PORTAL_LISTEN_ADDRESS"), config.ListenAddress); v != "" {
				listenAddress = v
			}
		}
		if !cmd.Flags().Changed("api-url") {
			if v := firstNonEmpty(serveEnvconf.Value("PORTAL_API_URL"), config.APIURL); v != "" {
				apiURL = v
			}
		}
		if !cmd.Flags().Changed("log-format") && config.LogFormat != "" {
			logFormat = config.LogFormat
		}

		logger := setupLogger(logFormat)

		p, err := setupPortal(apiURL, logger)
		if err != nil {
			return err
		}

		srv, err := server.NewServer(listenAddress, p, &logger)
		if err != nil {
			return err
		}

		processCtx, processCancel := context.WithCancel(cmd.Context())
		defer processCancel()

		interruptChan := make(chan os.Signal, 1)
		signal.Notify(interruptChan, shutdownSignals...)
		go func() {
			s := <-interruptChan
			signal.Reset() // A second interrupt terminates the program.
			logger.Info().Str("signal", s.String()).Msg("shutdown signal received")
			processCancel()
		}()

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Serve(); err != nil {
				logger.Fatal().Err(err).Msg("HTTP server failed to start")
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-processCtx.Done()
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("HTTP server failed to cleanly shutdown")
			}
		}()

		wg.Wait()
		return nil
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	serveEnvconf.Register(envconf.Item{Name: "PORTAL_API_URL", Default: "", Description: "Base URL of the forms backend"})
	serveEnvconf.Register(envconf.Item{Name: "PORTAL_LISTEN_ADDRESS", Default: "", Description: "The address to listen on for HTTP requests"})

	long := &strings.Builder{}
	long.WriteString("Run the portal web server.\n\nConfigure with the following environment variables:\n\n")
	for _, item := range serveEnvconf.Items() {
		long.WriteString(fmt.Sprintf("  %s\n    Default: %s\n    %s\n\n", item.Name, item.Default, item.Description))
	}
	serveCmd.Long = long.String()

	serveCmd.Flags().StringP("listen-address", "l", "127.0.0.1:8080", "The address to listen on for HTTP requests.")
	serveCmd.Flags().String("api-url", "http://localhost:3000", "Base URL of the forms backend.")
	serveCmd.Flags().String("log-format", "json", "Log format (json or console)")

	rootCmd.AddCommand(serveCmd)
}
