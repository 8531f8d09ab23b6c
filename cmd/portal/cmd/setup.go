package cmd

import (
	"io"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	portal "github.com/coverleaf/go-portal"
	"github.com/coverleaf/go-portal/client"
	"github.com/coverleaf/go-portal/pkg/renderers/html"
)

func setupLogger(logFormat string) zerolog.Logger {
	var logWriter io.Writer
	if logFormat == "json" {
		logWriter = os.Stdout
	} else {
		logWriter = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	logger := zerolog.New(logWriter).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

// setupPortal builds a Portal backed by the HTTP client against apiURL.
func setupPortal(apiURL string, logger zerolog.Logger) (*portal.Portal, error) {
	backend, err := client.New(apiURL, client.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return portal.New(
		portal.WithFormSource(backend),
		portal.WithSubmitter(backend),
		portal.WithSubmissionSource(backend),
		portal.WithTheme(&theme.RendererConfig{AssetURL: html.StaticAssetResolver("/static")}),
		portal.WithLogger(logger),
	), nil
}
