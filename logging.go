package main

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Values for --log-color and --progress.
const (
	modeAuto   = "auto"
	modeAlways = "always"
	modeNever  = "never"
)

// setupLogging configures the global logger based on CLI flags.
func setupLogging(cli *CLI) zerolog.Logger {
	logLevel := zerolog.InfoLevel
	if cli.Debug {
		logLevel = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(logLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	var logger zerolog.Logger
	if cli.LogJSON {
		logger = zerolog.New(os.Stderr)
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
		output.NoColor = !terminalFeature(cli.LogColor, os.Stderr) || (cli.LogColor == modeAuto && os.Getenv("NO_COLOR") != "")
		logger = zerolog.New(output)
	}
	logger = logger.With().Timestamp().Logger()

	// Set the global logger instance used by log.Debug(), log.Info(), etc.
	log.Logger = logger

	return logger
}

// terminalFeature resolves an auto/always/never mode; auto enables the
// feature only when f is a terminal.
func terminalFeature(mode string, f *os.File) bool {
	switch mode {
	case modeAlways:
		return true
	case modeNever:
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
