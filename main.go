package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
)

// CLI holds the command-line arguments
type CLI struct {
	Path       string `kong:"name='path',required,type='path',help='Path to a .fb2 file or a folder with files.'"`
	ConfigFile string `kong:"name='config',type='path',help='JSON file with naming patterns. Default: config.json in the working directory, if present.'"`
	DryRun     bool   `kong:"name='dry-run',short='n',help='Only print what would be renamed.'"`

	// Other options
	Jobs         int    `kong:"name='jobs',short='j',default='1',help='Number of files parsed in parallel. Output order is unchanged.',group='Options'"`
	MaxDepth     int    `kong:"name='max-depth',default='${max_depth}',help='Maximum directory depth below --path.',group='Options'"`
	SkipModified bool   `kong:"name='skip-modified',help='Leave books alone whose metadata needed cleaning or had missing or multiple titles/authors.',group='Options'"`
	Progress     string `kong:"name='progress',enum='auto,always,never',default='auto',help='Show a progress bar on stderr.',group='Options'"`

	Debug    bool   `kong:"name='debug',help='Enable debug logging.'"`
	LogJSON  bool   `kong:"name='log-json',help='Output logs in JSON format.'"`
	LogColor string `kong:"name='log-color',enum='auto,always,never',default='auto',help='Color logs.'"`
}

// Validate is called by kong after parsing.
func (c *CLI) Validate() error {
	if c.Jobs < 1 {
		return errors.New("--jobs must be at least 1")
	}
	if c.MaxDepth < 1 {
		return errors.New("--max-depth must be at least 1")
	}
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("fb2rename"),
		kong.Description("Rename FB2 e-books using the title and author from their metadata."),
		kong.UsageOnError(),
		kong.Vars{"max_depth": strconv.Itoa(defaultMaxDepth)},
	)

	logger := setupLogging(&cli)

	workDir, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to determine working directory")
	}

	cfg, err := loadConfig(&cli, workDir, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Configuration error")
		kctx.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	stats, err := run(ctx, &cli, cfg, os.Stdout, logger)
	stop()
	if err != nil {
		logger.Error().Err(err).Msg("Rename run aborted")
		kctx.Exit(1)
	}
	if !stats.ok() {
		logger.Error().Int("broken", stats.Broken).Int("failed", stats.Failed).Msg("Finished with errors")
		kctx.Exit(1)
	}
	logger.Info().Msg("Finished successfully")
}
