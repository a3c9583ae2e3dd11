package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"dribbble-scraper/internal/components/telemetry"
	"dribbble-scraper/internal/output"
	"dribbble-scraper/internal/scrapers/dribbble"
	"dribbble-scraper/lib/configutil"
	"dribbble-scraper/lib/restyutil"
	"dribbble-scraper/lib/serviceutil"
	libtelemetry "dribbble-scraper/lib/telemetry"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X ...commands.version=..."
var version = "dev"

var (
	username    *string
	getMetadata *bool
	jsonFile    *string
	configPath  *string
	debug       *bool
	dumpHttp    *string
)

func init() {
	username = rootCmd.Flags().StringP("username", "u", "", "The dribbble username to scrape.")
	getMetadata = rootCmd.Flags().BoolP("get-metadata", "m", false, "Fetch every shot's page for its palette, counts, date and tags.")
	jsonFile = rootCmd.Flags().StringP("json-file", "j", "", "Name of the output file, defaults to the username.")
	configPath = rootCmd.Flags().String("config", "dribbble.json5", "Path to the scraper config.")
	debug = rootCmd.Flags().Bool("debug", false, "Log debug output, including every request.")
	dumpHttp = rootCmd.Flags().String("dump-http", "", "Write every request and response into this directory.")
	rootCmd.MarkFlagRequired("username")
}

var rootCmd = &cobra.Command{
	Use:          "dribbble -u <username> [-m] [-j <output>]",
	Short:        "Scrapes a dribbble profile into a json document.",
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*debug)

		ctx, stop := serviceutil.SignalContext()
		defer stop()

		shutdown := setupTelemetry(ctx)
		defer shutdown()

		cfg, err := configutil.ReadWithDefaults(*configPath, dribbble.DefaultConfig())
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		opts := dribbble.Options{Metadata: *getMetadata}
		if *dumpHttp != "" {
			dump, err := restyutil.NewFilesystemOutput(*dumpHttp)
			if err != nil {
				serviceutil.Fatal("failed to create http dump directory", err)
			}
			opts.Dump = dump
		}

		scraper, err := dribbble.NewScraper(cfg, opts, telemetry.SlogAPI{})
		if err != nil {
			serviceutil.Fatal("failed to initialize scraper", err)
		}

		slog.Info("scraping profile", "username", *username, "metadata", *getMetadata)
		start := time.Now()
		profile, err := scraper.Scrape(ctx, *username)
		elapsed := time.Since(start)
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted, nothing was written")
			stop()
			shutdown()
			os.Exit(serviceutil.ExitInterrupted)
		}
		if err != nil {
			serviceutil.Fatal("scrape failed", err)
		}

		name := *jsonFile
		if name == "" {
			name = *username
		}
		path := output.Path(name)
		err = output.WriteJSON(path, profile)
		if err != nil {
			serviceutil.Fatal("failed to write output", err)
		}

		renderSummary(os.Stdout, profile, path, elapsed)
	},
}

// setupTelemetry exports traces and metrics when a telemetry.json5 is found,
// the returned function flushes them.
func setupTelemetry(ctx context.Context) func() {
	tel, err := libtelemetry.SetupFromEnv(ctx, "dribbble-scraper")
	if errors.Is(err, os.ErrNotExist) {
		return func() {}
	}
	if err != nil {
		slog.Warn("failed to setup telemetry", "err", err)
		return func() {}
	}
	if tel.MeterProvider != nil {
		libtelemetry.InstrumentPerfStats(ctx, time.Second*30)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := tel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
