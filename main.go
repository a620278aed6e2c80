package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	dbcmd "github.com/dtnitsch/librarycloud-harvester/internal/db"
	"github.com/dtnitsch/librarycloud-harvester/internal/harvest"
	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lch",
		Usage: "Harvest Harvard LibraryCloud MODS records into a flat CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config file",
				EnvVars: []string{"LCH_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Debug logging",
				EnvVars: []string{"LCH_VERBOSE"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Usage:   "Only log errors",
				EnvVars: []string{"LCH_QUIET"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite harvest database (harvest saves only when set; listing defaults to next to the binary)",
				EnvVars: []string{"LCH_DB"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "harvest",
				Usage:  "Page through a LibraryCloud query and write one CSV row per record",
				Action: harvest.HarvestAction,
				Flags:  harvestFlags(),
			},
			{
				Name:   "harvests",
				Usage:  "List stored harvests",
				Action: dbcmd.HarvestsAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Number of harvests to show (0 = all)"},
				},
			},
			{
				Name:      "export",
				Usage:     "Rewrite the CSV of a stored harvest",
				ArgsUsage: "[harvest-id]",
				Action:    dbcmd.ExportAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "CSV path (defaults to the harvest's original output)"},
				},
			},
		},
	}
}

func harvestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "q",
			Usage:   "LibraryCloud query",
			EnvVars: []string{"LCH_QUERY"},
		},
		&cli.IntFlag{
			Name:    "page-size",
			Value:   models.DefaultPageSize,
			Usage:   fmt.Sprintf("Records per request, clamped to 1..%d", models.MaxPageSize),
			EnvVars: []string{"LCH_PAGE_SIZE"},
		},
		&cli.IntFlag{
			Name:    "max-records",
			Value:   models.DefaultMaxRecords,
			Usage:   "Stop after this many unique records",
			EnvVars: []string{"LCH_MAX_RECORDS"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   models.DefaultOutput,
			Usage:   "CSV output path",
			EnvVars: []string{"LCH_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Value:   models.DefaultBaseURL,
			Usage:   "LibraryCloud items endpoint",
			EnvVars: []string{"LCH_BASE_URL"},
		},
		&cli.DurationFlag{
			Name:    "delay",
			Value:   models.DefaultDelay,
			Usage:   "Pause between page requests",
			EnvVars: []string{"LCH_DELAY"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   models.DefaultTimeout,
			Usage:   "Per-request timeout",
			EnvVars: []string{"LCH_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "retries",
			Usage:   "Extra attempts for a failed request",
			EnvVars: []string{"LCH_RETRIES"},
		},
		&cli.StringFlag{
			Name:    "user-agent",
			Value:   models.DefaultUserAgent,
			EnvVars: []string{"LCH_USER_AGENT"},
		},
		&cli.StringFlag{
			Name:    "cache-dir",
			Usage:   "Cache raw API responses in this directory",
			EnvVars: []string{"LCH_CACHE_DIR"},
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Value:   models.DefaultCacheTTL,
			Usage:   "Maximum age of a cached response (0 = never expires)",
			EnvVars: []string{"LCH_CACHE_TTL"},
		},
		&cli.BoolFlag{
			Name:    "manifest",
			Usage:   "Write a JSON summary next to the CSV",
			EnvVars: []string{"LCH_MANIFEST"},
		},
		&cli.BoolFlag{
			Name:    "detect-language",
			Usage:   "Guess the language from the title when the record has none",
			EnvVars: []string{"LCH_DETECT_LANGUAGE"},
		},
		&cli.BoolFlag{
			Name:    "untyped-names-as-corporate",
			Value:   true,
			Usage:   "Also list names without a type in corporate_name",
			EnvVars: []string{"LCH_UNTYPED_NAMES_AS_CORPORATE"},
		},
	}
}
