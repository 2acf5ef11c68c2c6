// Package main is lotoctl, the command line tool for managing the draw
// archive: importing results from the web or CSV exports and recomputing
// statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lottery-analyzer/internal/config"
	"lottery-analyzer/internal/game"
	"lottery-analyzer/internal/model"
	"lottery-analyzer/internal/pkg/db"
	"lottery-analyzer/internal/repository"
	"lottery-analyzer/internal/service"
)

func main() {
	var (
		gameFlag  = flag.String("game", "", "game code: euromillions, eurodreams, totoloto")
		latest    = flag.Bool("latest", false, "import the current archive year")
		year      = flag.Int("year", 0, "import a single archive year")
		all       = flag.Bool("all", false, "import the full archive")
		csvPath   = flag.String("csv", "", "import from a CSV export instead of the web")
		dryRun    = flag.Bool("dry-run", false, "report what would be imported without writing")
		noStats   = flag.Bool("no-stats", false, "skip the statistics recompute after importing")
		recompute = flag.Bool("recompute", false, "only recompute statistics, no import")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if !*verbose {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	code := game.Code(*gameFlag)
	if _, err := game.ByCode(code); err != nil {
		fmt.Fprintf(os.Stderr, "invalid --game: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	if !*latest && *year == 0 && !*all && *csvPath == "" && !*recompute {
		fmt.Fprintln(os.Stderr, "nothing to do: pass --latest, --year, --all, --csv or --recompute")
		os.Exit(2)
	}

	cfg, err := config.Load("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	drawRepo := repository.NewDrawRepository(dbPool.Pool)
	statRepo := repository.NewStatisticRepository(dbPool.Pool)
	statsService := service.NewStatsService(drawRepo, statRepo, nil)
	drawService := service.NewDrawService(drawRepo, statsService, cfg.Scraper.FirstYear, cfg.Scraper.Timeout)

	if *recompute {
		if err := statsService.Recompute(ctx, code); err != nil {
			fmt.Fprintf(os.Stderr, "recompute failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: statistics recomputed\n", code)
		return
	}

	opts := service.ImportOptions{
		Year:      *year,
		All:       *all,
		DryRun:    *dryRun,
		SkipStats: *noStats,
	}

	summary, err := run(ctx, drawService, code, *csvPath, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	// Zero new draws is a normal outcome when the archive is current.
	verb := "imported"
	if *dryRun {
		verb = "would import"
	}
	fmt.Printf("%s: found %d, %s %d new, %d duplicates, %d errors\n",
		code, summary.Found, verb, summary.New, summary.Duplicates, summary.Errors)
}

func run(ctx context.Context, draws *service.DrawService, code game.Code, csvPath string, opts service.ImportOptions) (summary model.ImportSummary, err error) {
	if csvPath != "" {
		f, err := os.Open(csvPath)
		if err != nil {
			return summary, err
		}
		defer f.Close()
		return draws.ImportCSV(ctx, code, f, opts)
	}
	return draws.ImportFromWeb(ctx, code, opts)
}
