package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/contactkeval/vix-spread-backtest/internal/api"
	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
	"github.com/contactkeval/vix-spread-backtest/internal/config"
	"github.com/contactkeval/vix-spread-backtest/internal/data"
	"github.com/contactkeval/vix-spread-backtest/internal/logger"
	"github.com/contactkeval/vix-spread-backtest/internal/report"
	"github.com/contactkeval/vix-spread-backtest/internal/store"
)

func main() {
	// Optional .env for local settings (API_PORT, VIX_DATA, ...).
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  vix-backtest backtest --data chain.csv --config strategy.yaml [--out results/] [--db runs.db]")
	fmt.Println("  vix-backtest sweep    --data chain.csv [--config strategies.yaml]")
	fmt.Println("  vix-backtest serve    --data chain.csv [--db runs.db]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --data accepts a CSV of end-of-day option quotes, optionally zipped")
	fmt.Println("  - sweep without --config runs the built-in presets")
}

func loadChain(path string) *data.Chain {
	if path == "" {
		path = os.Getenv("VIX_DATA")
	}
	if path == "" {
		fmt.Println("--data is required")
		os.Exit(2)
	}
	quotes, err := data.Load(path)
	if err != nil {
		fatal(err)
	}
	chain := data.NewChain(quotes)
	logger.Infof("event=chain_loaded path=%s rows=%d days=%d", path, len(quotes), chain.Days())
	return chain
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to option-chain CSV (or .zip)")
	cfgPath := fs.String("config", "", "Path to YAML strategy file")
	outDir := fs.String("out", "", "Optional: directory for trades.csv and trades.json")
	dbPath := fs.String("db", "", "Optional: SQLite trade journal to record the run")
	verbosity := fs.Int("v", 1, "Verbosity (0=error, 1=info, 2=debug, 3=trace)")
	_ = fs.Parse(args)
	logger.SetVerbosity(*verbosity)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}

	chain := loadChain(*dataPath)

	var journal *store.Store
	if *dbPath != "" {
		if journal, err = store.Open(*dbPath); err != nil {
			fatal(err)
		}
	}

	for _, strat := range cfg.Strategies() {
		res, err := backtest.New(strat, chain).Run(cfg.Backtest.StartingCapital)
		if err != nil {
			fatal(err)
		}
		sum := report.Summarize(res)
		report.Print(os.Stdout, sum, res)

		if *outDir != "" {
			if err := os.MkdirAll(*outDir, 0o755); err != nil {
				fatal(err)
			}
			if err := report.WriteCSV(res.Trades, *outDir); err != nil {
				fatal(err)
			}
			if err := report.WriteJSON(res, *outDir); err != nil {
				fatal(err)
			}
			fmt.Printf("Wrote %d trades to %s\n", len(res.Trades), *outDir)
		}
		if journal != nil {
			id, err := journal.SaveRun(strat, res, sum)
			if err != nil {
				fatal(err)
			}
			fmt.Printf("Recorded run %s\n", id)
		}
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to option-chain CSV (or .zip)")
	cfgPath := fs.String("config", "", "Optional: YAML file with a variants list")
	verbosity := fs.Int("v", 1, "Verbosity (0=error, 1=info, 2=debug, 3=trace)")
	_ = fs.Parse(args)
	logger.SetVerbosity(*verbosity)

	capital := float64(config.DefaultStartingCapital)
	variants := config.Presets()
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			fatal(err)
		}
		capital = cfg.Backtest.StartingCapital
		variants = cfg.Strategies()
	}

	chain := loadChain(*dataPath)

	var summaries []report.Summary
	for _, strat := range variants {
		res, err := backtest.New(strat, chain).Run(capital)
		if err != nil {
			logger.Errorf("event=sweep_variant_failed strategy=%s err=%v", strat.Name, err)
			continue
		}
		summaries = append(summaries, report.Summarize(res))
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].CAGRPct > summaries[j].CAGRPct })
	report.PrintComparison(os.Stdout, summaries)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to option-chain CSV (or .zip)")
	dbPath := fs.String("db", "", "Optional: SQLite trade journal")
	addr := fs.String("addr", "", "Listen address (default :$API_PORT or :8080)")
	capital := fs.Float64("capital", config.DefaultStartingCapital, "Default starting capital for API runs")
	verbosity := fs.Int("v", 1, "Verbosity (0=error, 1=info, 2=debug, 3=trace)")
	_ = fs.Parse(args)
	logger.SetVerbosity(*verbosity)

	chain := loadChain(*dataPath)

	var journal *store.Store
	if *dbPath != "" {
		var err error
		if journal, err = store.Open(*dbPath); err != nil {
			fatal(err)
		}
	}

	listen := *addr
	if listen == "" {
		port := os.Getenv("API_PORT")
		if port == "" {
			port = "8080"
		}
		listen = ":" + port
	}
	router := api.NewRouter(chain, journal, *capital)
	logger.Infof("event=serve addr=%s", listen)
	if err := router.Run(listen); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	logger.Errorf("%v", err)
	os.Exit(1)
}
