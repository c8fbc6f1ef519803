package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/ballotfile"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/db"
	"github.com/danielhkuo/runoff/irv"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/report"
	"github.com/danielhkuo/runoff/router"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	if cfg.Serve {
		err = serve(cfg)
	} else {
		err = tally(cfg, os.Stdout)
	}
	if err != nil {
		slog.Error("runoff failed", "error", err)
		os.Exit(1)
	}
}

func serve(cfg cliparse.Config) error {
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	server := http.Server{
		Handler: middleware.CORS(router.NewRouter(dbConn, cfg)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	slog.Info("Server closed")
	return nil
}

// tally counts one election from a ballot file, stdin or a stored poll
// and writes the report to out
func tally(cfg cliparse.Config, out io.Writer) error {
	in, electionID, err := loadInput(cfg)
	if err != nil {
		return err
	}

	election, err := in.Election()
	if err != nil {
		return err
	}
	slog.Info("ballots loaded",
		"candidates", len(in.Candidates),
		"ballots", humanize.Comma(int64(election.TotalBallots)),
	)

	var rng irv.TieBreaker
	if cfg.HasSeed {
		rng = irv.NewSeededTieBreaker(cfg.Seed)
	}
	engine := irv.NewEngine(election, rng)

	if cfg.OutputFormat == cliparse.OutputJSON {
		res, err := engine.Run(nil)
		if err != nil {
			return err
		}
		return report.WriteJSON(out, report.Response(electionID, in.Candidates, res))
	}

	text := report.NewText(out, in.Candidates)
	res, err := engine.Run(text)
	if err != nil {
		return err
	}
	return text.Summary(res)
}

func loadInput(cfg cliparse.Config) (*ballotfile.Input, string, error) {
	if cfg.PollID != "" {
		conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return nil, "", err
		}
		defer conn.Close()
		in, err := db.LoadPoll(context.Background(), conn, cfg.PollID)
		if err != nil {
			return nil, "", fmt.Errorf("poll %s: %w", cfg.PollID, err)
		}
		return in, cfg.PollID, nil
	}

	format := ballotfile.FormatFromPath(cfg.InputPath)
	if cfg.InputFormat != "" {
		f, err := ballotfile.ParseFormat(cfg.InputFormat)
		if err != nil {
			return nil, "", err
		}
		format = f
	}

	in, err := readBallots(cfg.InputPath, format)
	if err != nil {
		return nil, "", err
	}
	return in, auth.NewID(), nil
}

func readBallots(path string, format ballotfile.Format) (*ballotfile.Input, error) {
	if path == "-" {
		return ballotfile.Read(os.Stdin, format)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	in, err := ballotfile.Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}
