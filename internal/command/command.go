// Package command wires the scoreboard into the blast-scores command line.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/okian/blast/internal/adapters/repository"
	service "github.com/okian/blast/internal/app"
	"github.com/okian/blast/internal/config"
	model "github.com/okian/blast/internal/domain/model"
	"github.com/okian/blast/internal/simulate"
	"github.com/okian/blast/pkg/logger"
	"github.com/okian/blast/pkg/metrics"
)

// ErrNoPlayer is returned by add when neither --name nor the player setting
// names who scored.
var ErrNoPlayer = errors.New("player name required: pass --name or set BLAST_PLAYER")

type runner struct {
	cfg *config.Config
}

// NewApp builds the blast-scores application. Command output goes to out,
// logs to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	r := &runner{}

	return &cli.App{
		Name:      "blast-scores",
		Usage:     "inspect and update the local high-score board",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite file holding the scores (overrides db_path)"},
			&cli.IntFlag{Name: "capacity", Usage: "number of scores kept (overrides capacity)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides log_level)"},
		},
		Before: func(c *cli.Context) error {
			return r.setup(c, errOut)
		},
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "submit a score",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "player name (defaults to the player setting)"},
					&cli.Int64Flag{Name: "score", Usage: "points scored", Required: true},
				},
				Action: r.add,
			},
			{
				Name:  "list",
				Usage: "print the board, best first",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "metrics", Usage: "append the metrics registry in text format"},
				},
				Action: r.list,
			},
			{
				Name:   "best",
				Usage:  "print the best score",
				Action: r.best,
			},
			{
				Name:  "simulate",
				Usage: "play random games against the board and verify it",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "games", Value: simulate.DefaultGames, Usage: "number of games to play"},
					&cli.IntFlag{Name: "players", Value: simulate.DefaultPlayers, Usage: "size of the player pool"},
					&cli.IntFlag{Name: "max-score", Value: simulate.DefaultMaxScore, Usage: "highest score a game can reach"},
					&cli.IntFlag{Name: "workers", Value: simulate.DefaultWorkers, Usage: "concurrent submitters"},
					&cli.Uint64Flag{Name: "seed", Usage: "generator seed (0 picks one at random)"},
				},
				Action: r.runSimulation,
			},
			{
				Name:   "worst",
				Usage:  "print the lowest score still on the board",
				Action: r.worst,
			},
		},
	}
}

func (r *runner) setup(c *cli.Context, errOut io.Writer) error {
	cfg, err := config.Load(c.Context)
	if err != nil {
		return err
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("capacity") {
		cfg.Capacity = c.Int("capacity")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithOutput(errOut), logger.WithFormat(strings.ToLower(cfg.LogFormat))); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	r.cfg = cfg
	return nil
}

func (r *runner) withBoard(ctx context.Context, fn func(*service.Service) error) (err error) {
	svc, err := service.Open(ctx, r.cfg.DBPath, r.cfg.Capacity,
		service.WithLogger(logger.Named("scoreboard")),
		service.WithStoreOptions(repository.WithBusyTimeout(r.cfg.BusyTimeout())),
	)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(svc)
}

func (r *runner) add(c *cli.Context) error {
	name := strings.TrimSpace(c.String("name"))
	if name == "" {
		name = strings.TrimSpace(r.cfg.Player)
	}
	if name == "" {
		return ErrNoPlayer
	}
	score := c.Int64("score")

	return r.withBoard(c.Context, func(svc *service.Service) error {
		ok, err := svc.Add(c.Context, name, score)
		if err != nil {
			return err
		}
		if ok {
			_, err = fmt.Fprintf(c.App.Writer, "%s scored %d: new high score!\n", name, score)
		} else {
			_, err = fmt.Fprintf(c.App.Writer, "%s scored %d: not a high score\n", name, score)
		}
		return err
	})
}

func (r *runner) list(c *cli.Context) error {
	return r.withBoard(c.Context, func(svc *service.Service) error {
		if err := service.FormatBoard(c.App.Writer, svc.All()); err != nil {
			return err
		}
		if c.Bool("metrics") {
			return metrics.WriteText(c.App.Writer)
		}
		return nil
	})
}

func (r *runner) best(c *cli.Context) error {
	return r.withBoard(c.Context, func(svc *service.Service) error {
		return printEntry(c.App.Writer, svc.First)
	})
}

func (r *runner) worst(c *cli.Context) error {
	return r.withBoard(c.Context, func(svc *service.Service) error {
		return printEntry(c.App.Writer, svc.Last)
	})
}

func (r *runner) runSimulation(c *cli.Context) error {
	cfg := simulate.Config{
		Games:    c.Int("games"),
		Players:  c.Int("players"),
		MaxScore: c.Int("max-score"),
		Workers:  c.Int("workers"),
		Seed:     c.Uint64("seed"),
	}
	return r.withBoard(c.Context, func(svc *service.Service) error {
		stats, err := simulate.Run(c.Context, svc, cfg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(c.App.Writer, stats); err != nil {
			return err
		}
		return service.FormatBoard(c.App.Writer, svc.All())
	})
}

func printEntry(w io.Writer, get func() (model.HighScore, bool)) error {
	h, ok := get()
	if !ok {
		_, err := fmt.Fprintln(w, service.EmptyBoard)
		return err
	}
	_, err := fmt.Fprintln(w, service.FormatEntry(h))
	return err
}
