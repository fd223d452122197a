// Package simulate plays randomized games against a scoreboard and checks
// that the board ends up holding the best scores that were submitted.
package simulate

import (
	"errors"
	"time"
)

// Defaults used when a Config field is left zero.
const (
	DefaultGames    = 100
	DefaultPlayers  = 8
	DefaultMaxScore = 1_000
	DefaultWorkers  = 4
)

const workerChannelMultiplier = 2

// ErrVerification is returned when the board disagrees with the submitted scores.
var ErrVerification = errors.New("scoreboard verification failed")

// Config holds the parameters of one simulation run.
type Config struct {
	Games    int    // Number of games to play
	Players  int    // Size of the player pool names are drawn from
	MaxScore int    // Scores are drawn from [0, MaxScore]
	Workers  int    // Number of concurrent submitters
	Seed     uint64 // Generator seed; 0 picks a random one
}

func (c Config) withDefaults() Config {
	if c.Games <= 0 {
		c.Games = DefaultGames
	}
	if c.Players <= 0 {
		c.Players = DefaultPlayers
	}
	if c.MaxScore <= 0 {
		c.MaxScore = DefaultMaxScore
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

// Play is a single finished game.
type Play struct {
	Name  string
	Score int64
}

// Stats summarizes a run.
type Stats struct {
	Generated int
	Submitted int
	Admitted  int
	Rejected  int
	Failed    int
	Duration  time.Duration
}
