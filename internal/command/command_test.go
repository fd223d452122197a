package command_test

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/blast/internal/command"
	"github.com/okian/blast/internal/config"
)

// run executes one blast-scores invocation against db and returns stdout.
func run(db string, args ...string) (string, error) {
	var out bytes.Buffer
	argv := append([]string{"blast-scores", "--db", db, "--capacity", "3"}, args...)
	err := command.NewApp(&out, io.Discard).Run(argv)
	return out.String(), err
}

func TestCommands(t *testing.T) {
	t.Setenv("BLAST_CONFIG", "")
	t.Setenv("BLAST_PLAYER", "")

	Convey("Given an empty score file", t, func() {
		db := filepath.Join(t.TempDir(), "app.db")

		Convey("When the board is listed", func() {
			out, err := run(db, "list")

			Convey("Then the placeholder is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "no high scores yet\n")
			})
		})

		Convey("When best and worst are asked for", func() {
			best, err1 := run(db, "best")
			worst, err2 := run(db, "worst")

			Convey("Then both report an empty board", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(best, ShouldEqual, "no high scores yet\n")
				So(worst, ShouldEqual, "no high scores yet\n")
			})
		})

		Convey("When four scores are added to a board of three", func() {
			var outs []string
			for _, a := range [][]string{
				{"--name", "Allison", "--score", "2"},
				{"--name", "Bob", "--score", "1"},
				{"--name", "Charlie", "--score", "3"},
				{"--name", "David", "--score", "0"},
			} {
				out, err := run(db, append([]string{"add"}, a...)...)
				So(err, ShouldBeNil)
				outs = append(outs, out)
			}

			Convey("Then each invocation reports whether it made the board", func() {
				So(outs[0], ShouldEqual, "Allison scored 2: new high score!\n")
				So(outs[3], ShouldEqual, "David scored 0: not a high score\n")
			})

			Convey("Then the board persisted across invocations", func() {
				out, err := run(db, "list")
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(out), "\n")
				So(len(lines), ShouldEqual, 3)
				So(lines[0], ShouldContainSubstring, "Charlie")
				So(lines[2], ShouldContainSubstring, "Bob")

				best, _ := run(db, "best")
				So(best, ShouldContainSubstring, "Charlie 3")
				worst, _ := run(db, "worst")
				So(worst, ShouldContainSubstring, "Bob 1")
			})

			Convey("Then list --metrics appends the registry", func() {
				out, err := run(db, "list", "--metrics")
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "blast_scoreboard_board_size 3")
			})
		})

		Convey("When a simulation is run", func() {
			out, err := run(db, "simulate", "--games", "40", "--seed", "9")

			Convey("Then it reports the run and leaves a full board behind", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "40 games")

				list, _ := run(db, "list")
				So(len(strings.Split(strings.TrimSpace(list), "\n")), ShouldEqual, 3)
			})
		})

		Convey("When add has no player name", func() {
			_, err := run(db, "add", "--score", "5")

			Convey("Then it fails with ErrNoPlayer", func() {
				So(errors.Is(err, command.ErrNoPlayer), ShouldBeTrue)
			})
		})

		Convey("When the capacity flag is invalid", func() {
			var out bytes.Buffer
			err := command.NewApp(&out, io.Discard).Run([]string{"blast-scores", "--db", db, "--capacity", "0", "list"})

			Convey("Then configuration validation rejects it", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
