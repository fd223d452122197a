package service

import (
	"fmt"
	"io"
	"text/tabwriter"

	model "github.com/okian/blast/internal/domain/model"
)

const dateLayout = "2006-01-02"

// EmptyBoard is printed in place of a board with no scores.
const EmptyBoard = "no high scores yet"

// FormatBoard writes scores as a ranked table, best first.
func FormatBoard(w io.Writer, scores []model.HighScore) error {
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, EmptyBoard)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range scores {
		if _, err := fmt.Fprintf(tw, "%d.\t%s\t%s\t%d\n", i+1, h.Name, h.When.Format(dateLayout), h.Score); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// FormatEntry renders a single score on one line.
func FormatEntry(h model.HighScore) string {
	return fmt.Sprintf("%s %s %d", h.When.Format(dateLayout), h.Name, h.Score)
}
