// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/runoff/irv"
	"github.com/danielhkuo/runoff/models"
)

// Text prints rounds as aligned plain text while the count runs.
type Text struct {
	w     io.Writer
	names []string
	width int
}

// NewText returns a reporter writing to w. names are the candidates in ID
// order and set the column width.
func NewText(w io.Writer, names []string) *Text {
	width := 0
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	return &Text{w: w, names: names, width: width}
}

// ReportRound implements irv.Reporter.
func (t *Text) ReportRound(r irv.Round) error {
	if r.Number == 1 {
		if _, err := fmt.Fprintf(t.w, "%d candidates, %d votes\n", r.Candidates, r.TotalBallots); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(t.w, "\nRound %d ...\n", r.Number); err != nil {
		return err
	}

	for _, s := range r.Standings {
		line := fmt.Sprintf("%-*s:%5d votes, %4.1f%%", t.width, s.Name, s.Votes, s.Percent)
		if s.Elected {
			line += "  *** elected"
		}
		if _, err := fmt.Fprintln(t.w, line); err != nil {
			return err
		}
	}

	if r.TiedLosers > 1 {
		if _, err := fmt.Fprintf(t.w, "%d equal last candidates, outcome determined randomly\n", r.TiedLosers); err != nil {
			return err
		}
	}
	return nil
}

// Summary prints the final line of a count.
func (t *Text) Summary(res *irv.Result) error {
	last := len(res.Rounds)
	if res.Outcome == irv.OutcomeElected {
		_, err := fmt.Fprintf(t.w, "\n%s elected in the %s round\n", t.name(res.Winner), humanize.Ordinal(last))
		return err
	}
	_, err := fmt.Fprintf(t.w, "\nNo candidate reached a majority; count ended in the %s round\n", humanize.Ordinal(last))
	return err
}

func (t *Text) name(id int) string {
	if id < 0 || id >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// Response converts a finished count into its API representation.
func Response(electionID string, names []string, res *irv.Result) models.TallyResponse {
	name := func(id int) string {
		if id < 0 || id >= len(names) {
			return ""
		}
		return names[id]
	}

	resp := models.TallyResponse{
		ElectionID:     electionID,
		CandidateCount: len(names),
		Outcome:        string(res.Outcome),
		Winner:         name(res.Winner),
		Rounds:         make([]models.RoundResult, 0, len(res.Rounds)),
	}

	for _, r := range res.Rounds {
		resp.BallotCount = r.TotalBallots
		rr := models.RoundResult{
			Round:      r.Number,
			Candidates: make([]models.CandidateTally, len(r.Standings)),
			Exhausted:  r.Exhausted,
			TiedLosers: r.TiedLosers,
			Eliminated: name(r.Eliminated),
		}
		for i, s := range r.Standings {
			rr.Candidates[i] = models.CandidateTally{
				Name:    s.Name,
				Votes:   s.Votes,
				Percent: s.Percent,
				Elected: s.Elected,
			}
		}
		resp.Rounds = append(resp.Rounds, rr)
	}

	return resp
}

// WriteJSON writes the response as indented JSON.
func WriteJSON(w io.Writer, resp models.TallyResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
