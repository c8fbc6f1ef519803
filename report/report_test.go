// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/runoff/ballotfile"
	"github.com/danielhkuo/runoff/irv"
	"github.com/danielhkuo/runoff/models"
)

func count(t *testing.T, in *ballotfile.Input, rng irv.TieBreaker, rep irv.Reporter) *irv.Result {
	t.Helper()
	e, err := in.Election()
	require.NoError(t, err)
	res, err := irv.NewEngine(e, rng).Run(rep)
	require.NoError(t, err)
	return res
}

func threeWay() *ballotfile.Input {
	return &ballotfile.Input{
		Candidates: []string{"Alice", "Bob", "Carol"},
		Ballots: [][]int{
			{1, 2, 3},
			{1, 2, 3},
			{3, 1, 2},
			{2, 3, 1},
			{2, 3, 1},
		},
	}
}

func TestTextReport(t *testing.T) {
	in := threeWay()
	var buf bytes.Buffer
	text := NewText(&buf, in.Candidates)

	res := count(t, in, &irv.SequenceTieBreaker{}, text)
	require.NoError(t, text.Summary(res))

	want := strings.Join([]string{
		"3 candidates, 5 votes",
		"",
		"Round 1 ...",
		"Alice:    2 votes, 40.0%",
		"Carol:    2 votes, 40.0%",
		"Bob  :    1 votes, 20.0%",
		"",
		"Round 2 ...",
		"Carol:    3 votes, 60.0%  *** elected",
		"Alice:    2 votes, 40.0%",
		"",
		"Carol elected in the 2nd round",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextReportAnnouncesRandomTieBreak(t *testing.T) {
	in := &ballotfile.Input{
		Candidates: []string{"A", "B"},
		Ballots:    [][]int{{1, 2}, {2, 1}},
	}
	var buf bytes.Buffer
	text := NewText(&buf, in.Candidates)

	count(t, in, &irv.SequenceTieBreaker{Choices: []int{0}}, text)

	out := buf.String()
	assert.Contains(t, out, "2 equal last candidates, outcome determined randomly\n")
	assert.Contains(t, out, "B:    2 votes, 100.0%  *** elected")
	assert.Equal(t, 1, strings.Count(out, "candidates, 2 votes"), "header only on round 1")
}

func TestTextSummaryWithoutMajority(t *testing.T) {
	in := &ballotfile.Input{Candidates: []string{"A", "B"}}
	var buf bytes.Buffer
	text := NewText(&buf, in.Candidates)

	res := count(t, in, nil, text)
	require.NoError(t, text.Summary(res))
	assert.Contains(t, buf.String(), "No candidate reached a majority; count ended in the 1st round")
}

func TestResponse(t *testing.T) {
	in := threeWay()
	res := count(t, in, &irv.SequenceTieBreaker{}, nil)

	resp := Response("election-1", in.Candidates, res)
	assert.Equal(t, "election-1", resp.ElectionID)
	assert.Equal(t, 3, resp.CandidateCount)
	assert.Equal(t, 5, resp.BallotCount)
	assert.Equal(t, models.OutcomeElected, resp.Outcome)
	assert.Equal(t, "Carol", resp.Winner)
	require.Len(t, resp.Rounds, 2)
	assert.Equal(t, "Bob", resp.Rounds[0].Eliminated)
	assert.Empty(t, resp.Rounds[1].Eliminated)
	assert.Equal(t, models.CandidateTally{Name: "Carol", Votes: 3, Percent: 60, Elected: true}, resp.Rounds[1].Candidates[0])

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, resp))

	var decoded models.TallyResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Carol", decoded.Winner)
}
