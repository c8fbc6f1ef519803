// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballotfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/runoff/irv"
)

// ErrMalformed is returned when the input cannot be read as an election.
var ErrMalformed = errors.New("malformed ballot file")

// Format selects how ballots are encoded.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// Input is a parsed election: candidate names and, per voter, the rank
// given to each candidate in candidate order.
type Input struct {
	Candidates []string `yaml:"candidates" json:"candidates"`
	Ballots    [][]int  `yaml:"ballots" json:"ballots"`
}

// Election validates the input and returns it ready to count.
func (in *Input) Election() (*irv.Election, error) {
	ballots := make([][]irv.Preference, len(in.Ballots))
	for i, ranks := range in.Ballots {
		ballots[i] = irv.RanksToPreferences(ranks)
	}
	return irv.LoadElection(in.Candidates, ballots)
}

// ParseFormat accepts "text", "yaml" or "yml". An empty string means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown input format %q", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatText
}

// Read parses r in the given format.
func Read(r io.Reader, format Format) (*Input, error) {
	switch format {
	case FormatText, "":
		return readText(r)
	case FormatYAML:
		return readYAML(r)
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

// readText parses the plain format: the candidate count, one name per line,
// then whitespace-separated ranks, one group of N per voter. Ranks may be laid
// out in any way, including all on one line.
func readText(r io.Reader) (*Input, error) {
	br := bufio.NewReader(r)
	line := 0

	var header string
	for header == "" {
		s, ok, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: missing candidate count", ErrMalformed)
		}
		line++
		header = strings.TrimSpace(s)
	}
	n, err := strconv.Atoi(header)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: candidate count %q is not a number", ErrMalformed, line, header)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: line %d: candidate count must be positive, got %d", ErrMalformed, line, n)
	}

	in := &Input{Candidates: make([]string, 0, n)}
	for len(in.Candidates) < n {
		s, ok, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: expected %d candidate names, got %d", ErrMalformed, n, len(in.Candidates))
		}
		line++
		name := strings.TrimSpace(s)
		if name == "" {
			return nil, fmt.Errorf("%w: line %d: empty candidate name", ErrMalformed, line)
		}
		in.Candidates = append(in.Candidates, name)
	}

	sc := bufio.NewScanner(br)
	sc.Split(bufio.ScanWords)
	ranks := make([]int, 0, n)
	for sc.Scan() {
		rank, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: ballot %d: rank %q is not a number", ErrMalformed, len(in.Ballots)+1, sc.Text())
		}
		ranks = append(ranks, rank)
		if len(ranks) == n {
			in.Ballots = append(in.Ballots, ranks)
			ranks = make([]int, 0, n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(ranks) != 0 {
		return nil, fmt.Errorf("%w: last ballot has %d of %d ranks", ErrMalformed, len(ranks), n)
	}

	return in, nil
}

// readLine returns the next line without a length limit. ok is false at the
// end of input.
func readLine(br *bufio.Reader) (s string, ok bool, err error) {
	s, err = br.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return s, s != "", nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, true, nil
}

func readYAML(r io.Reader) (*Input, error) {
	var in Input
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(in.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates listed", ErrMalformed)
	}
	return &in, nil
}
