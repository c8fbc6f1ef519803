// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Command runoff counts Instant-Runoff Voting elections.

Each round credits every ballot to its highest-ranked surviving candidate.
A candidate holding more than half of all ballots cast is elected;
otherwise the candidate with the fewest votes is eliminated (ties broken
at random) and their ballots move to their next surviving preference.

# Counting a File

	runoff -i ballots.txt
	runoff -i ballots.yaml -o json -seed 42
	runoff < ballots.txt

The text format is the candidate count, one name per line, then the ranks
each voter gave the candidates in order, whitespace separated:

	3
	Alice
	Bob
	Carol
	1 2 3
	3 1 2

YAML files carry the same data as "candidates" and "ballots" lists.

# Serving Polls

	ADMIN_KEY_SALT=secret runoff -serve -d runoff.db
	runoff -serve -t postgres -d "postgres://..." -admin-salt secret

A stored poll can also be counted from the command line:

	runoff -poll <id> -d runoff.db

# Configuration

Flags win over environment variables, which win over the dotenv file
(-env, default .env):

  - BALLOT_FILE (-i): ballot file, "-" for stdin (default)
  - OUTPUT_FORMAT (-o): text or json
  - TALLY_SEED (-seed): tie-break seed, time based when unset
  - LOG_LEVEL (-v for debug)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): secret for admin key HMAC, required to serve
  - PORT (-p): server port (default: 3318)

# Architecture

  - irv: ballots, candidate registry and the round engine
  - ballotfile: text and YAML ballot input
  - report: text round reports and JSON responses
  - handlers, router, middleware: HTTP API
  - db: schema and poll loading (SQLite or PostgreSQL)
  - auth: IDs and admin keys
  - models: request/response types
  - cliparse: configuration parsing
*/
package main
