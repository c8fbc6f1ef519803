// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the ballot store, creates its schema, and loads polls as
election input.

# Connecting

Open accepts "sqlite" (modernc.org/sqlite, pure Go) or "postgres"
(github.com/lib/pq):

	conn, err := db.Open(db.TypeSQLite, "runoff.db")

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: Poll metadata and lifecycle state (open → closed)
  - candidate: Candidates per poll, ordered by position
  - ballot: One row per submitted ballot
  - ranking: The preference a ballot gives each candidate

# Relationships

	poll 1──* candidate
	poll 1──* ballot
	ballot 1──* ranking *──1 candidate

All foreign keys use ON DELETE CASCADE. Tally results are computed on
demand and never stored.

# Loading

	input, err := db.LoadPoll(ctx, conn, pollID)
	election, err := input.Election()
*/
package db
