// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

Counting:

	-i             Ballot file, "-" for stdin (default)
	-input-format  text or yaml (default: from the file extension)
	-o             Output format: text or json
	-seed          Tie-break seed (default: time based)
	-poll          Count a stored poll instead of a file

Service:

	-serve         Run the HTTP API
	-p             Server port (default: 3318)
	-d             Database URL
	-t             Database type: sqlite (default) or postgres
	--admin-salt   Admin key salt

General:

	-env           Dotenv file (default: .env, ignored if missing)
	-v             Debug logging

# Environment Variables

Flags fall back to environment variables, which may come from the dotenv
file. Variables already set in the environment win over the file.

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_KEY_SALT → --admin-salt
	TALLY_SEED     → -seed
	BALLOT_FILE    → -i
	OUTPUT_FORMAT  → -o
	LOG_LEVEL      → -v (debug, info, warn, error)

# Validation

  - -serve and -poll need a database URL
  - -serve needs ADMIN_KEY_SALT
  - -serve and -poll cannot be combined
*/
package cliparse
