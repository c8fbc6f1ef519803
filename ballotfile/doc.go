// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballotfile reads elections from files.

# Text Format

The first line holds the number of candidates N, followed by N lines with
one candidate name each. Every following integer is a rank; each group of N
ranks is one voter's ballot, in candidate order:

	3
	Alice
	Bob
	Carol
	1 2 3
	3 1 2

# YAML Format

	candidates: [Alice, Bob, Carol]
	ballots:
	  - [1, 2, 3]
	  - [3, 1, 2]

Use Read with a Format, then Input.Election to validate and count.
*/
package ballotfile
