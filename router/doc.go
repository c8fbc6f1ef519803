// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the runoff API.

	mux := router.NewRouter(db, cfg)

# Endpoints

	GET  /health             - Liveness check
	POST /polls              - Create an open poll with its candidates
	GET  /polls/{id}         - Poll, candidates and ballot count
	POST /polls/{id}/ballots - Submit a ranked ballot
	POST /polls/{id}/close   - Stop voting (requires X-Admin-Key)
	GET  /polls/{id}/tally   - Count a closed poll (?seed=N for reproducible ties)
	POST /tallies            - Count an election given in the request body

Every route except /health and / is wrapped in middleware.WithLogging.
*/
package router
