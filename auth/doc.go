// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth generates record IDs and poll admin keys.

Admin keys are HMAC-SHA256 of the poll ID, URL-safe base64 without padding:

	key := auth.AdminKey(pollID, salt)
	err := auth.CheckAdminKey(pollID, key, salt)

Keys are derived, not stored, so rotating the salt invalidates every key.
*/
package auth
