// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity primitives for the Gatherly API.

# Session Tokens

Sessions are stateless HS256 JWTs carrying the user ID, email and role:

	token, err := auth.MintToken(secret, user)
	claims, err := auth.ParseToken(secret, token)

Tokens expire after TokenTTL (24h). Parsing rejects any other signing
method and allows 30 seconds of clock leeway.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

CheckPassword returns ErrInvalidCredentials on mismatch so callers don't
leak whether the email or the password was wrong.

# Identifiers

NewID returns a UUIDv4 for database rows. GenerateID returns a short random
hex string, used for unique stored file names.
*/
package auth
