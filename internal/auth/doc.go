// Package auth registers users, checks their passwords, and issues the
// bearer tokens the REST API expects.
//
// Passwords are hashed with Argon2id and stored in PHC string form.
// Access tokens are HS256 JWTs whose subject is the user ID; they are
// validated by signature alone, with no database lookup per request.
// There are no roles: every user sees only their own household.
package auth
