// Package session drives a user's house map against the REST API.
//
// A Session owns the single settled snapshot of catalogue, rooms,
// appliances and layout. Load fetches everything and reconciles it
// wholesale. Mutations go to the backend first; the snapshot changes only
// after the backend confirms, so a failure leaves it exactly as it was.
// Floor operations are local because floors are not persisted on their
// own.
//
// # Thread Safety
//
// Reads are safe from any goroutine and never observe a half-applied
// mutation. Mutations are serialised: at most one request is in flight.
package session
