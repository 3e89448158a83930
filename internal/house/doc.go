// Package house builds and guards the floor → room → appliance tree shown
// on the house map.
//
// The backend stores flat rooms, each tagged with a floor label, and flat
// appliances that may reference a room. Reconciler groups them into a
// House. Layout holds the current House together with the selected and
// expanded floors, and enforces the layout rules the backend does not
// know about:
//
//   - at most MaxFloors floors
//   - the default floor can never be deleted
//   - the only floor can never be deleted
//   - a floor must be empty of rooms before it is deleted
//   - a room is deleted only after explicit confirmation
//
// Every rejection is a *ViolationError matching ErrInvariantViolation.
//
// Filter narrows the flat appliance list by room and by a text search.
//
// # Thread Safety
//
// Reconciler and Filter are stateless. Layout is not safe for concurrent
// use; callers serialise access to it.
package house
