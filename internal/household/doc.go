// Package household holds the flat records a user keeps about their home:
// rooms and the appliances placed in them.
//
// These are the shapes exchanged with the REST API and stored by the
// backend. A Room links to its floor only through FloorLabel; there is no
// persisted floor entity. An Appliance references a catalogue archetype by
// name and, optionally, a room by id.
//
// The package also defines the room-type vocabulary with its display
// styles, the validation rules shared by client and server, and a SQLite
// repository scoped per user.
package household
