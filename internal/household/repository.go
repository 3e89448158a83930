package household

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/currently-core/internal/catalogue"
)

// Repository defines per-user persistence for rooms and appliances.
//
// Every method is scoped by userID. Records belonging to another user are
// reported as ErrRoomNotFound or ErrApplianceNotFound, never as a
// permission error, so callers cannot discover other users' ids.
// Deleting a room leaves its appliances in place with no room.
type Repository interface {
	ListRooms(ctx context.Context, userID string) ([]Room, error)
	GetRoom(ctx context.Context, userID string, id int64) (*Room, error)
	CreateRoom(ctx context.Context, userID string, room *Room) error
	UpdateRoom(ctx context.Context, userID string, room *Room) error
	DeleteRoom(ctx context.Context, userID string, id int64) error

	ListAppliances(ctx context.Context, userID string) ([]Appliance, error)
	GetAppliance(ctx context.Context, userID string, id int64) (*Appliance, error)
	CreateAppliance(ctx context.Context, userID string, a *Appliance) error
	UpdateAppliance(ctx context.Context, userID string, a *Appliance) error
	DeleteAppliance(ctx context.Context, userID string, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
//
// Thread Safety: safe for concurrent use; it holds no state beyond the
// *sql.DB pool.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed household repository.
//
// Parameters:
//   - db: Open connection with the household migrations applied
//
// Returns:
//   - *SQLiteRepository: Repository ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ListRooms returns the user's rooms ordered by floor label then name.
func (r *SQLiteRepository) ListRooms(ctx context.Context, userID string) ([]Room, error) {
	const query = `SELECT id, name, type, floor_label, created_at
		FROM rooms WHERE user_id = ? ORDER BY floor_label, name, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	rooms := []Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning room row: %w", err)
		}
		rooms = append(rooms, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room rows: %w", err)
	}
	return rooms, nil
}

// GetRoom returns one of the user's rooms.
func (r *SQLiteRepository) GetRoom(ctx context.Context, userID string, id int64) (*Room, error) {
	const query = `SELECT id, name, type, floor_label, created_at
		FROM rooms WHERE id = ? AND user_id = ?`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	return rm, nil
}

// CreateRoom inserts a room and sets its ID.
func (r *SQLiteRepository) CreateRoom(ctx context.Context, userID string, room *Room) error {
	const query = `INSERT INTO rooms (user_id, name, type, floor_label) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, userID, room.Name, string(room.Type), room.FloorLabel)
	if err != nil {
		return fmt.Errorf("inserting room %s: %w", room.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading room id: %w", err)
	}
	room.ID = id
	room.CreatedAt = time.Now().UTC()
	return nil
}

// UpdateRoom saves name, type and floor label of an existing room.
func (r *SQLiteRepository) UpdateRoom(ctx context.Context, userID string, room *Room) error {
	const query = `UPDATE rooms SET name = ?, type = ?, floor_label = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, room.Name, string(room.Type), room.FloorLabel, room.ID, userID)
	if err != nil {
		return fmt.Errorf("updating room %d: %w", room.ID, err)
	}
	return expectOne(res, ErrRoomNotFound)
}

// DeleteRoom removes a room and un-assigns the appliances placed in it.
func (r *SQLiteRepository) DeleteRoom(ctx context.Context, userID string, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_appliances SET room_id = NULL WHERE room_id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("un-assigning appliances from room %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting room %d: %w", id, err)
	}
	if err := expectOne(res, ErrRoomNotFound); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing room delete: %w", err)
	}
	return nil
}

const applianceColumns = `a.id, a.appliance_name, a.custom_name, a.usage_type,
	a.hours_per_day, a.uses_per_day, a.room_id, COALESCE(r.name, ''), a.created_at`

// ListAppliances returns the user's appliances in creation order.
func (r *SQLiteRepository) ListAppliances(ctx context.Context, userID string) ([]Appliance, error) {
	query := `SELECT ` + applianceColumns + `
		FROM user_appliances a LEFT JOIN rooms r ON r.id = a.room_id
		WHERE a.user_id = ? ORDER BY a.created_at, a.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying appliances: %w", err)
	}
	defer rows.Close()

	out := []Appliance{}
	for rows.Next() {
		a, err := scanAppliance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appliance row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appliance rows: %w", err)
	}
	return out, nil
}

// GetAppliance returns one of the user's appliances.
func (r *SQLiteRepository) GetAppliance(ctx context.Context, userID string, id int64) (*Appliance, error) {
	query := `SELECT ` + applianceColumns + `
		FROM user_appliances a LEFT JOIN rooms r ON r.id = a.room_id
		WHERE a.id = ? AND a.user_id = ?`
	a, err := scanAppliance(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplianceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning appliance: %w", err)
	}
	return a, nil
}

// CreateAppliance inserts an appliance and sets its ID.
// A RoomID that is not one of the user's rooms is rejected with ErrRoomNotFound.
func (r *SQLiteRepository) CreateAppliance(ctx context.Context, userID string, a *Appliance) error {
	if err := r.checkRoom(ctx, userID, a.RoomID); err != nil {
		return err
	}
	const query = `INSERT INTO user_appliances
		(user_id, appliance_name, custom_name, usage_type, hours_per_day, uses_per_day, room_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, userID, a.ApplianceName, nullStr(a.CustomName),
		string(a.UsageType), nullFloat(a.HoursPerDay), nullFloat(a.UsesPerDay), nullID(a.RoomID))
	if err != nil {
		return fmt.Errorf("inserting appliance %s: %w", a.ApplianceName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading appliance id: %w", err)
	}
	a.ID = id
	a.CreatedAt = time.Now().UTC()
	return nil
}

// UpdateAppliance saves the mutable fields of an appliance: custom name,
// rates and room.
func (r *SQLiteRepository) UpdateAppliance(ctx context.Context, userID string, a *Appliance) error {
	if err := r.checkRoom(ctx, userID, a.RoomID); err != nil {
		return err
	}
	const query = `UPDATE user_appliances SET custom_name = ?, hours_per_day = ?, uses_per_day = ?,
		room_id = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, nullStr(a.CustomName), nullFloat(a.HoursPerDay),
		nullFloat(a.UsesPerDay), nullID(a.RoomID), a.ID, userID)
	if err != nil {
		return fmt.Errorf("updating appliance %d: %w", a.ID, err)
	}
	return expectOne(res, ErrApplianceNotFound)
}

// DeleteAppliance removes one of the user's appliances.
func (r *SQLiteRepository) DeleteAppliance(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_appliances WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting appliance %d: %w", id, err)
	}
	return expectOne(res, ErrApplianceNotFound)
}

func (r *SQLiteRepository) checkRoom(ctx context.Context, userID string, roomID *int64) error {
	if roomID == nil {
		return nil
	}
	_, err := r.GetRoom(ctx, userID, *roomID)
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(s scanner) (*Room, error) {
	var rm Room
	var roomType, createdAt string
	if err := s.Scan(&rm.ID, &rm.Name, &roomType, &rm.FloorLabel, &createdAt); err != nil {
		return nil, err
	}
	rm.Type = RoomType(roomType)
	rm.CreatedAt = parseTime(createdAt)
	return &rm, nil
}

func scanAppliance(s scanner) (*Appliance, error) {
	var a Appliance
	var customName sql.NullString
	var usageType, createdAt string
	var hours, uses sql.NullFloat64
	var roomID sql.NullInt64

	err := s.Scan(&a.ID, &a.ApplianceName, &customName, &usageType,
		&hours, &uses, &roomID, &a.RoomName, &createdAt)
	if err != nil {
		return nil, err
	}
	a.CustomName = customName.String
	a.UsageType = catalogue.UsageType(usageType)
	if hours.Valid {
		a.HoursPerDay = Float(hours.Float64)
	}
	if uses.Valid {
		a.UsesPerDay = Float(uses.Float64)
	}
	if roomID.Valid {
		a.RoomID = ID(roomID.Int64)
	}
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullID(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
