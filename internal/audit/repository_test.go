package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/currently-core/internal/infrastructure/database"
	_ "github.com/nerrad567/currently-core/migrations"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "audit.db"), WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	for _, id := range []string{"u-1", "u-2"} {
		if _, err := db.ExecContext(context.Background(),
			`INSERT INTO users (id, email, username, password_hash) VALUES (?, ?, ?, 'h')`, id, id+"@example.com", id); err != nil {
			t.Fatalf("seeding user: %v", err)
		}
	}
	return NewSQLiteRepository(db.DB)
}

func TestCreateAndList(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	entries := []Entry{
		{UserID: "u-1", Action: "created", Resource: "rooms", ResourceID: "1", CreatedAt: base},
		{UserID: "u-1", Action: "created", Resource: "appliances", ResourceID: "7", Details: map[string]any{"name": "Fridge"}, CreatedAt: base.Add(time.Minute)},
		{UserID: "u-1", Action: "deleted", Resource: "rooms", ResourceID: "1", CreatedAt: base.Add(2 * time.Minute)},
		{UserID: "u-2", Action: "login", Resource: "session", CreatedAt: base},
	}
	for i := range entries {
		if err := repo.Create(ctx, &entries[i]); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if entries[i].ID == "" {
			t.Error("Create() did not set ID")
		}
	}

	page, err := repo.List(ctx, Filter{UserID: "u-1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 3 || len(page.Entries) != 3 || page.Limit != DefaultLimit {
		t.Fatalf("page = %+v", page)
	}
	if page.Entries[0].Action != "deleted" {
		t.Errorf("not newest first: %+v", page.Entries[0])
	}
	if page.Entries[1].Details["name"] != "Fridge" {
		t.Errorf("details = %v", page.Entries[1].Details)
	}

	tests := []struct {
		name  string
		f     Filter
		total int
		count int
	}{
		{"by resource", Filter{UserID: "u-1", Resource: "rooms"}, 2, 2},
		{"by action", Filter{UserID: "u-1", Action: "created"}, 2, 2},
		{"paged", Filter{UserID: "u-1", Limit: 1, Offset: 1}, 3, 1},
		{"other user", Filter{UserID: "u-2"}, 1, 1},
		{"nobody", Filter{UserID: "u-3"}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(ctx, tt.f)
			if err != nil {
				t.Fatal(err)
			}
			if page.Total != tt.total || len(page.Entries) != tt.count {
				t.Errorf("total = %d, count = %d", page.Total, len(page.Entries))
			}
		})
	}
}

func TestMissingUser(t *testing.T) {
	repo := testRepo(t)
	if err := repo.Create(context.Background(), &Entry{Action: "x"}); !errors.Is(err, ErrMissingUser) {
		t.Errorf("Create() error = %v", err)
	}
	if _, err := repo.List(context.Background(), Filter{}); !errors.Is(err, ErrMissingUser) {
		t.Errorf("List() error = %v", err)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{{0, DefaultLimit}, {-5, DefaultLimit}, {10, 10}, {500, MaxLimit}}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
