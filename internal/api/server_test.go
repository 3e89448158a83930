package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/currently-core/internal/audit"
	"github.com/nerrad567/currently-core/internal/auth"
	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/infrastructure/config"
	"github.com/nerrad567/currently-core/internal/infrastructure/database"
	"github.com/nerrad567/currently-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/currently-core/internal/infrastructure/logging"
	"github.com/nerrad567/currently-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/currently-core/internal/usage"
	_ "github.com/nerrad567/currently-core/migrations"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

type publishedEvent struct {
	UserID   string
	Resource mqtt.Resource
	Action   mqtt.Action
}

type fakeEvents struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakeEvents) PublishChange(userID string, resource mqtt.Resource, action mqtt.Action, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{userID, resource, action})
	return f.err
}

func (f *fakeEvents) list() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedEvent(nil), f.events...)
}

type fakeEstimates struct {
	mu     sync.Mutex
	points []influxdb.Estimate
}

func (f *fakeEstimates) WriteEstimate(e influxdb.Estimate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append(f.points, e)
}

func (f *fakeEstimates) list() []influxdb.Estimate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]influxdb.Estimate(nil), f.points...)
}

type failingCheck struct{}

func (failingCheck) HealthCheck(context.Context) error { return errors.New("down") }

type testEnv struct {
	srv       *Server
	http      *httptest.Server
	events    *fakeEvents
	estimates *fakeEstimates
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "api.db"), WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	authSvc, err := auth.NewService(auth.NewUserRepository(db.DB), testSecret, auth.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	idx := catalogue.Default()

	env := &testEnv{events: &fakeEvents{}, estimates: &fakeEstimates{}}
	env.srv, err = New(Deps{
		Config:     config.APIConfig{Host: "127.0.0.1"},
		Logger:     logging.Nop(),
		Auth:       authSvc,
		Households: household.NewSQLiteRepository(db.DB),
		Catalogue:  idx,
		Calculator: usage.NewCalculator(idx, 0.30),
		Events:     env.events,
		Estimates:  env.estimates,
		Activity:   audit.NewSQLiteRepository(db.DB),
		Checks:     map[string]HealthChecker{"database": db},
		Version:    "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	env.http = httptest.NewServer(env.srv.Handler())
	t.Cleanup(env.http.Close)
	return env
}

// do sends a request and returns the status and body.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, e.http.URL+path, rd)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.http.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func (e *testEnv) signUp(t *testing.T, email string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": email, "password": "correct-horse"})
	if status != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", status, body)
	}
	status, body = e.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": email, "password": "correct-horse"})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, body %s", status, body)
	}
	var tok auth.Token
	if err := json.Unmarshal(body, &tok); err != nil || tok.Token == "" {
		t.Fatalf("login body = %s (%v)", body, err)
	}
	return tok.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return v
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() with no deps should fail")
	}
	if _, err := New(Deps{Logger: logging.Nop()}); err == nil {
		t.Error("New() without auth should fail")
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/api/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got := decode[map[string]any](t, body); got["status"] != "ok" || got["version"] != "test" {
		t.Errorf("health = %v", got)
	}

	h := env.srv.Handler()
	fetchHealth := func() (int, map[string]any) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		return rec.Code, decode[map[string]any](t, rec.Body.Bytes())
	}

	env.srv.checks["mqtt"] = failingCheck{}
	if _, got := fetchHealth(); got["status"] != "degraded" {
		t.Errorf("status with failing mqtt = %v", got["status"])
	}

	env.srv.checks["database"] = failingCheck{}
	if code, got := fetchHealth(); code != http.StatusServiceUnavailable || got["status"] != "unhealthy" {
		t.Errorf("failing database: code = %d, status = %v", code, got["status"])
	}
}

func TestListCatalogue_NoAuth(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/api/appliances", "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	list := decode[[]catalogue.Archetype](t, body)
	if len(list) != catalogue.Default().Len() {
		t.Errorf("got %d archetypes", len(list))
	}
}

func TestUserRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, env.http.URL+"/api/users/me/rooms", nil) //nolint:errcheck // constant URL
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := env.http.Client().Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestRegisterAndLogin_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "alice@example.com")

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"duplicate email", "/api/auth/register", map[string]string{"email": "ALICE@example.com", "password": "correct-horse"}, http.StatusConflict},
		{"bad email", "/api/auth/register", map[string]string{"email": "nope", "password": "correct-horse"}, http.StatusBadRequest},
		{"short password", "/api/auth/register", map[string]string{"email": "bob@example.com", "password": "short"}, http.StatusBadRequest},
		{"wrong password", "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "wrong-horse"}, http.StatusUnauthorized},
		{"unknown user", "/api/auth/login", map[string]string{"email": "carol@example.com", "password": "correct-horse"}, http.StatusUnauthorized},
		{"missing fields", "/api/auth/login", map[string]string{}, http.StatusBadRequest},
		{"malformed body", "/api/auth/login", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, tt.path, "", tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d (body %s)", status, tt.status, body)
			}
		})
	}
}

func TestRooms_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "alice@example.com")

	status, body := env.do(t, http.MethodPost, "/api/users/me/rooms", token,
		household.RoomRequest{Name: "Kitchen", FloorLabel: "Ground Floor", Type: household.RoomKitchen})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", status, body)
	}
	kitchen := decode[household.Room](t, body)

	status, body = env.do(t, http.MethodPost, "/api/users/me/rooms", token,
		household.RoomRequest{Name: "Attic", FloorLabel: "Loft"})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", status, body)
	}
	if attic := decode[household.Room](t, body); attic.Type != household.RoomCustom {
		t.Errorf("default type = %q, want Custom", attic.Type)
	}

	status, body = env.do(t, http.MethodPut, "/api/users/me/rooms/"+itoa(kitchen.ID), token,
		household.RoomRequest{Name: "Big Kitchen"})
	if status != http.StatusOK {
		t.Fatalf("update status = %d, body %s", status, body)
	}
	updated := decode[household.Room](t, body)
	if updated.Name != "Big Kitchen" || updated.FloorLabel != "Ground Floor" || updated.Type != household.RoomKitchen {
		t.Errorf("updated = %+v", updated)
	}

	_, body = env.do(t, http.MethodGet, "/api/users/me/rooms", token, nil)
	rooms := decode[[]household.Room](t, body)
	if len(rooms) != 2 || rooms[0].FloorLabel != "Ground Floor" || rooms[1].FloorLabel != "Loft" {
		t.Errorf("rooms not ordered by floor label: %+v", rooms)
	}

	status, _ = env.do(t, http.MethodDelete, "/api/users/me/rooms/"+itoa(kitchen.ID), token, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}
	status, _ = env.do(t, http.MethodDelete, "/api/users/me/rooms/"+itoa(kitchen.ID), token, nil)
	if status != http.StatusNotFound {
		t.Errorf("second delete status = %d", status)
	}

	got := env.events.list()
	if len(got) != 4 || got[0].Resource != mqtt.ResourceRooms || got[3].Action != mqtt.ActionDeleted {
		t.Errorf("events = %+v", got)
	}
}

func TestRooms_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "alice@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"empty name", http.MethodPost, "/api/users/me/rooms", household.RoomRequest{FloorLabel: "Ground Floor"}, http.StatusBadRequest},
		{"empty floor", http.MethodPost, "/api/users/me/rooms", household.RoomRequest{Name: "Den"}, http.StatusBadRequest},
		{"bad type", http.MethodPost, "/api/users/me/rooms", household.RoomRequest{Name: "Den", FloorLabel: "Ground Floor", Type: "Dungeon"}, http.StatusBadRequest},
		{"bad id", http.MethodPut, "/api/users/me/rooms/abc", household.RoomRequest{Name: "Den"}, http.StatusBadRequest},
		{"unknown room", http.MethodPut, "/api/users/me/rooms/999", household.RoomRequest{Name: "Den"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, tt.method, tt.path, token, tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d (body %s)", status, tt.status, body)
			}
		})
	}
}

func TestAppliances_CreateDerivesFigures(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "alice@example.com")

	status, body := env.do(t, http.MethodPost, "/api/users/me/appliances", token,
		household.ApplianceRequest{ApplianceName: "fridge", HoursPerDay: household.Float(24), UsesPerDay: household.Float(3)})
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body %s", status, body)
	}
	a := decode[household.Appliance](t, body)
	if a.ApplianceName != "Fridge" || a.UsageType != catalogue.Continuous {
		t.Errorf("name/type not canonicalised: %+v", a)
	}
	if a.UsesPerDay != nil {
		t.Errorf("inactive rate stored: %v", *a.UsesPerDay)
	}
	if a.DailyKWh == nil || !approx(*a.DailyKWh, 3.6) {
		t.Errorf("dailyKWh = %v, want 3.6", a.DailyKWh)
	}
	if a.EstimatedDailyCost == nil || !approx(*a.EstimatedDailyCost, 1.08) {
		t.Errorf("estimatedDailyCost = %v, want 1.08", a.EstimatedDailyCost)
	}

	if pts := env.estimates.list(); len(pts) != 1 || pts[0].ApplianceID != a.ID || pts[0].RoomID != nil {
		t.Errorf("estimates = %+v", pts)
	}
}

func TestAppliances_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "alice@example.com")

	tests := []struct {
		name   string
		req    household.ApplianceRequest
		status int
	}{
		{"no name", household.ApplianceRequest{}, http.StatusBadRequest},
		{"unknown archetype", household.ApplianceRequest{ApplianceName: "Flux Capacitor", HoursPerDay: household.Float(1)}, http.StatusBadRequest},
		{"usage type mismatch", household.ApplianceRequest{ApplianceName: "Kettle", UsageType: catalogue.Continuous, HoursPerDay: household.Float(1)}, http.StatusBadRequest},
		{"missing rate", household.ApplianceRequest{ApplianceName: "Kettle"}, http.StatusBadRequest},
		{"zero rate", household.ApplianceRequest{ApplianceName: "Kettle", UsesPerDay: household.Float(0)}, http.StatusBadRequest},
		{"foreign room", household.ApplianceRequest{ApplianceName: "Kettle", UsesPerDay: household.Float(2), RoomID: household.ID(999)}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/users/me/appliances", token, tt.req)
			if status != tt.status {
				t.Errorf("status = %d, want %d (body %s)", status, tt.status, body)
			}
		})
	}
}

func TestAppliances_UpdateMergesAndUnassigns(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "alice@example.com")

	_, body := env.do(t, http.MethodPost, "/api/users/me/rooms", token,
		household.RoomRequest{Name: "Kitchen", FloorLabel: "Ground Floor"})
	room := decode[household.Room](t, body)

	_, body = env.do(t, http.MethodPost, "/api/users/me/appliances", token, household.ApplianceRequest{
		ApplianceName: "Kettle", CustomName: household.String("Old kettle"),
		UsesPerDay: household.Float(4), RoomID: household.ID(room.ID),
	})
	kettle := decode[household.Appliance](t, body)
	if kettle.RoomName != "Kitchen" {
		t.Errorf("RoomName = %q", kettle.RoomName)
	}

	path := "/api/users/me/appliances/" + itoa(kettle.ID)
	status, body := env.do(t, http.MethodPut, path, token, household.ApplianceRequest{
		UsesPerDay: household.Float(6), RoomID: household.ID(room.ID),
	})
	if status != http.StatusOK {
		t.Fatalf("update status = %d, body %s", status, body)
	}
	got := decode[household.Appliance](t, body)
	if got.CustomName != "Old kettle" || *got.UsesPerDay != 6 || got.RoomID == nil {
		t.Errorf("merge = %+v", got)
	}

	_, body = env.do(t, http.MethodPut, path, token, household.ApplianceRequest{})
	if got := decode[household.Appliance](t, body); got.RoomID != nil {
		t.Errorf("null roomId did not un-assign: %+v", got)
	}

	status, _ = env.do(t, http.MethodPut, path, token, household.ApplianceRequest{UsesPerDay: household.Float(-1)})
	if status != http.StatusBadRequest {
		t.Errorf("negative rate status = %d", status)
	}
}

func TestAppliances_RoomDeleteUnassigns(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "alice@example.com")

	_, body := env.do(t, http.MethodPost, "/api/users/me/rooms", token,
		household.RoomRequest{Name: "Kitchen", FloorLabel: "Ground Floor"})
	room := decode[household.Room](t, body)
	env.do(t, http.MethodPost, "/api/users/me/appliances", token, household.ApplianceRequest{
		ApplianceName: "Fridge", HoursPerDay: household.Float(24), RoomID: household.ID(room.ID),
	})

	env.do(t, http.MethodDelete, "/api/users/me/rooms/"+itoa(room.ID), token, nil)

	_, body = env.do(t, http.MethodGet, "/api/users/me/appliances", token, nil)
	list := decode[[]household.Appliance](t, body)
	if len(list) != 1 || list[0].RoomID != nil {
		t.Errorf("appliances after room delete = %+v", list)
	}
}

func TestUsers_AreIsolated(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")

	_, body := env.do(t, http.MethodPost, "/api/users/me/rooms", alice,
		household.RoomRequest{Name: "Kitchen", FloorLabel: "Ground Floor"})
	room := decode[household.Room](t, body)

	_, body = env.do(t, http.MethodGet, "/api/users/me/rooms", bob, nil)
	if rooms := decode[[]household.Room](t, body); len(rooms) != 0 {
		t.Errorf("bob sees %d rooms", len(rooms))
	}
	status, _ := env.do(t, http.MethodDelete, "/api/users/me/rooms/"+itoa(room.ID), bob, nil)
	if status != http.StatusNotFound {
		t.Errorf("bob deleting alice's room: status = %d", status)
	}
	status, _ = env.do(t, http.MethodPost, "/api/users/me/appliances", bob, household.ApplianceRequest{
		ApplianceName: "Kettle", UsesPerDay: household.Float(1), RoomID: household.ID(room.ID),
	})
	if status != http.StatusNotFound {
		t.Errorf("bob placing into alice's room: status = %d", status)
	}
}

func TestEvents_PublishFailureDoesNotFailWrite(t *testing.T) {
	env := newTestEnv(t)
	env.events.err = errors.New("broker down")
	token := env.signUp(t, "alice@example.com")

	status, _ := env.do(t, http.MethodPost, "/api/users/me/rooms", token,
		household.RoomRequest{Name: "Kitchen", FloorLabel: "Ground Floor"})
	if status != http.StatusCreated {
		t.Errorf("status = %d", status)
	}
}

func TestActivity_RecordsChangesPerUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")

	status, body := env.do(t, http.MethodPost, "/api/users/me/rooms", alice,
		map[string]string{"name": "Kitchen", "type": "Kitchen", "floorLabel": "Ground Floor"})
	if status != http.StatusCreated {
		t.Fatalf("create room status = %d, body %s", status, body)
	}
	room := decode[household.Room](t, body)
	if status, _ := env.do(t, http.MethodDelete, "/api/users/me/rooms/"+itoa(room.ID), alice, nil); status != http.StatusNoContent {
		t.Fatalf("delete room status = %d", status)
	}

	tests := []struct {
		name    string
		token   string
		query   string
		total   int
		newest  string
		wantErr int
	}{
		{name: "all of alice", token: alice, total: 4, newest: "deleted"},
		{name: "rooms only", token: alice, query: "?resource=rooms", total: 2, newest: "deleted"},
		{name: "logins", token: alice, query: "?action=login", total: 1, newest: "login"},
		{name: "bob sees only his own", token: bob, total: 2, newest: "login"},
		{name: "bad limit", token: alice, query: "?limit=x", wantErr: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodGet, "/api/users/me/activity"+tt.query, tt.token, nil)
			if tt.wantErr != 0 {
				if status != tt.wantErr {
					t.Errorf("status = %d, want %d", status, tt.wantErr)
				}
				return
			}
			if status != http.StatusOK {
				t.Fatalf("status = %d, body %s", status, body)
			}
			page := decode[audit.Page](t, body)
			if page.Total != tt.total || len(page.Entries) != tt.total {
				t.Fatalf("total = %d, entries = %d, want %d", page.Total, len(page.Entries), tt.total)
			}
			if page.Entries[0].Action != tt.newest {
				t.Errorf("newest action = %q, want %q", page.Entries[0].Action, tt.newest)
			}
		})
	}
}

func TestActivity_Disabled(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "alice@example.com")

	srv := *env.srv
	srv.activity = nil
	req := httptest.NewRequest(http.MethodGet, "/api/users/me/activity", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestMetrics_Exposed(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "alice@example.com")
	env.do(t, http.MethodPost, "/api/users/me/rooms", token,
		household.RoomRequest{Name: "Kitchen", FloorLabel: "Ground Floor"})
	env.do(t, http.MethodGet, "/api/users/me/rooms", token, nil)

	status, body := env.do(t, http.MethodGet, "/metrics", "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	text := string(body)
	for _, want := range []string{
		`currently_http_requests_total{code="200",method="GET",route="/api/users/me/rooms`,
		`currently_household_changes_total{action="created",resource="rooms"} 1`,
		`currently_logins_total{outcome="success"} 1`,
		`currently_registrations_total 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestErrors_PlainText(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusConflict, ErrCodeConflict, "already there")

	if rec.Code != http.StatusConflict {
		t.Errorf("code = %d", rec.Code)
	}
	if rec.Body.String() != "already there" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if rec.Header().Get("X-Error-Code") != ErrCodeConflict {
		t.Errorf("X-Error-Code = %q", rec.Header().Get("X-Error-Code"))
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)
	env.srv.cfg.CORS.AllowedOrigins = []string{"https://app.example.com"}
	h := env.srv.Handler()

	tests := []struct {
		origin string
		want   string
	}{
		{"https://app.example.com", "https://app.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/appliances", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: preflight code = %d", tt.origin, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("%s: allow-origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestRecovery(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/appliances", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "abc123" {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appliances", nil))
	if len(rec.Header().Get("X-Request-ID")) != requestIDBytes*2 {
		t.Errorf("generated X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
