package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/household"
)

func TestAuthMissing_NoNetworkCall(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken(""))
	calls := map[string]func() error{
		"ListRooms": func() error { _, err := c.ListRooms(context.Background()); return err },
		"CreateRoom": func() error {
			_, err := c.CreateRoom(context.Background(), household.RoomRequest{Name: "x"})
			return err
		},
		"DeleteRoom":     func() error { return c.DeleteRoom(context.Background(), 1) },
		"ListAppliances": func() error { _, err := c.ListAppliances(context.Background()); return err },
		"UpdateAppliance": func() error {
			_, err := c.UpdateAppliance(context.Background(), 1, household.ApplianceRequest{})
			return err
		},
	}
	for name, call := range calls {
		err := call()
		if !errors.Is(err, ErrAuthMissing) {
			t.Errorf("%s error = %v, want ErrAuthMissing", name, err)
		}
		var ce *Error
		if !errors.As(err, &ce) || ce.Kind != KindAuthMissing {
			t.Errorf("%s error kind wrong: %#v", name, err)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("server received %d requests, want 0", hits.Load())
	}
}

func TestListCatalogue_NoTokenNeeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/appliances" || r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected request %s auth=%q", r.URL.Path, r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode([]catalogue.Archetype{ //nolint:errcheck // test server
			{Name: "Fridge", UsageType: catalogue.Continuous, AverageWatts: 150, DefaultHoursPerDay: 24},
		})
	}))
	defer srv.Close()

	got, err := New(srv.URL, nil).ListCatalogue(context.Background())
	if err != nil {
		t.Fatalf("ListCatalogue() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Fridge" || got[0].UsageType != catalogue.Continuous {
		t.Errorf("ListCatalogue() = %+v", got)
	}
}

func TestRemoteRejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"body text surfaced", http.StatusBadRequest, "Room name is required\n", "Room name is required"},
		{"empty body", http.StatusInternalServerError, "", "request failed with status 500"},
		{"whitespace body", http.StatusForbidden, "  \n", "request failed with status 403"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) //nolint:errcheck // test server
			}))
			defer srv.Close()

			_, err := New(srv.URL, StaticToken("tok")).ListRooms(context.Background())
			if !errors.Is(err, ErrRemoteRejected) {
				t.Fatalf("error = %v, want ErrRemoteRejected", err)
			}
			var ce *Error
			if !errors.As(err, &ce) {
				t.Fatal("error is not *Error")
			}
			if ce.Status != tt.status || ce.Message != tt.message {
				t.Errorf("Status=%d Message=%q, want %d %q", ce.Status, ce.Message, tt.status, tt.message)
			}
			if UserMessage(err) != tt.message {
				t.Errorf("UserMessage() = %q", UserMessage(err))
			}
		})
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("<html>proxy error</html>")) //nolint:errcheck // test server
	}))
	defer srv.Close()

	_, err := New(srv.URL, StaticToken("tok")).ListRooms(context.Background())
	if !errors.Is(err, ErrRemoteRejected) {
		t.Fatalf("error = %v, want ErrRemoteRejected", err)
	}
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatal("error is not *Error")
	}
	if ce.Status != http.StatusOK || ce.Err == nil {
		t.Errorf("Status=%d Err=%v, want 200 with the decode error", ce.Status, ce.Err)
	}
	if got := UserMessage(err); got != msgMalformedResponse {
		t.Errorf("UserMessage() = %q, want %q", got, msgMalformedResponse)
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, StaticToken("tok")).ListAppliances(context.Background())
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("error = %v, want ErrNetworkFailure", err)
	}
	if errors.Is(err, ErrRemoteRejected) || errors.Is(err, ErrAuthMissing) {
		t.Error("network failure matched another kind")
	}
	var ce *Error
	if !errors.As(err, &ce) || ce.Err == nil {
		t.Error("transport error not preserved")
	}
}

func TestRoomRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/users/me/rooms":
			var req household.RoomRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode: %v", err)
			}
			json.NewEncoder(w).Encode(household.Room{ID: 4, Name: req.Name, Type: req.Type, FloorLabel: req.FloorLabel}) //nolint:errcheck // test server
		case r.Method == http.MethodPut && r.URL.Path == "/api/users/me/rooms/4":
			json.NewEncoder(w).Encode(household.Room{ID: 4, Name: "Den", Type: household.RoomOffice, FloorLabel: "Floor 2"}) //nolint:errcheck // test server
		case r.Method == http.MethodDelete && r.URL.Path == "/api/users/me/rooms/4":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	ctx := context.Background()

	created, err := c.CreateRoom(ctx, household.RoomRequest{Name: "Study", Type: household.RoomOffice, FloorLabel: "Floor 2"})
	if err != nil || created.ID != 4 || created.Name != "Study" {
		t.Fatalf("CreateRoom() = %+v, %v", created, err)
	}
	updated, err := c.UpdateRoom(ctx, 4, household.RoomRequest{Name: "Den"})
	if err != nil || updated.Name != "Den" {
		t.Fatalf("UpdateRoom() = %+v, %v", updated, err)
	}
	if err := c.DeleteRoom(ctx, 4); err != nil {
		t.Fatalf("DeleteRoom() error = %v", err)
	}
}

func TestApplianceDecodesNullableFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id":1,"applianceName":"Kettle","usageType":"perUse","hoursPerDay":null,"usesPerDay":3,"roomId":null},
			{"id":2,"applianceName":"Fridge","usageType":"continuous","hoursPerDay":24,"usesPerDay":null,"roomId":7,"roomName":"Kitchen","dailyKWh":3.6,"estimatedDailyCost":1.08}]`)) //nolint:errcheck // test server
	}))
	defer srv.Close()

	got, err := New(srv.URL, StaticToken("tok")).ListAppliances(context.Background())
	if err != nil {
		t.Fatalf("ListAppliances() error = %v", err)
	}
	if got[0].RoomID != nil || got[0].HoursPerDay != nil || *got[0].UsesPerDay != 3 || got[0].DailyKWh != nil {
		t.Errorf("kettle = %+v", got[0])
	}
	if *got[1].RoomID != 7 || *got[1].DailyKWh != 3.6 || got[1].RoomName != "Kitchen" {
		t.Errorf("fridge = %+v", got[1])
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		json.NewDecoder(r.Body).Decode(&creds) //nolint:errcheck // test server
		if creds.Email != "a@example.com" || creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid email or password")) //nolint:errcheck // test server
			return
		}
		json.NewEncoder(w).Encode(Session{Token: "abc"}) //nolint:errcheck // test server
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	s, err := c.Login(context.Background(), Credentials{Email: "a@example.com", Password: "secret"})
	if err != nil || s.Token != "abc" {
		t.Fatalf("Login() = %+v, %v", s, err)
	}
	_, err = c.Login(context.Background(), Credentials{Email: "a@example.com", Password: "wrong"})
	if UserMessage(err) != "Invalid email or password" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}

func TestFileToken(t *testing.T) {
	ft := FileToken{Path: filepath.Join(t.TempDir(), "currently", "token")}

	tok, err := ft.Token()
	if err != nil || tok != "" {
		t.Fatalf("Token() before save = %q, %v", tok, err)
	}
	if err := ft.Save("abc"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if tok, _ := ft.Token(); tok != "abc" {
		t.Errorf("Token() = %q, want abc", tok)
	}
	if err := ft.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := ft.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
	if tok, _ := ft.Token(); tok != "" {
		t.Errorf("Token() after clear = %q", tok)
	}
}

func TestUserMessage_AuthMissing(t *testing.T) {
	_, err := New("http://unused", nil).ListRooms(context.Background())
	if got := UserMessage(err); got != "No authentication token found. Please log in again." {
		t.Errorf("UserMessage() = %q", got)
	}
}
