package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/house"
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/infrastructure/logging"
	"github.com/nerrad567/currently-core/internal/usage"
)

// API is the subset of the REST client a Session needs.
type API interface {
	ListCatalogue(ctx context.Context) ([]catalogue.Archetype, error)
	ListRooms(ctx context.Context) ([]household.Room, error)
	CreateRoom(ctx context.Context, req household.RoomRequest) (household.Room, error)
	UpdateRoom(ctx context.Context, id int64, req household.RoomRequest) (household.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	ListAppliances(ctx context.Context) ([]household.Appliance, error)
	CreateAppliance(ctx context.Context, req household.ApplianceRequest) (household.Appliance, error)
	UpdateAppliance(ctx context.Context, id int64, req household.ApplianceRequest) (household.Appliance, error)
	DeleteAppliance(ctx context.Context, id int64) error
}

// Options configures a Session.
type Options struct {
	// HouseName labels the house. Empty means house.DefaultHouseName.
	HouseName string

	// Tariff is the price per kWh. Zero means usage.DefaultTariff.
	Tariff float64

	Logger *logging.Logger
}

// Session holds one user's house map: the settled snapshot of rooms and
// appliances, the reconciled House, and floor selection and expansion.
//
// Mutations go to the backend first and touch the snapshot only once the
// backend has accepted them. A rejected call, or one blocked by a layout
// rule, leaves the snapshot exactly as it was.
//
// Thread Safety: safe for concurrent use. Remote operations run one at a
// time; reads never observe a half-applied change and return copies.
type Session struct {
	api  API
	opts Options
	log  *logging.Logger

	// opMu serialises remote operations; mu guards the snapshot.
	opMu sync.Mutex
	mu   sync.RWMutex

	catalogue  *catalogue.Index
	calc       *usage.Calculator
	layout     *house.Layout
	rooms      []household.Room
	appliances []household.Appliance
}

// New returns a Session showing the empty house until Load is called.
//
// Parameters:
//   - api: Backend the session reads from and writes to
//   - opts: House name, tariff and logger; zero values use defaults
//
// Returns:
//   - *Session: Session holding the empty house template
func New(api API, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	calc := usage.NewCalculator(nil, opts.Tariff)
	return &Session{
		api:    api,
		opts:   opts,
		log:    log.With("component", "session"),
		calc:   calc,
		layout: house.NewLayout(house.NewReconciler(calc, opts.HouseName)),
	}
}

// Load fetches rooms and appliances, and the catalogue on first use,
// concurrently. If any fetch fails the snapshot is left untouched and the
// first error is returned.
func (s *Session) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	idx := s.catalogue
	s.mu.RUnlock()

	var (
		archetypes []catalogue.Archetype
		rooms      []household.Room
		appliances []household.Appliance
	)
	g, gctx := errgroup.WithContext(ctx)
	if idx == nil {
		g.Go(func() error {
			var err error
			archetypes, err = s.api.ListCatalogue(gctx)
			return err
		})
	}
	g.Go(func() error {
		var err error
		rooms, err = s.api.ListRooms(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		appliances, err = s.api.ListAppliances(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading house: %w", err)
	}

	if idx == nil {
		idx = catalogue.New(archetypes)
	}
	calc := usage.NewCalculator(idx, s.opts.Tariff)
	rec := house.NewReconciler(calc, s.opts.HouseName)
	h := rec.Reconcile(rooms, appliances)

	s.mu.Lock()
	defer s.mu.Unlock()
	selected := s.layout.Selected()
	layout := house.NewLayout(rec)
	layout.Reset(h)
	if h.FindFloor(selected) >= 0 {
		layout.SelectFloor(selected) //nolint:errcheck // floor exists
	}
	s.catalogue = idx
	s.calc = calc
	s.layout = layout
	s.rooms = rooms
	s.appliances = appliances

	s.log.Debug("house loaded",
		"rooms", len(rooms),
		"appliances", len(appliances),
		"floors", len(h.Floors),
	)
	return nil
}

// House returns a copy of the current house.
func (s *Session) House() house.House {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout.House()
}

// Catalogue returns the loaded catalogue, or nil before the first Load.
func (s *Session) Catalogue() *catalogue.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogue
}

// Appliances returns every appliance with estimates filled in.
func (s *Session) Appliances() []household.Appliance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]household.Appliance, len(s.appliances))
	for i, a := range s.appliances {
		out[i] = s.calc.Derive(a)
	}
	return out
}

// Visible returns the appliances passing f, with estimates filled in.
func (s *Session) Visible(f house.Filter) []household.Appliance {
	return f.Apply(s.Appliances())
}

// Totals returns the estimate for every appliance, placed or not.
func (s *Session) Totals() usage.Estimate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calc.Sum(s.appliances)
}

// Selected returns the selected floor ID.
func (s *Session) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout.Selected()
}

// IsExpanded reports whether a floor is expanded.
func (s *Session) IsExpanded(floorID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout.IsExpanded(floorID)
}

// SelectFloor selects a floor.
func (s *Session) SelectFloor(floorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.SelectFloor(floorID)
}

// ToggleFloor flips a floor's expansion and returns the new state.
func (s *Session) ToggleFloor(floorID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.ToggleFloor(floorID)
}

// AddFloor adds an empty floor and selects it. It is not persisted until
// a room is created on it.
func (s *Session) AddFloor() (house.Floor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.AddFloor()
}

// DeleteFloor removes an empty floor.
func (s *Session) DeleteFloor(floorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.DeleteFloor(floorID)
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
