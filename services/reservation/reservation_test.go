package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"transylvania/models"
)

type fakeRoomRepo struct {
	mu          sync.Mutex
	rooms       map[int]*models.Room
	reserves    int
	releases    int
	failRelease bool
}

func newFakeRoomRepo(rooms ...models.Room) *fakeRoomRepo {
	m := make(map[int]*models.Room)
	for i := range rooms {
		r := rooms[i]
		m[r.ID] = &r
	}
	return &fakeRoomRepo{rooms: m}
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id int) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoomRepo) List(ctx context.Context) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Room
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoomRepo) Upsert(ctx context.Context, room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *room
	f.rooms[room.ID] = &cp
	return nil
}

func (f *fakeRoomRepo) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomRepo) ReserveIfAvailable(ctx context.Context, id int, profileID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserves++
	r, ok := f.rooms[id]
	if !ok || r.Status != models.RoomStatusAvailable {
		return 0, nil
	}
	r.Status = models.RoomStatusBooked
	r.BookedBy = &profileID
	return 1, nil
}

func (f *fakeRoomRepo) ReleaseIfHeldBy(ctx context.Context, id int, profileID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	if f.failRelease {
		return 0, errors.New("release failed")
	}
	r, ok := f.rooms[id]
	if !ok || r.BookedBy == nil || *r.BookedBy != profileID {
		return 0, nil
	}
	r.Status = models.RoomStatusAvailable
	r.BookedBy = nil
	return 1, nil
}

type fakeLedger struct {
	mu        sync.Mutex
	bookings  []models.Booking
	history   []models.HistoryBooking
	insertErr error
}

func (f *fakeLedger) Insert(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeLedger) UpdateStatus(ctx context.Context, bookingID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID {
			f.bookings[i].Status = status
		}
	}
	return nil
}

func (f *fakeLedger) FindActive(ctx context.Context, roomID int, profileID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		b := f.bookings[i]
		if b.RoomID == roomID && b.ProfileID == profileID && b.Status == models.BookingStatusBooked {
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) ListActive(ctx context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusBooked {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByProfile(ctx context.Context, profileID string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeLedger) ListDue(ctx context.Context, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusBooked && b.CheckoutDate <= date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) Archive(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == booking.ID {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			break
		}
	}
	f.history = append(f.history, models.HistoryBooking{Booking: *booking})
	return nil
}

func (f *fakeLedger) ListHistory(ctx context.Context) ([]models.HistoryBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.HistoryBooking(nil), f.history...), nil
}

func (f *fakeLedger) BookedRoomIDsOn(ctx context.Context, date string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusBooked && b.CheckinDate <= date && date < b.CheckoutDate {
			out = append(out, b.RoomID)
		}
	}
	return out, nil
}

func availableRoom(id int) models.Room {
	return models.Room{ID: id, Name: "Room", Status: models.RoomStatusAvailable}
}

func TestReserveHappyPath(t *testing.T) {
	rooms := newFakeRoomRepo(availableRoom(2))
	ledger := &fakeLedger{}
	e := &DefaultEngine{Rooms: rooms, Ledger: ledger}

	booking, room, err := e.Reserve(context.Background(), 2, "alice", "2025-12-01", 3)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if booking.CheckoutDate != "2025-12-04" {
		t.Errorf("checkout = %q, want 2025-12-04", booking.CheckoutDate)
	}
	if booking.Status != models.BookingStatusBooked {
		t.Errorf("status = %q", booking.Status)
	}
	if room == nil || room.Status != models.RoomStatusBooked {
		t.Errorf("room not marked booked: %+v", room)
	}
	if len(ledger.bookings) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(ledger.bookings))
	}
}

func TestReserveSingleWinner(t *testing.T) {
	rooms := newFakeRoomRepo(availableRoom(1))
	ledger := &fakeLedger{}
	e := &DefaultEngine{Rooms: rooms, Ledger: ledger}

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = e.Reserve(context.Background(), 1, "user", "2025-12-01", 2)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrRoomUnavailable) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("winners = %d, want exactly 1", wins)
	}
	if len(ledger.bookings) != 1 {
		t.Errorf("ledger rows = %d, want 1", len(ledger.bookings))
	}
}

func TestReserveDayBounds(t *testing.T) {
	rooms := newFakeRoomRepo(availableRoom(1))
	e := &DefaultEngine{Rooms: rooms, Ledger: &fakeLedger{}}

	for _, days := range []int{0, 6, -1} {
		_, _, err := e.Reserve(context.Background(), 1, "alice", "2025-12-01", days)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("days=%d: err = %v, want ValidationError", days, err)
		}
	}
	if rooms.reserves != 0 {
		t.Errorf("room update attempted %d times before validation", rooms.reserves)
	}
}

func TestReserveRollbackOnLedgerFailure(t *testing.T) {
	rooms := newFakeRoomRepo(availableRoom(3))
	ledger := &fakeLedger{insertErr: errors.New("mongo down")}
	e := &DefaultEngine{Rooms: rooms, Ledger: ledger}

	_, _, err := e.Reserve(context.Background(), 3, "bob", "2025-12-01", 1)
	var lErr *LedgerError
	if !errors.As(err, &lErr) {
		t.Fatalf("err = %v, want LedgerError", err)
	}
	if lErr.RollbackErr != nil {
		t.Errorf("RollbackErr = %v, want nil", lErr.RollbackErr)
	}

	room, _ := rooms.GetByID(context.Background(), 3)
	if room.Status != models.RoomStatusAvailable {
		t.Errorf("room not reverted, status = %q", room.Status)
	}
	if len(ledger.bookings) != 0 {
		t.Errorf("ledger rows = %d, want 0", len(ledger.bookings))
	}
}

func TestReserveSurfacesRollbackFailure(t *testing.T) {
	rooms := newFakeRoomRepo(availableRoom(3))
	rooms.failRelease = true
	ledger := &fakeLedger{insertErr: errors.New("mongo down")}
	e := &DefaultEngine{Rooms: rooms, Ledger: ledger}

	_, _, err := e.Reserve(context.Background(), 3, "bob", "2025-12-01", 1)
	var lErr *LedgerError
	if !errors.As(err, &lErr) {
		t.Fatalf("err = %v, want LedgerError", err)
	}
	if lErr.RollbackErr == nil {
		t.Error("RollbackErr = nil, want rollback failure surfaced")
	}
}

func TestCancelNotHolder(t *testing.T) {
	rooms := newFakeRoomRepo(availableRoom(2))
	ledger := &fakeLedger{}
	e := &DefaultEngine{Rooms: rooms, Ledger: ledger}

	if _, _, err := e.Reserve(context.Background(), 2, "alice", "2025-12-01", 2); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if err := e.Cancel(context.Background(), 2, "mallory"); !errors.Is(err, ErrNotHolder) {
		t.Errorf("Cancel by non-holder: err = %v, want ErrNotHolder", err)
	}
	room, _ := rooms.GetByID(context.Background(), 2)
	if room.Status != models.RoomStatusBooked || room.BookedBy == nil || *room.BookedBy != "alice" {
		t.Errorf("room changed by non-holder cancel: %+v", room)
	}

	if err := e.Cancel(context.Background(), 2, "alice"); err != nil {
		t.Fatalf("Cancel by holder: %v", err)
	}
	room, _ = rooms.GetByID(context.Background(), 2)
	if room.Status != models.RoomStatusAvailable {
		t.Errorf("room not released, status = %q", room.Status)
	}
	if ledger.bookings[0].Status != models.BookingStatusCancelled {
		t.Errorf("ledger status = %q, want cancelled", ledger.bookings[0].Status)
	}
}

func TestArchiveDue(t *testing.T) {
	rooms := newFakeRoomRepo(availableRoom(1), availableRoom(2))
	ledger := &fakeLedger{}
	e := &DefaultEngine{Rooms: rooms, Ledger: ledger}

	if _, _, err := e.Reserve(context.Background(), 1, "alice", "2025-01-01", 2); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, _, err := e.Reserve(context.Background(), 2, "bob", "2099-01-01", 2); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	now, _ := time.Parse("2006-01-02", "2025-06-01")
	archived, err := e.ArchiveDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ArchiveDue: %v", err)
	}
	if archived != 1 {
		t.Errorf("archived = %d, want 1", archived)
	}
	if len(ledger.history) != 1 || ledger.history[0].RoomID != 1 {
		t.Errorf("history = %+v", ledger.history)
	}
	room, _ := rooms.GetByID(context.Background(), 1)
	if room.Status != models.RoomStatusAvailable {
		t.Errorf("expired room not released, status = %q", room.Status)
	}
	room, _ = rooms.GetByID(context.Background(), 2)
	if room.Status != models.RoomStatusBooked {
		t.Errorf("future booking released early")
	}
}

func TestAddDaysRollsOver(t *testing.T) {
	cases := []struct {
		date string
		n    int
		want string
	}{
		{"2025-12-01", 3, "2025-12-04"},
		{"2025-11-30", 3, "2025-12-03"},
		{"2025-12-31", 1, "2026-01-01"},
		{"2025-02-31", 0, "2025-03-03"},
	}
	for _, c := range cases {
		got, err := AddDays(c.date, c.n)
		if err != nil {
			t.Errorf("AddDays(%q, %d): %v", c.date, c.n, err)
			continue
		}
		if got != c.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", c.date, c.n, got, c.want)
		}
	}
	if _, err := AddDays("tomorrow", 1); err == nil {
		t.Error("AddDays accepted a non-date string")
	}
}
