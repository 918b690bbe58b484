package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"transylvania/models"
	"transylvania/services/reservation"
)

type fakeCatalogue struct {
	rooms   []models.Room
	listErr error
}

func (f *fakeCatalogue) List(ctx context.Context) ([]models.Room, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rooms, nil
}

func (f *fakeCatalogue) Get(ctx context.Context, id int) (*models.Room, error) {
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			return &f.rooms[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogue) Amenities(id int) []string { return nil }

type fakeOracle struct {
	booked map[int]bool
	err    error
}

func (f *fakeOracle) IsAvailable(ctx context.Context, roomID int, date string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return !f.booked[roomID], nil
}

func (f *fakeOracle) AvailableRoomIDs(ctx context.Context, date string) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []int{1}, nil
}

type memDialog struct {
	mu     sync.Mutex
	states map[string]*models.DialogState
}

func newMemDialog() *memDialog { return &memDialog{states: make(map[string]*models.DialogState)} }

func (m *memDialog) Get(ctx context.Context, profileID string) (*models.DialogState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[profileID]; ok {
		cp := *s
		return &cp, nil
	}
	return &models.DialogState{}, nil
}

func (m *memDialog) Set(ctx context.Context, profileID string, state *models.DialogState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	m.states[profileID] = &cp
	return nil
}

func (m *memDialog) Clear(ctx context.Context, profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, profileID)
	return nil
}

type fakeModel struct {
	calls int
	reply string
	err   error
}

func (f *fakeModel) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeChatLogs struct {
	entries []models.ChatLog
}

func (f *fakeChatLogs) Insert(ctx context.Context, entry *models.ChatLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeChatLogs) ListRecent(ctx context.Context, limit int64) ([]models.ChatLog, error) {
	return f.entries, nil
}

func (f *fakeChatLogs) FallbackCounts(ctx context.Context) (int64, int64, error) {
	var fallbacks int64
	for _, e := range f.entries {
		if e.IsFallback {
			fallbacks++
		}
	}
	return int64(len(f.entries)), fallbacks, nil
}

type fakeBookingEngine struct {
	reserveErr error
	reserved   []int
}

func (f *fakeBookingEngine) Reserve(ctx context.Context, roomID int, profileID, checkin string, days int) (*models.Booking, *models.Room, error) {
	if f.reserveErr != nil {
		return nil, nil, f.reserveErr
	}
	f.reserved = append(f.reserved, roomID)
	return &models.Booking{RoomID: roomID, ProfileID: profileID, CheckinDate: checkin}, nil, nil
}

func (f *fakeBookingEngine) Cancel(ctx context.Context, roomID int, profileID string) error {
	return nil
}

func (f *fakeBookingEngine) ArchiveDue(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

func testRooms() []models.Room {
	return []models.Room{
		{ID: 1, Name: "Deluxe King", Capacity: 2, Status: models.RoomStatusAvailable},
		{ID: 2, Name: "Twin Workspace", Capacity: 2, Status: models.RoomStatusBooked},
		{ID: 3, Name: "Family Suite", Capacity: 4, Status: models.RoomStatusAvailable},
	}
}

func newTestEngine(model *fakeModel, oracle Oracle, booking reservation.Engine) (*Engine, *memDialog, *fakeChatLogs) {
	dialog := newMemDialog()
	logs := &fakeChatLogs{}
	e := NewEngine(&fakeCatalogue{rooms: testRooms()}, oracle, nil, dialog, model, logs, booking)
	e.Now = func() time.Time { return time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC) }
	return e, dialog, logs
}

func ask(t *testing.T, e *Engine, text string) *models.ChatReply {
	t.Helper()
	reply, err := e.HandleMessage(context.Background(), "alice", models.ChatRequest{
		Messages: []models.ChatMessage{{Role: models.ChatRoleUser, Content: text}},
	})
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", text, err)
	}
	return reply
}

func TestGreetingSkipsModel(t *testing.T) {
	model := &fakeModel{}
	e, _, _ := newTestEngine(model, &fakeOracle{}, &fakeBookingEngine{})

	reply := ask(t, e, "hello there")
	if reply.Intent != "greeting" {
		t.Errorf("intent = %q, want greeting", reply.Intent)
	}
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0", model.calls)
	}
}

func TestBookingParseWithDateAndDays(t *testing.T) {
	model := &fakeModel{}
	e, dialog, _ := newTestEngine(model, &fakeOracle{}, &fakeBookingEngine{})

	reply := ask(t, e, "book room 2 tomorrow for 2 days")
	if reply.Intent != "booking_confirm_prompt" {
		t.Fatalf("intent = %q, want booking_confirm_prompt", reply.Intent)
	}
	if reply.Pending == nil {
		t.Fatal("no pending reservation")
	}
	if reply.Pending.RoomID != 2 || reply.Pending.Checkin != "2025-11-21" || reply.Pending.Days != 2 || reply.Pending.Checkout != "2025-11-23" {
		t.Errorf("pending = %+v", reply.Pending)
	}
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0", model.calls)
	}

	state, _ := dialog.Get(context.Background(), "alice")
	if state.Pending == nil {
		t.Error("pending not persisted in dialog state")
	}
}

func TestBookingParseMissingFieldsAsksForThem(t *testing.T) {
	model := &fakeModel{}
	e, _, _ := newTestEngine(model, &fakeOracle{}, &fakeBookingEngine{})

	reply := ask(t, e, "book room 2")
	if reply.Intent != "booking_clarify" {
		t.Fatalf("intent = %q, want booking_clarify", reply.Intent)
	}
	if !strings.Contains(reply.Content, "check-in date") || !strings.Contains(reply.Content, "1-5") {
		t.Errorf("clarification doesn't name the missing fields: %q", reply.Content)
	}
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0", model.calls)
	}
}

func TestGuidedBookingFlow(t *testing.T) {
	model := &fakeModel{}
	booking := &fakeBookingEngine{}
	e, _, _ := newTestEngine(model, &fakeOracle{}, booking)

	reply, err := e.StartGuidedBooking(context.Background(), "alice", 3)
	if err != nil {
		t.Fatalf("StartGuidedBooking: %v", err)
	}
	if reply.Intent != "guided_start" {
		t.Fatalf("intent = %q, want guided_start", reply.Intent)
	}

	reply = ask(t, e, "not a date")
	if reply.Intent != "guided_date_retry" {
		t.Fatalf("intent = %q, want guided_date_retry", reply.Intent)
	}

	reply = ask(t, e, "2025-12-01")
	if reply.Intent != "guided_days" {
		t.Fatalf("intent = %q, want guided_days", reply.Intent)
	}

	reply = ask(t, e, "3")
	if reply.Intent != "booking_confirm_prompt" {
		t.Fatalf("intent = %q, want booking_confirm_prompt", reply.Intent)
	}
	if reply.Pending == nil || reply.Pending.RoomID != 3 || reply.Pending.Checkout != "2025-12-04" {
		t.Errorf("pending = %+v", reply.Pending)
	}
	if len(booking.reserved) != 0 {
		t.Error("reservation executed before explicit confirmation")
	}

	confirm, err := e.Confirm(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirm.Intent != "booking_confirmed" {
		t.Errorf("intent = %q, want booking_confirmed", confirm.Intent)
	}
	if len(booking.reserved) != 1 || booking.reserved[0] != 3 {
		t.Errorf("reserved = %v, want [3]", booking.reserved)
	}

	again, _ := e.Confirm(context.Background(), "alice")
	if again.Intent != "confirm_nothing" {
		t.Errorf("second confirm intent = %q, want confirm_nothing", again.Intent)
	}
}

func TestConfirmLostRace(t *testing.T) {
	model := &fakeModel{}
	booking := &fakeBookingEngine{reserveErr: reservation.ErrRoomUnavailable}
	e, dialog, _ := newTestEngine(model, &fakeOracle{}, booking)

	ask(t, e, "book room 1 tomorrow for 2 days")

	reply, err := e.Confirm(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if reply.Intent != "booking_unavailable" {
		t.Errorf("intent = %q, want booking_unavailable", reply.Intent)
	}
	if !strings.Contains(reply.Content, "Room 1 is not available") {
		t.Errorf("content = %q", reply.Content)
	}
	state, _ := dialog.Get(context.Background(), "alice")
	if state.Pending != nil {
		t.Error("pending not cleared after lost race")
	}
}

func TestModelFallbackCalledOnce(t *testing.T) {
	model := &fakeModel{reply: "The spa opens at 9 AM."}
	e, _, _ := newTestEngine(model, &fakeOracle{}, &fakeBookingEngine{})

	reply := ask(t, e, "do you have a spa?")
	if reply.Intent != "model" {
		t.Fatalf("intent = %q, want model", reply.Intent)
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want exactly 1", model.calls)
	}
	if reply.Content != "The spa opens at 9 AM." {
		t.Errorf("content = %q", reply.Content)
	}
}

func TestModelFailureYieldsFixedSentence(t *testing.T) {
	model := &fakeModel{err: errors.New("timeout")}
	e, _, logs := newTestEngine(model, &fakeOracle{}, &fakeBookingEngine{})

	reply := ask(t, e, "what's the meaning of life?")
	if reply.Content != FallbackSentence {
		t.Errorf("content = %q, want the fixed fallback sentence", reply.Content)
	}

	last := logs.entries[len(logs.entries)-1]
	if !last.IsFallback {
		t.Error("fallback exchange not flagged in the chat log")
	}
}

func TestAvailabilityRoomAndDate(t *testing.T) {
	model := &fakeModel{}
	oracle := &fakeOracle{booked: map[int]bool{2: true}}
	e, _, _ := newTestEngine(model, oracle, &fakeBookingEngine{})

	reply := ask(t, e, "is room 2 available on 2025-12-01")
	if reply.Intent != "availability_room_date" {
		t.Fatalf("intent = %q, want availability_room_date", reply.Intent)
	}
	if !strings.Contains(reply.Content, "NOT available") {
		t.Errorf("content = %q", reply.Content)
	}
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0", model.calls)
	}
}

func TestAvailabilityDegradesToStatus(t *testing.T) {
	model := &fakeModel{}
	oracle := &fakeOracle{err: errors.New("ledger unreachable")}
	e, _, _ := newTestEngine(model, oracle, &fakeBookingEngine{})

	reply := ask(t, e, "is room 2 available tomorrow")
	if reply.Intent != "availability_room_status_fallback" {
		t.Fatalf("intent = %q, want availability_room_status_fallback", reply.Intent)
	}
	if !reply.Degraded {
		t.Error("degraded answer not flagged")
	}
	if !strings.Contains(reply.Content, "Based on current status") || !strings.Contains(reply.Content, "booked") {
		t.Errorf("content = %q", reply.Content)
	}
}

func TestEmptyMessage(t *testing.T) {
	model := &fakeModel{}
	e, _, _ := newTestEngine(model, &fakeOracle{}, &fakeBookingEngine{})

	reply := ask(t, e, "   ")
	if reply.Content != FallbackSentence {
		t.Errorf("content = %q, want fallback sentence", reply.Content)
	}
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0", model.calls)
	}
}
