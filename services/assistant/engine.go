package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	chatlogRepo "transylvania/database/repository/chatlog"
	"transylvania/models"
	"transylvania/services/reservation"
	"transylvania/utils"

	"go.uber.org/zap"
)

// Engine classifies user utterances into structured replies without invoking
// the remote model, falling back to it only when no local rule applies. It
// also carries the multi-turn slot-filling dialogue for guided booking.
type Engine struct {
	Rooms   RoomCatalogue
	Oracle  Oracle
	FAQ     *FAQTable
	Dialog  DialogStore
	Model   ModelClient
	Logs    chatlogRepo.ChatLogRepository
	Booking reservation.Engine
	Now     func() time.Time
}

// NewEngine wires the assistant with a real clock.
func NewEngine(rooms RoomCatalogue, oracle Oracle, faq *FAQTable, dialog DialogStore, model ModelClient, logs chatlogRepo.ChatLogRepository, booking reservation.Engine) *Engine {
	return &Engine{
		Rooms:   rooms,
		Oracle:  oracle,
		FAQ:     faq,
		Dialog:  dialog,
		Model:   model,
		Logs:    logs,
		Booking: booking,
		Now:     time.Now,
	}
}

var (
	greetingRe    = regexp.MustCompile(`^(hi|hello|hey|yo|good\s*(morning|afternoon|evening)|greetings|sup|what'?s up|whats up|hola)\b`)
	roomAvailRe   = regexp.MustCompile(`room\s+(\d+)\s+(available|free)\s+(on|at|for)\s+`)
	isRoomAvailRe = regexp.MustCompile(`is\s+room\s+(\d+)\s+(available|free)`)
	bookingHelpRe = regexp.MustCompile(`how\s+do\s+i\s+book|book\s+a\s+room|booking\s+room`)
	loginHelpRe   = regexp.MustCompile(`how\s+do\s+i\s+log\s*in|login|log\s+in|sign\s*up|create\s+account`)
	cancelHelpRe  = regexp.MustCompile(`how\s+do\s+i\s+cancel|cancel\s+booking|cancel\s+my\s+room`)
	policyRe      = regexp.MustCompile(`why\s+can.?t\s+i\s+cancel|cannot\s+cancel\s+someone|other\s+customer\s+cancel`)
	daysLimitRe   = regexp.MustCompile(`how\s+many\s+days|days\s+limit|book\s+for\s+6|more\s+than\s+5`)
	availGenRe    = regexp.MustCompile(`what\s+rooms\s+are\s+available|available\s+rooms|which\s+rooms\s+are\s+free`)
	roomsListRe   = regexp.MustCompile(`what\s+rooms(\s+do\s+you\s+have)?|list\s+rooms|show\s+rooms|amenities|what'?s\s+included|whats\s+included`)
	bookRoomRe    = regexp.MustCompile(`book\s+room\s+(\d+)`)
)

// HandleMessage evaluates the newest user message. The returned reply is
// always user-presentable; remote failures are converted to degraded answers
// or the fixed fallback sentence, never surfaced raw.
func (e *Engine) HandleMessage(ctx context.Context, profileID string, req models.ChatRequest) (*models.ChatReply, error) {
	logger := utils.GetLogger()

	text := lastUserMessage(req.Messages)
	if strings.TrimSpace(text) == "" {
		return &models.ChatReply{Content: FallbackSentence, Intent: "empty"}, nil
	}

	state, err := e.Dialog.Get(ctx, profileID)
	if err != nil {
		logger.Warn("failed to load dialog state, treating as idle", zap.Error(err))
		state = &models.DialogState{}
	}

	if state.Step != "" {
		return e.handleSlotFilling(ctx, profileID, text, state)
	}
	return e.handleIdle(ctx, profileID, text, req.Messages, state)
}

// handleSlotFilling advances the guided booking dialogue one field per
// message, re-prompting on parse failure.
func (e *Engine) handleSlotFilling(ctx context.Context, profileID, text string, state *models.DialogState) (*models.ChatReply, error) {
	switch state.Step {
	case models.DialogStepDate:
		date, ok := ParseDateToken(text, e.Now())
		if !ok {
			reply := &models.ChatReply{
				Content: "I didn't catch a date. Please send a check-in date: today, tomorrow, or YYYY-MM-DD.",
				Intent:  "guided_date_retry",
			}
			e.logChat(ctx, profileID, text, reply.Content, false, reply.Intent)
			return reply, nil
		}
		state.Checkin = date
		state.Step = models.DialogStepDays
		if err := e.Dialog.Set(ctx, profileID, state); err != nil {
			return nil, fmt.Errorf("save dialog state: %w", err)
		}
		reply := &models.ChatReply{
			Content: fmt.Sprintf("Check-in %s. How many days will you stay (1-5)?", date),
			Intent:  "guided_days",
		}
		e.logChat(ctx, profileID, text, reply.Content, false, reply.Intent)
		return reply, nil

	case models.DialogStepDays:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			reply := &models.ChatReply{
				Content: "Please send a number of days between 1 and 5.",
				Intent:  "guided_days_retry",
			}
			e.logChat(ctx, profileID, text, reply.Content, false, reply.Intent)
			return reply, nil
		}
		days := clampDays(n)
		checkout, err := reservation.AddDays(state.Checkin, days)
		if err != nil {
			// The stored check-in went bad; restart the date step.
			state.Step = models.DialogStepDate
			state.Checkin = ""
			_ = e.Dialog.Set(ctx, profileID, state)
			return &models.ChatReply{
				Content: "Something was off with that check-in date. Please send it again: today, tomorrow, or YYYY-MM-DD.",
				Intent:  "guided_date_retry",
			}, nil
		}
		pending := &models.PendingReservation{
			RoomID:   state.RoomID,
			Checkin:  state.Checkin,
			Days:     days,
			Checkout: checkout,
		}
		next := &models.DialogState{Pending: pending}
		if err := e.Dialog.Set(ctx, profileID, next); err != nil {
			return nil, fmt.Errorf("save dialog state: %w", err)
		}
		reply := e.confirmationPrompt(pending)
		e.logChat(ctx, profileID, text, reply.Content, false, reply.Intent)
		return reply, nil
	}

	// Unknown step: drop the state and retry as idle.
	_ = e.Dialog.Clear(ctx, profileID)
	return e.handleIdle(ctx, profileID, text, []models.ChatMessage{{Role: models.ChatRoleUser, Content: text}}, &models.DialogState{})
}

// handleIdle runs the ordered rule ladder; a pending reservation, if any,
// persists untouched while other questions are answered.
func (e *Engine) handleIdle(ctx context.Context, profileID, text string, transcript []models.ChatMessage, state *models.DialogState) (*models.ChatReply, error) {
	q := strings.ToLower(strings.TrimSpace(text))

	// 1) Greeting.
	if greetingRe.MatchString(q) {
		reply := &models.ChatReply{
			Content: "Hello! I'm Drac. How can I help with bookings or availability today?",
			Intent:  "greeting",
			Pending: state.Pending,
		}
		e.logChat(ctx, profileID, text, reply.Content, false, reply.Intent)
		return reply, nil
	}

	// 2) Availability questions (dynamic, date-ranged).
	if reply := e.tryAvailability(ctx, profileID, q); reply != nil {
		reply.Pending = state.Pending
		return reply, nil
	}

	// 3) Externally loaded FAQ table.
	if e.FAQ != nil {
		if intent, ok := e.FAQ.Match(q); ok {
			reply := &models.ChatReply{Content: intent.Answer, Intent: intent.ID, Pending: state.Pending}
			e.logChat(ctx, profileID, text, reply.Content, false, reply.Intent)
			return reply, nil
		}
	}

	// 4) Fixed intents.
	if reply := e.tryFixedIntents(ctx, profileID, q); reply != nil {
		reply.Pending = state.Pending
		return reply, nil
	}

	// 5) Booking-intent detection.
	if m := bookRoomRe.FindStringSubmatch(q); m != nil {
		roomID, _ := strconv.Atoi(m[1])
		date, hasDate := ParseDateToken(q, e.Now())
		days, hasDays := ParseDayCount(q)
		if hasDate && hasDays {
			checkout, err := reservation.AddDays(date, days)
			if err != nil {
				return nil, fmt.Errorf("derive checkout: %w", err)
			}
			pending := &models.PendingReservation{RoomID: roomID, Checkin: date, Days: days, Checkout: checkout}
			if err := e.Dialog.Set(ctx, profileID, &models.DialogState{Pending: pending}); err != nil {
				return nil, fmt.Errorf("save dialog state: %w", err)
			}
			reply := e.confirmationPrompt(pending)
			e.logChat(ctx, profileID, text, reply.Content, false, reply.Intent)
			return reply, nil
		}
		reply := &models.ChatReply{
			Content: fmt.Sprintf("I can book Room %d, but I still need a check-in date (today, tomorrow, or YYYY-MM-DD) and a day count (1-5 days). For example: \"book room %d tomorrow for 2 days\".", roomID, roomID),
			Intent:  "booking_clarify",
			Pending: state.Pending,
		}
		e.logChat(ctx, profileID, text, reply.Content, false, reply.Intent)
		return reply, nil
	}

	// 6) No rule matched: forward the recent transcript to the model.
	return e.modelFallback(ctx, profileID, text, transcript, state)
}

func (e *Engine) tryFixedIntents(ctx context.Context, profileID, q string) *models.ChatReply {
	emit := func(content, intent string) *models.ChatReply {
		reply := &models.ChatReply{Content: content, Intent: intent}
		e.logChat(ctx, profileID, q, content, false, intent)
		return reply
	}

	switch {
	case bookingHelpRe.MatchString(q):
		return emit(strings.Join([]string{
			"To book a room:",
			"1) Log in (Login on the top-right).",
			"2) Go to the Dashboard and click a room.",
			"3) Pick a check-in date and choose 1-5 days.",
			"4) Confirm. The room turns Booked and only you can Cancel it.",
		}, "\n"), "booking_help")
	case loginHelpRe.MatchString(q):
		return emit("Login/Signup: use the Login or Sign up buttons on the toolbar.", "login_help")
	case cancelHelpRe.MatchString(q):
		return emit(strings.Join([]string{
			"Cancel a booking:",
			"- Open the room you booked, then click Cancel booking.",
			"- Only the person who booked the room can see and use Cancel.",
		}, "\n"), "cancel_help")
	case policyRe.MatchString(q):
		return emit("Only the original booker can cancel a room. This is enforced by the database's access rules and by the app.", "holder_policy")
	case daysLimitRe.MatchString(q):
		return emit("You can select 1-5 days per booking. Longer stays are not allowed.", "days_limit")
	case availGenRe.MatchString(q):
		return emit("Available rooms are marked with the green Available badge on the Dashboard grid. Booked rooms are labeled Booked.", "available_rooms_generic")
	case roomsListRe.MatchString(q):
		return e.roomListing(ctx, profileID, q)
	}
	return nil
}

// roomListing answers "what rooms do you have / amenities" with live data,
// falling back to the amenity catalogue when the store is unreachable.
func (e *Engine) roomListing(ctx context.Context, profileID, q string) *models.ChatReply {
	rooms, err := e.Rooms.List(ctx)
	if err != nil || len(rooms) == 0 {
		reply := &models.ChatReply{
			Content:  "We offer multiple room types with standard amenities; the live catalogue is unavailable right now.",
			Intent:   "rooms_amenities_fallback",
			Degraded: true,
		}
		e.logChat(ctx, profileID, q, reply.Content, true, reply.Intent)
		return reply
	}

	lines := []string{"We offer the following rooms:"}
	for _, r := range rooms {
		am := r.Amenities
		if len(am) == 0 {
			am = e.Rooms.Amenities(r.ID)
		}
		amText := strings.Join(am, ", ")
		if amText == "" {
			amText = "Standard amenities"
		}
		lines = append(lines, fmt.Sprintf("- Room %d - %s (capacity %d). Amenities: %s.", r.ID, r.Name, r.Capacity, amText))
	}
	reply := &models.ChatReply{
		Content: strings.Join(lines, "\n"),
		Intent:  "rooms_amenities_list",
		Rooms:   rooms,
	}
	e.logChat(ctx, profileID, q, reply.Content, false, reply.Intent)
	return reply
}

// tryAvailability answers date-bearing availability questions, degrading to
// the room's current status when the oracle is unreachable.
func (e *Engine) tryAvailability(ctx context.Context, profileID, q string) *models.ChatReply {
	roomMatch := roomAvailRe.FindStringSubmatch(q)
	if roomMatch == nil {
		roomMatch = isRoomAvailRe.FindStringSubmatch(q)
	}
	if roomMatch != nil {
		roomID, _ := strconv.Atoi(roomMatch[1])
		date, ok := ParseDateToken(q, e.Now())
		if !ok {
			date = e.Now().Format("2006-01-02")
		}

		available, err := e.Oracle.IsAvailable(ctx, roomID, date)
		if err == nil {
			verdict := fmt.Sprintf("Room %d is available on %s.", roomID, date)
			if !available {
				verdict = fmt.Sprintf("Room %d is NOT available on %s.", roomID, date)
			}
			reply := &models.ChatReply{
				Content:      verdict,
				Intent:       "availability_room_date",
				Availability: []models.RoomAvailability{{RoomID: roomID, Available: available}},
			}
			e.logChat(ctx, profileID, q, reply.Content, false, reply.Intent)
			return reply
		}

		// Degraded answer from current status only, explicitly labeled.
		if room, rerr := e.Rooms.Get(ctx, roomID); rerr == nil && room != nil {
			reply := &models.ChatReply{
				Content:  fmt.Sprintf("I couldn't check date-based bookings right now. Based on current status, Room %d is %s.", roomID, room.Status),
				Intent:   "availability_room_status_fallback",
				Degraded: true,
			}
			e.logChat(ctx, profileID, q, reply.Content, false, reply.Intent)
			return reply
		}

		reply := &models.ChatReply{Content: FallbackSentence, Intent: "availability_room_error"}
		e.logChat(ctx, profileID, q, reply.Content, true, reply.Intent)
		return reply
	}

	if strings.Contains(q, "available rooms") || strings.Contains(q, "rooms available") || strings.Contains(q, "which rooms are free") {
		date, ok := ParseDateToken(q, e.Now())
		if !ok {
			date = e.Now().Format("2006-01-02")
		}

		rooms, roomsErr := e.Rooms.List(ctx)
		if roomsErr != nil {
			reply := &models.ChatReply{Content: FallbackSentence, Intent: "availability_list_error"}
			e.logChat(ctx, profileID, q, reply.Content, true, reply.Intent)
			return reply
		}

		if freeIDs, err := e.Oracle.AvailableRoomIDs(ctx, date); err == nil {
			freeSet := make(map[int]struct{}, len(freeIDs))
			for _, id := range freeIDs {
				freeSet[id] = struct{}{}
			}
			var entries []models.RoomAvailability
			var names []string
			for _, r := range rooms {
				_, free := freeSet[r.ID]
				entries = append(entries, models.RoomAvailability{RoomID: r.ID, Name: r.Name, Available: free})
				if free {
					names = append(names, fmt.Sprintf("%d - %s", r.ID, r.Name))
				}
			}
			list := "none"
			if len(names) > 0 {
				list = strings.Join(names, ", ")
			}
			reply := &models.ChatReply{
				Content:      fmt.Sprintf("Available rooms on %s: %s", date, list),
				Intent:       "availability_list_date",
				Availability: entries,
			}
			e.logChat(ctx, profileID, q, reply.Content, false, reply.Intent)
			return reply
		}

		// Degraded: current statuses only.
		var names []string
		for _, r := range rooms {
			if r.Status == models.RoomStatusAvailable {
				names = append(names, fmt.Sprintf("%d - %s", r.ID, r.Name))
			}
		}
		list := "none"
		if len(names) > 0 {
			list = strings.Join(names, ", ")
		}
		reply := &models.ChatReply{
			Content:  fmt.Sprintf("I couldn't check date-based bookings right now. Based on current statuses, available now: %s", list),
			Intent:   "availability_list_status_fallback",
			Degraded: true,
		}
		e.logChat(ctx, profileID, q, reply.Content, false, reply.Intent)
		return reply
	}

	return nil
}

// modelFallback makes exactly one remote call with the recent transcript.
func (e *Engine) modelFallback(ctx context.Context, profileID, text string, transcript []models.ChatMessage, state *models.DialogState) (*models.ChatReply, error) {
	recent := transcript
	if len(recent) > 12 {
		recent = recent[len(recent)-12:]
	}

	content := FallbackSentence
	isFallback := true
	if e.Model != nil {
		if raw, err := e.Model.Complete(ctx, recent); err == nil {
			content = NormalizeModelReply(raw)
			isFallback = content == FallbackSentence
		} else {
			utils.GetLogger().Warn("model call failed", zap.Error(err))
		}
	}

	reply := &models.ChatReply{Content: content, Intent: "model", Pending: state.Pending}
	e.logChat(ctx, profileID, text, content, isFallback, "model")
	return reply, nil
}

// StartGuidedBooking begins the slot-filling dialogue for one room. It is an
// explicit action (a button on a room card), never inferred from free text.
func (e *Engine) StartGuidedBooking(ctx context.Context, profileID string, roomID int) (*models.ChatReply, error) {
	room, err := e.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("look up room %d: %w", roomID, err)
	}
	if room == nil {
		return &models.ChatReply{Content: fmt.Sprintf("I don't know Room %d.", roomID), Intent: "guided_unknown_room"}, nil
	}

	state := &models.DialogState{Step: models.DialogStepDate, RoomID: roomID}
	if err := e.Dialog.Set(ctx, profileID, state); err != nil {
		return nil, fmt.Errorf("save dialog state: %w", err)
	}
	return &models.ChatReply{
		Content: fmt.Sprintf("Let's book %s (Room %d). What check-in date would you like? (today, tomorrow, or YYYY-MM-DD)", room.Name, roomID),
		Intent:  "guided_start",
	}, nil
}

// Confirm executes the pending reservation through the Reservation Protocol.
func (e *Engine) Confirm(ctx context.Context, profileID string) (*models.ChatReply, error) {
	state, err := e.Dialog.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load dialog state: %w", err)
	}
	if state.Pending == nil {
		return &models.ChatReply{Content: "There's no pending booking to confirm.", Intent: "confirm_nothing"}, nil
	}

	p := state.Pending
	_, _, err = e.Booking.Reserve(ctx, p.RoomID, profileID, p.Checkin, p.Days)
	switch {
	case err == nil:
		_ = e.Dialog.Clear(ctx, profileID)
		reply := &models.ChatReply{
			Content: fmt.Sprintf("Booking confirmed! Room %d from %s to %s.", p.RoomID, p.Checkin, p.Checkout),
			Intent:  "booking_confirmed",
		}
		e.logChat(ctx, profileID, "confirm booking", reply.Content, false, reply.Intent)
		return reply, nil
	case errors.Is(err, reservation.ErrRoomUnavailable):
		_ = e.Dialog.Clear(ctx, profileID)
		reply := &models.ChatReply{
			Content: fmt.Sprintf("Sorry, Room %d is not available for %s.", p.RoomID, p.Checkin),
			Intent:  "booking_unavailable",
		}
		e.logChat(ctx, profileID, "confirm booking", reply.Content, false, reply.Intent)
		return reply, nil
	default:
		// Validation and ledger failures: keep the pending card so the user
		// can retry or cancel explicitly.
		reply := &models.ChatReply{
			Content: "Sorry, something went wrong while booking. Please try again or use the Dashboard.",
			Intent:  "booking_error",
			Pending: p,
		}
		e.logChat(ctx, profileID, "confirm booking", reply.Content, false, reply.Intent)
		return reply, nil
	}
}

// CancelPending discards the pending reservation, if any.
func (e *Engine) CancelPending(ctx context.Context, profileID string) (*models.ChatReply, error) {
	if err := e.Dialog.Clear(ctx, profileID); err != nil {
		return nil, fmt.Errorf("clear dialog state: %w", err)
	}
	return &models.ChatReply{Content: "Okay, I've discarded that booking request.", Intent: "booking_discarded"}, nil
}

func (e *Engine) confirmationPrompt(p *models.PendingReservation) *models.ChatReply {
	return &models.ChatReply{
		Content: fmt.Sprintf("Got it. I can book Room %d from %s for %d day(s) (checkout %s). Please confirm below.",
			p.RoomID, p.Checkin, p.Days, p.Checkout),
		Intent:  "booking_confirm_prompt",
		Pending: p,
	}
}

func (e *Engine) logChat(ctx context.Context, profileID, question, answer string, isFallback bool, intent string) {
	if e.Logs == nil {
		return
	}
	entry := &models.ChatLog{
		ProfileID:  profileID,
		Question:   question,
		Answer:     answer,
		IsFallback: isFallback,
		Intent:     intent,
	}
	if err := e.Logs.Insert(ctx, entry); err != nil {
		utils.GetLogger().Debug("failed to record chat log", zap.Error(err))
	}
}

func lastUserMessage(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.ChatRoleUser {
			return messages[i].Content
		}
	}
	return ""
}
