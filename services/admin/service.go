package admin

import (
	"context"
	"fmt"
	"time"

	bookingRepo "transylvania/database/repository/booking"
	chatlogRepo "transylvania/database/repository/chatlog"
	profileRepo "transylvania/database/repository/profile"
	ratingRepo "transylvania/database/repository/rating"
	"transylvania/models"
	"transylvania/services/room"
)

// Analytics is the portal dashboard snapshot.
type Analytics struct {
	TotalRooms       int             `json:"totalRooms"`
	ActiveBookings   int             `json:"activeBookings"`
	ArchivedBookings int             `json:"archivedBookings"`
	OccupancyRate    float64         `json:"occupancyRate"`
	BookingsPerRoom  map[int]int     `json:"bookingsPerRoom"`
	RegisteredUsers  int             `json:"registeredUsers"`
	ChatExchanges    int64           `json:"chatExchanges"`
	ChatFallbacks    int64           `json:"chatFallbacks"`
	ChatFallbackRate float64         `json:"chatFallbackRate"`
	GeneratedAt      time.Time       `json:"generatedAt"`
	RoomRatings      map[int]float64 `json:"roomRatings"`
}

// Service backs the admin portal: analytics plus the ledger and user views
// the portal tables render.
type Service interface {
	Snapshot(ctx context.Context) (*Analytics, error)
	ActiveBookings(ctx context.Context) ([]models.Booking, error)
	BookingHistory(ctx context.Context) ([]models.HistoryBooking, error)
	Users(ctx context.Context) ([]models.Profile, error)
	SetAdmin(ctx context.Context, profileID string, isAdmin bool) error
	RecentChatLogs(ctx context.Context, limit int64) ([]models.ChatLog, error)
}

type DefaultService struct {
	Rooms    room.Service
	Ledger   bookingRepo.BookingRepository
	Profiles profileRepo.ProfileRepository
	Ratings  ratingRepo.RatingRepository
	ChatLogs chatlogRepo.ChatLogRepository
}

func (s *DefaultService) Snapshot(ctx context.Context) (*Analytics, error) {
	rooms, err := s.Rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics rooms: %w", err)
	}
	active, err := s.Ledger.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics active bookings: %w", err)
	}
	history, err := s.Ledger.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics booking history: %w", err)
	}
	profiles, err := s.Profiles.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics users: %w", err)
	}
	total, fallbacks, err := s.ChatLogs.FallbackCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics chat logs: %w", err)
	}

	perRoom := make(map[int]int)
	for _, b := range active {
		perRoom[b.RoomID]++
	}
	for _, h := range history {
		perRoom[h.RoomID]++
	}

	ratings := make(map[int]float64)
	for _, r := range rooms {
		summary, err := s.Ratings.Summary(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("analytics ratings for room %d: %w", r.ID, err)
		}
		if summary.Count > 0 {
			ratings[r.ID] = summary.Average
		}
	}

	a := &Analytics{
		TotalRooms:       len(rooms),
		ActiveBookings:   len(active),
		ArchivedBookings: len(history),
		BookingsPerRoom:  perRoom,
		RegisteredUsers:  len(profiles),
		ChatExchanges:    total,
		ChatFallbacks:    fallbacks,
		GeneratedAt:      time.Now().UTC(),
		RoomRatings:      ratings,
	}
	if len(rooms) > 0 {
		a.OccupancyRate = float64(len(active)) / float64(len(rooms))
	}
	if total > 0 {
		a.ChatFallbackRate = float64(fallbacks) / float64(total)
	}
	return a, nil
}

func (s *DefaultService) ActiveBookings(ctx context.Context) ([]models.Booking, error) {
	return s.Ledger.ListActive(ctx)
}

func (s *DefaultService) BookingHistory(ctx context.Context) ([]models.HistoryBooking, error) {
	return s.Ledger.ListHistory(ctx)
}

func (s *DefaultService) Users(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.Profiles.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].PasswordHash = ""
	}
	return profiles, nil
}

func (s *DefaultService) SetAdmin(ctx context.Context, profileID string, isAdmin bool) error {
	return s.Profiles.SetAdmin(ctx, profileID, isAdmin)
}

func (s *DefaultService) RecentChatLogs(ctx context.Context, limit int64) ([]models.ChatLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.ChatLogs.ListRecent(ctx, limit)
}
