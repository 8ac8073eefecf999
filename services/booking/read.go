package booking

import (
	"context"
	"fmt"
	"time"

	bookingModel "rental-booking/models/booking"
	"rental-booking/models/housekeeping"
	invoiceModel "rental-booking/models/invoice"
	paymentModel "rental-booking/models/payment"
	roomModel "rental-booking/models/room"
	"rental-booking/services/availability"
	"rental-booking/services/ledger"

	"gorm.io/gorm"
)

// roomFacts loads what room status derivation needs: bookings that are participating or still checked in,
// and pending cleaning tasks. roomIDs nil means every room.
func roomFacts(db *gorm.DB, roomIDs []uint) ([]bookingModel.Booking, []housekeeping.Task, error) {
	var bookings []bookingModel.Booking
	q := db.Where("status IN ? OR (check_in_actual IS NOT NULL AND check_out_actual IS NULL AND status NOT IN ?)",
		bookingModel.ParticipatingStatuses(),
		[]bookingModel.BookingStatus{bookingModel.BookingStatusCompleted, bookingModel.BookingStatusCancelled})
	if roomIDs != nil {
		q = q.Where("room_id IN ?", roomIDs)
	}
	if err := q.Order("planned_start ASC").Find(&bookings).Error; err != nil {
		return nil, nil, fmt.Errorf("load bookings: %w", err)
	}

	var tasks []housekeeping.Task
	tq := db.Where("status = ?", housekeeping.TaskStatusPending)
	if roomIDs != nil {
		tq = tq.Where("room_id IN ?", roomIDs)
	}
	if err := tq.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, nil, fmt.Errorf("load housekeeping tasks: %w", err)
	}
	return bookings, tasks, nil
}

func byRoom(bookings []bookingModel.Booking) map[uint][]bookingModel.Booking {
	out := make(map[uint][]bookingModel.Booking)
	for _, b := range bookings {
		out[b.RoomID] = append(out[b.RoomID], b)
	}
	return out
}

// RoomView is a room with its derived state.
type RoomView struct {
	Room          roomModel.Room `json:"room"`
	Effective     RoomState      `json:"effective"`
	NextAvailable time.Time      `json:"next_available"`
}

// RoomStatus derives one room's effective status.
func (s *Service) RoomStatus(ctx context.Context, roomID uint) (*RoomView, error) {
	db := s.DB.WithContext(ctx)
	room, err := loadRoom(db, roomID)
	if err != nil {
		return nil, err
	}
	bookings, tasks, err := roomFacts(db, []uint{roomID})
	if err != nil {
		return nil, err
	}
	today := s.Today()
	return &RoomView{
		Room:          *room,
		Effective:     EffectiveRoomStatus(*room, bookings, tasks, today),
		NextAvailable: availability.NextAvailable(bookings, today),
	}, nil
}

// RoomBoard derives the effective status of every room, ordered by room number.
func (s *Service) RoomBoard(ctx context.Context) ([]RoomView, error) {
	db := s.DB.WithContext(ctx)
	var rooms []roomModel.Room
	if err := db.Order("number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	bookings, tasks, err := roomFacts(db, nil)
	if err != nil {
		return nil, err
	}
	grouped := byRoom(bookings)
	today := s.Today()
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomView{
			Room:          r,
			Effective:     EffectiveRoomStatus(r, grouped[r.ID], tasks, today),
			NextAvailable: availability.NextAvailable(grouped[r.ID], today),
		})
	}
	return out, nil
}

// RankedAvailability lists rooms available now first, then by how soon they free up.
func (s *Service) RankedAvailability(ctx context.Context) ([]availability.RoomAvailability, error) {
	db := s.DB.WithContext(ctx)
	var rooms []roomModel.Room
	if err := db.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	var bookings []bookingModel.Booking
	if err := db.Where("status IN ?", bookingModel.ParticipatingStatuses()).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return availability.Rank(rooms, byRoom(bookings), s.Today()), nil
}

// NextAvailable is the first day a room is free of participating bookings.
func (s *Service) NextAvailable(ctx context.Context, roomID uint) (time.Time, error) {
	db := s.DB.WithContext(ctx)
	if _, err := loadRoom(db, roomID); err != nil {
		return time.Time{}, err
	}
	var bookings []bookingModel.Booking
	err := db.Where("room_id = ? AND status IN ?", roomID, bookingModel.ParticipatingStatuses()).Find(&bookings).Error
	if err != nil {
		return time.Time{}, fmt.Errorf("load bookings of room %d: %w", roomID, err)
	}
	return availability.NextAvailable(bookings, s.Today()), nil
}

// BookingDetail is the full read model of one booking.
type BookingDetail struct {
	Booking         bookingModel.Booking              `json:"booking"`
	EffectiveStatus bookingModel.BookingStatus        `json:"effective_status"`
	Invoices        []invoiceModel.Invoice            `json:"invoices"`
	Payments        []paymentModel.Payment            `json:"payments"`
	Balance         ledger.BalanceSummary             `json:"balance"`
	ProjectedDebt   OverdueCharge                     `json:"projected_overdue"`
	Events          []bookingModel.BookingStatusEvent `json:"events"`
}

// GetBooking assembles a booking with its invoices, payments, balance and what it would owe in overdue
// nights if the departure were confirmed today.
func (s *Service) GetBooking(ctx context.Context, bookingID uint) (*BookingDetail, error) {
	db := s.DB.WithContext(ctx)
	b, err := loadBooking(db.Preload("Room").Preload("Tenant").Preload("Agent"), bookingID)
	if err != nil {
		return nil, err
	}
	invoices, payments, err := s.Ledger.LoadBookingFinancials(db, bookingID)
	if err != nil {
		return nil, err
	}
	var events []bookingModel.BookingStatusEvent
	if err := db.Where("booking_id = ?", bookingID).Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load events of booking %d: %w", bookingID, err)
	}

	today := s.Today()
	return &BookingDetail{
		Booking:         *b,
		EffectiveStatus: EffectiveBookingStatus(*b, today),
		Invoices:        invoices,
		Payments:        payments,
		Balance:         ledger.Summarize(b.ID, invoices, payments, s.Ledger.Epsilon),
		ProjectedDebt:   OverdueDebt(*b, today),
		Events:          events,
	}, nil
}

// BookingFilter narrows ListBookings. Zero values match everything.
type BookingFilter struct {
	RoomID   uint
	TenantID uint
	Status   bookingModel.BookingStatus
}

// BookingRow is a booking in a list, with its derived status.
type BookingRow struct {
	bookingModel.Booking
	EffectiveStatus bookingModel.BookingStatus `json:"effective_status"`
}

// ListBookings returns bookings newest stay first.
func (s *Service) ListBookings(ctx context.Context, f BookingFilter) ([]BookingRow, error) {
	q := s.DB.WithContext(ctx).Preload("Room").Preload("Tenant")
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.TenantID != 0 {
		q = q.Where("tenant_id = ?", f.TenantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var bookings []bookingModel.Booking
	if err := q.Order("planned_start DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	today := s.Today()
	out := make([]BookingRow, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingRow{Booking: b, EffectiveStatus: EffectiveBookingStatus(b, today)})
	}
	return out, nil
}
