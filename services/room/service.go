package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-booking/apperror"
	"rental-booking/logger"
	roomModel "rental-booking/models/room"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service administers rooms. Occupancy never goes through here: only the administrative flag is stored.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type CreateInput struct {
	Number   string
	Category string
	Capacity int
	BaseRate decimal.Decimal
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*roomModel.Room, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, &apperror.ValidationError{Field: "number", Reason: "is required"}
	}
	if in.Capacity < 1 {
		return nil, &apperror.ValidationError{Field: "capacity", Reason: "must be at least 1"}
	}
	if in.BaseRate.IsNegative() {
		return nil, &apperror.ValidationError{Field: "base_rate", Reason: "must not be negative"}
	}

	db := s.DB.WithContext(ctx)
	var existing int64
	if err := db.Model(&roomModel.Room{}).Where("number = ?", number).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check room number: %w", err)
	}
	if existing > 0 {
		return nil, &apperror.ValidationError{Field: "number", Reason: fmt.Sprintf("room %s already exists", number)}
	}

	r := roomModel.Room{
		Number:   number,
		Category: strings.TrimSpace(in.Category),
		Capacity: in.Capacity,
		BaseRate: in.BaseRate,
		Status:   roomModel.RoomStatusAvailable,
	}
	if err := db.Create(&r).Error; err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	logger.Success(fmt.Sprintf("Room %s created with base rate %s", r.Number, r.BaseRate))
	return &r, nil
}

func (s *Service) List(ctx context.Context) ([]roomModel.Room, error) {
	var rooms []roomModel.Room
	if err := s.DB.WithContext(ctx).Order("number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*roomModel.Room, error) {
	var r roomModel.Room
	if err := s.DB.WithContext(ctx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "room", ID: id}
		}
		return nil, fmt.Errorf("load room %d: %w", id, err)
	}
	return &r, nil
}

// SetMaintenance sets or clears the MAINTENANCE flag.
func (s *Service) SetMaintenance(ctx context.Context, id uint, on bool) (*roomModel.Room, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	status := roomModel.RoomStatusAvailable
	if on {
		status = roomModel.RoomStatusMaintenance
	}
	if err := s.DB.WithContext(ctx).Model(r).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update room %d: %w", id, err)
	}
	r.Status = status
	logger.Info(fmt.Sprintf("Room %s administrative status set to %s", r.Number, status))
	return r, nil
}
