package room

import (
	roomService "rental-booking/services/room"

	"github.com/shopspring/decimal"
)

type RoomCreateRequest struct {
	Number   string          `json:"number" validate:"required,min=1,max=50"`
	Category string          `json:"category" validate:"required,min=1,max=100"`
	Capacity int             `json:"capacity" validate:"required,min=1,max=50"`
	BaseRate decimal.Decimal `json:"base_rate"`
}

func (r RoomCreateRequest) ToInput() roomService.CreateInput {
	return roomService.CreateInput{
		Number:   r.Number,
		Category: r.Category,
		Capacity: r.Capacity,
		BaseRate: r.BaseRate,
	}
}
