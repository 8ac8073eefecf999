package room

import (
	"context"
	"errors"
	"testing"

	"rental-booking/apperror"
	"rental-booking/database/dbtest"
	roomModel "rental-booking/models/room"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndMaintenance(t *testing.T) {
	ctx := context.Background()
	s := NewService(dbtest.Open(t))

	r, err := s.Create(ctx, CreateInput{Number: " 201 ", Category: "suite", Capacity: 2, BaseRate: decimal.NewFromInt(75)})
	require.NoError(t, err)
	assert.Equal(t, "201", r.Number)
	assert.Equal(t, roomModel.RoomStatusAvailable, r.Status)

	_, err = s.Create(ctx, CreateInput{Number: "201", Category: "suite", Capacity: 2, BaseRate: decimal.NewFromInt(75)})
	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "number", verr.Field)

	r, err = s.SetMaintenance(ctx, r.ID, true)
	require.NoError(t, err)
	assert.Equal(t, roomModel.RoomStatusMaintenance, r.Status)

	reloaded, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, roomModel.RoomStatusMaintenance, reloaded.Status)

	r, err = s.SetMaintenance(ctx, r.ID, false)
	require.NoError(t, err)
	assert.Equal(t, roomModel.RoomStatusAvailable, r.Status)

	_, err = s.SetMaintenance(ctx, 99, true)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_Validation(t *testing.T) {
	s := NewService(dbtest.Open(t))
	_, err := s.Create(context.Background(), CreateInput{Number: "1", Capacity: 1, BaseRate: decimal.NewFromInt(-1)})
	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "base_rate", verr.Field)
}
