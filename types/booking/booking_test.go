package booking

import (
	"errors"
	"testing"

	"rental-booking/apperror"
	bookingModel "rental-booking/models/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQueryFilter(t *testing.T) {
	filter, err := ListQuery{RoomID: 3, Status: "CONFIRMED"}.Filter()
	require.NoError(t, err)
	assert.Equal(t, uint(3), filter.RoomID)
	assert.Equal(t, bookingModel.BookingStatusConfirmed, filter.Status)

	filter, err = ListQuery{TenantID: 7}.Filter()
	require.NoError(t, err)
	assert.Empty(t, filter.Status)

	_, err = ListQuery{Status: "ARCHIVED"}.Filter()
	var target *apperror.ValidationError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "status", target.Field)
}
