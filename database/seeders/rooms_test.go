package seeders

import (
	"testing"

	"rental-booking/database/dbtest"
	rateModel "rental-booking/models/exchange_rate"
	roomModel "rental-booking/models/room"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRooms_OnlyAddsMissing(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&roomModel.Room{Number: "101", Category: "custom", Capacity: 1, BaseRate: decimal.NewFromInt(30)}).Error)

	added := SeedRooms(db, DefaultRooms)
	assert.Equal(t, len(DefaultRooms)-1, added)

	var kept roomModel.Room
	require.NoError(t, db.Where("number = ?", "101").First(&kept).Error)
	assert.Equal(t, "custom", kept.Category)

	assert.Zero(t, SeedRooms(db, DefaultRooms))
}

func TestSeedExchangeRate_OnlyWhenUnset(t *testing.T) {
	db := dbtest.Open(t)

	assert.True(t, SeedExchangeRate(db, decimal.NewFromInt(2800), "seed"))
	assert.False(t, SeedExchangeRate(db, decimal.NewFromInt(3000), "seed"))

	var rows []rateModel.ExchangeRate
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Rate.Equal(decimal.NewFromInt(2800)))
}
