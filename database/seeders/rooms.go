package seeders

import (
	"time"

	"rental-booking/logger"
	rateModel "rental-booking/models/exchange_rate"
	roomModel "rental-booking/models/room"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultRooms is the inventory a fresh install starts with.
var DefaultRooms = []roomModel.Room{
	{Number: "101", Category: "standard", Capacity: 2, BaseRate: decimal.NewFromInt(40)},
	{Number: "102", Category: "standard", Capacity: 2, BaseRate: decimal.NewFromInt(40)},
	{Number: "103", Category: "standard", Capacity: 2, BaseRate: decimal.NewFromInt(40)},
	{Number: "201", Category: "deluxe", Capacity: 3, BaseRate: decimal.NewFromInt(65)},
	{Number: "202", Category: "deluxe", Capacity: 3, BaseRate: decimal.NewFromInt(65)},
	{Number: "301", Category: "suite", Capacity: 4, BaseRate: decimal.NewFromInt(110)},
}

// SeedRooms inserts the rooms whose number is not present yet. It returns how many were added.
func SeedRooms(db *gorm.DB, rooms []roomModel.Room) int {
	logger.Printf("🔍 Checking room inventory integrity...")

	numbers := make([]string, 0, len(rooms))
	for _, r := range rooms {
		numbers = append(numbers, r.Number)
	}
	var existing []string
	if err := db.Model(&roomModel.Room{}).Where("number IN ?", numbers).Pluck("number", &existing).Error; err != nil {
		logger.Error("Failed to read existing rooms", err)
		return 0
	}
	present := make(map[string]bool, len(existing))
	for _, n := range existing {
		present[n] = true
	}

	var missing []roomModel.Room
	for _, r := range rooms {
		if !present[r.Number] {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		logger.Printf("✅ All rooms are already present. No seeding needed.")
		return 0
	}

	logger.Printf("🌱 Seeding %d missing rooms...", len(missing))
	successCount, failureCount := 0, 0
	for _, r := range missing {
		if err := db.Create(&r).Error; err != nil {
			logger.Printf("❌ Failed to seed room %s: %v", r.Number, err)
			failureCount++
		} else {
			logger.Printf("✅ Added: room %s (%s)", r.Number, r.Category)
			successCount++
		}
	}
	logger.Printf("🎉 Seeding completed! Successfully inserted %d rooms, %d failures", successCount, failureCount)
	return successCount
}

// SeedExchangeRate stores rate as the current rate when no rate has been configured yet.
func SeedExchangeRate(db *gorm.DB, rate decimal.Decimal, setBy string) bool {
	var count int64
	if err := db.Model(&rateModel.ExchangeRate{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count exchange rates", err)
		return false
	}
	if count > 0 {
		logger.Printf("✅ An exchange rate is already configured. No seeding needed.")
		return false
	}
	row := rateModel.ExchangeRate{Rate: rate, EffectiveFrom: time.Now().UTC(), SetBy: setBy}
	if err := db.Create(&row).Error; err != nil {
		logger.Error("Failed to seed exchange rate", err)
		return false
	}
	logger.Printf("🌱 Exchange rate seeded at %s CDF/USD", rate)
	return true
}
