package routes

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-booking/constants"
	"rental-booking/database/dbtest"
	"rental-booking/middleware"
	bookingService "rental-booking/services/booking"
	"rental-booking/services/exchange_rate"
	"rental-booking/services/ledger"
	"rental-booking/services/locker"
	receiptService "rental-booking/services/receipt_parser"
	"rental-booking/services/reports"
	roomService "rental-booking/services/room"
	tenantService "rental-booking/services/tenant"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

type harness struct {
	app *fiber.App
	key *rsa.PrivateKey
}

func newHarness(t *testing.T) harness {
	t.Helper()
	db := dbtest.Open(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	middleware.SetKeySource(middleware.StaticKeySource(&key.PublicKey))
	t.Cleanup(func() { middleware.SetKeySource(nil) })

	now := func() time.Time { return clock }
	rates := exchange_rate.NewService(db)
	rates.Now = now
	l := ledger.New(db, ledger.DefaultEpsilon)
	l.Now = now
	bookings := bookingService.NewService(db, l, rates, locker.NewLocalLocker(), time.UTC)
	bookings.Now = now
	receipts, err := receiptService.NewService(context.Background(), db, "", "")
	require.NoError(t, err)

	from := clock.AddDate(0, 0, -1)
	_, err = rates.Set(context.Background(), decimal.RequireFromString("2800"), &from, "seed")
	require.NoError(t, err)

	app := fiber.New()
	SetupRoutes(app, db, Services{
		Bookings: bookings,
		Ledger:   l,
		Rates:    rates,
		Rooms:    roomService.NewService(db),
		Tenants:  tenantService.NewService(db),
		Reports:  reports.NewService(db, ledger.DefaultEpsilon, time.UTC),
		Receipts: receipts,
	}, nil)
	return harness{app: app, key: key}
}

func (h harness) token(t *testing.T, uuid string, perms ...string) string {
	t.Helper()
	list := make([]interface{}, 0, len(perms))
	for _, p := range perms {
		list = append(list, p)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"uuid":        uuid,
		"username":    "user-" + uuid,
		"permissions": list,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}).SignedString(h.key)
	require.NoError(t, err)
	return token
}

func (h harness) call(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func data(t *testing.T, out map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := out["data"].(map[string]interface{})
	require.True(t, ok, "response has object data: %v", out)
	return d
}

func id(t *testing.T, obj map[string]interface{}) int {
	t.Helper()
	v, ok := obj["id"].(float64)
	require.True(t, ok, "object has numeric id: %v", obj)
	return int(v)
}

func assertDecimal(t *testing.T, want string, got interface{}) {
	t.Helper()
	s, ok := got.(string)
	require.True(t, ok, "decimal encoded as string, got %T", got)
	assert.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(s)), "want %s, got %s", want, s)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	h := newHarness(t)
	admin := h.token(t, "admin-1", constants.PermAdminFull)

	status, out := h.call(t, http.MethodPost, "/api/rooms", admin, map[string]interface{}{
		"number": "101", "category": "standard", "capacity": 2, "base_rate": "50",
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	roomID := id(t, data(t, out))

	status, out = h.call(t, http.MethodPost, "/api/tenants", admin, map[string]interface{}{
		"full_name": "Amani Kabila", "phone": "+243810000001",
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	tenantID := id(t, data(t, out))

	status, out = h.call(t, http.MethodPost, "/api/bookings", admin, map[string]interface{}{
		"room_id": roomID, "tenant_id": tenantID, "start_date": "2026-10-18", "end_date": "2026-10-21",
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	created := data(t, out)
	bookingID := id(t, created["booking"].(map[string]interface{}))
	assertDecimal(t, "150", created["invoice"].(map[string]interface{})["total"])

	t.Run("overlap is a conflict naming the blocking booking", func(t *testing.T) {
		status, out := h.call(t, http.MethodPost, "/api/bookings", admin, map[string]interface{}{
			"room_id": roomID, "tenant_id": tenantID, "start_date": "2026-10-20", "end_date": "2026-10-22",
		})
		assert.Equal(t, fiber.StatusConflict, status)
		assert.EqualValues(t, bookingID, data(t, out)["conflict_booking_id"])
	})

	t.Run("inverted range is a bad request", func(t *testing.T) {
		status, _ := h.call(t, http.MethodPost, "/api/bookings/check-conflict", admin, map[string]interface{}{
			"room_id": roomID, "start_date": "2026-10-25", "end_date": "2026-10-25",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("turnover day is free", func(t *testing.T) {
		status, out := h.call(t, http.MethodPost, "/api/bookings/check-conflict", admin, map[string]interface{}{
			"room_id": roomID, "start_date": "2026-10-21", "end_date": "2026-10-23",
		})
		require.Equal(t, fiber.StatusOK, status, out)
		assert.Equal(t, false, data(t, out)["conflict"])
	})

	status, out = h.call(t, http.MethodPost, "/api/payments", admin, map[string]interface{}{
		"booking_id": bookingID, "amount_usd": "50", "amount_cdf": "140000", "method": "CASH",
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	balance := data(t, out)["balance"].(map[string]interface{})
	assertDecimal(t, "50", balance["balance_due"])
	assert.Equal(t, "PARTIAL", balance["payment_status"])

	status, out = h.call(t, http.MethodGet, fmt.Sprintf("/api/bookings/%d", bookingID), admin, nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Len(t, data(t, out)["payments"], 1)

	status, out = h.call(t, http.MethodGet, "/api/reports/outstanding", admin, nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Len(t, out["data"], 1)

	status, out = h.call(t, http.MethodDelete, fmt.Sprintf("/api/bookings/%d", bookingID), admin, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "not_terminal", data(t, out)["error"])

	status, out = h.call(t, http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", bookingID), admin, map[string]interface{}{
		"reason": "guest changed plans",
	})
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, "CANCELLED", data(t, out)["status"])

	status, out = h.call(t, http.MethodDelete, fmt.Sprintf("/api/bookings/%d", bookingID), admin, nil)
	require.Equal(t, fiber.StatusOK, status, out)

	status, _ = h.call(t, http.MethodGet, fmt.Sprintf("/api/bookings/%d", bookingID), admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPaymentCorrectionKeepsRecordedRate(t *testing.T) {
	h := newHarness(t)
	admin := h.token(t, "admin-1", constants.PermAdminFull)

	status, out := h.call(t, http.MethodPost, "/api/rooms", admin, map[string]interface{}{
		"number": "102", "category": "standard", "capacity": 2, "base_rate": "40",
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	roomID := id(t, data(t, out))
	status, out = h.call(t, http.MethodPost, "/api/tenants", admin, map[string]interface{}{
		"full_name": "Grace Mbuyi", "phone": "+243810000002",
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	tenantID := id(t, data(t, out))
	status, out = h.call(t, http.MethodPost, "/api/bookings", admin, map[string]interface{}{
		"room_id": roomID, "tenant_id": tenantID, "start_date": "2026-10-18", "nights": 2,
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	bookingID := id(t, data(t, out)["booking"].(map[string]interface{}))

	status, out = h.call(t, http.MethodPost, "/api/payments", admin, map[string]interface{}{
		"booking_id": bookingID, "amount_cdf": "28000", "method": "CASH",
	})
	require.Equal(t, fiber.StatusCreated, status, out)
	paymentID := id(t, data(t, out)["payment"].(map[string]interface{}))

	status, out = h.call(t, http.MethodPost, "/api/exchange-rates", admin, map[string]interface{}{"rate": "3500"})
	require.Equal(t, fiber.StatusCreated, status, out)

	status, out = h.call(t, http.MethodPut, fmt.Sprintf("/api/payments/%d", paymentID), admin, map[string]interface{}{
		"amount_cdf": "28000", "method": "MOBILE_MONEY",
	})
	require.Equal(t, fiber.StatusOK, status, out)
	corrected := data(t, out)
	assert.Equal(t, "MOBILE_MONEY", corrected["method"])
	assertDecimal(t, "2800", corrected["exchange_rate"])
	assertDecimal(t, "10", corrected["canonical_total"])
}

func TestPermissionsGateRoutes(t *testing.T) {
	h := newHarness(t)
	accountant := h.token(t, "acct-1", constants.PermAccountantFull)
	agent := h.token(t, "agent-1", constants.PermAgentFull)

	status, _ := h.call(t, http.MethodPost, "/api/bookings", accountant, map[string]interface{}{
		"room_id": 1, "tenant_id": 1, "start_date": "2026-10-18", "nights": 2,
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.call(t, http.MethodPost, "/api/exchange-rates", agent, map[string]interface{}{"rate": "2900"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, out := h.call(t, http.MethodGet, "/api/exchange-rates/current", agent, nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assertDecimal(t, "2800", data(t, out)["rate"])

	status, out = h.call(t, http.MethodGet, "/api/auth/profile", agent, nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, "agent-1", data(t, out)["uid"])
}

func TestReceiptParsingDisabledWithoutKey(t *testing.T) {
	h := newHarness(t)
	agent := h.token(t, "agent-1", constants.PermAgentFull)

	status, _ := h.call(t, http.MethodPost, "/api/payments/parse-receipt", agent, nil)
	assert.Equal(t, fiber.StatusBadRequest, status, "no image uploaded")
}
