package receipt_parser

import (
	"context"
	"testing"
	"time"

	paymentModel "rental-booking/models/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONFromMarkdown(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown(`  {"a":1} `))
}

func TestDecodeSuggestion(t *testing.T) {
	got, err := decodeSuggestion(`{"amount_usd": "1,250.50", "amount_cdf": 28000, "method": "M-Pesa", "date": "2026-10-15", "reference": " TX-991 "}`)
	require.NoError(t, err)
	assert.True(t, got.AmountUSD.Equal(decimal.RequireFromString("1250.50")))
	assert.True(t, got.AmountCDF.Equal(decimal.NewFromInt(28000)))
	assert.Equal(t, string(paymentModel.PaymentMethodMobileMoney), got.Method)
	require.NotNil(t, got.PaymentDate)
	assert.True(t, got.PaymentDate.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "TX-991", got.Reference)
}

func TestDecodeSuggestion_MissingFields(t *testing.T) {
	got, err := decodeSuggestion(`{"amount_usd": "", "amount_cdf": "50 000 FC", "method": "", "date": "15/10/2026"}`)
	require.NoError(t, err)
	assert.True(t, got.AmountUSD.IsZero())
	assert.True(t, got.AmountCDF.Equal(decimal.NewFromInt(50000)))
	assert.Empty(t, got.Method)
	assert.Nil(t, got.PaymentDate)
}

func TestDecodeSuggestion_BadAmount(t *testing.T) {
	_, err := decodeSuggestion(`{"amount_usd": "twenty"}`)
	assert.Error(t, err)
	_, err = decodeSuggestion(`not json`)
	assert.Error(t, err)
}

func TestNormalizeMethod(t *testing.T) {
	assert.Equal(t, paymentModel.PaymentMethodCash, normalizeMethod("Cash"))
	assert.Equal(t, paymentModel.PaymentMethodCash, normalizeMethod("espèces"))
	assert.Equal(t, paymentModel.PaymentMethodBankTransfer, normalizeMethod("Virement bancaire"))
	assert.Equal(t, paymentModel.PaymentMethodCard, normalizeMethod("VISA"))
	assert.Equal(t, paymentModel.PaymentMethod(""), normalizeMethod("cheque"))
}

func TestParse_DisabledWithoutKey(t *testing.T) {
	s, err := NewService(context.Background(), nil, "", "gemini-2.0-flash")
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	_, err = s.Parse(context.Background(), []byte{1}, "r.png", "image/png", "agent-1")
	assert.ErrorIs(t, err, ErrDisabled)
}
