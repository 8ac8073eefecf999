// Package receipt_parser reads payment amounts off receipt photos with Gemini. Results are suggestions the
// operator confirms through the normal payment recording path; nothing here writes a payment.
package receipt_parser

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-booking/logger"
	paymentModel "rental-booking/models/payment"
	receiptModel "rental-booking/models/receipt_parser"
	"rental-booking/utils"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// ErrDisabled is returned when no Gemini API key is configured.
var ErrDisabled = errors.New("receipt parsing is not configured")

// MaxImageSize is the largest accepted upload.
const MaxImageSize = int64(10 * 1024 * 1024)

const prompt = `Analyze this payment receipt image from a guest house in the Democratic Republic of the Congo and extract the following information. Return ONLY valid JSON.

If a field is missing or unclear, use an empty string. Amounts are plain numbers without currency symbols or thousands separators.

Required JSON format:
{
"amount_usd": string,   // amount paid in US dollars (USD, $)
"amount_cdf": string,   // amount paid in Congolese francs (CDF, FC)
"method": string,       // one of: cash, mobile money, bank transfer, card
"date": string,         // payment date as YYYY-MM-DD
"reference": string     // transaction or receipt number
}`

type Service struct {
	DB     *gorm.DB
	client *genai.Client
	model  string
}

// NewService builds the parser. Without an API key the service exists but every parse returns ErrDisabled.
func NewService(ctx context.Context, db *gorm.DB, apiKey, model string) (*Service, error) {
	s := &Service{DB: db, model: model}
	if apiKey == "" {
		logger.Warning("GEMINI_API_KEY not set, receipt parsing disabled")
		return s, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *Service) Enabled() bool {
	return s.client != nil
}

// GenerateRequestID generates a 24 character unique request ID
func GenerateRequestID() string {
	bytes := make([]byte, 12)
	_, _ = rand.Read(bytes)
	return fmt.Sprintf("%06x%s", time.Now().Unix()&0xffffff, hex.EncodeToString(bytes)[:18])
}

// Parse extracts payment fields from an image and records the attempt.
func (s *Service) Parse(ctx context.Context, image []byte, fileName, mimeType, actor string) (*receiptModel.ReceiptSuggestion, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	started := time.Now()
	hash := sha256.Sum256(image)
	req := receiptModel.ReceiptParseRequest{
		RequestID:        GenerateRequestID(),
		OriginalFileName: fileName,
		FileHash:         hex.EncodeToString(hash[:]),
		FileSize:         int64(len(image)),
		MimeType:         mimeType,
		RequestedBy:      actor,
	}
	if err := s.DB.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, fmt.Errorf("failed to create parse request: %w", err)
	}

	suggestion, err := s.generate(ctx, image, mimeType)
	elapsed := time.Since(started).Milliseconds()
	if err != nil {
		if markErr := req.MarkAsFailed(s.DB.WithContext(ctx), err.Error(), elapsed); markErr != nil {
			logger.Error(fmt.Sprintf("Failed to save failure for receipt request %s", req.RequestID), markErr)
		}
		return nil, err
	}

	suggestion.RequestID = req.RequestID
	suggestion.ProcessingTimeMs = elapsed
	if err := req.MarkAsSuccess(s.DB.WithContext(ctx), suggestion); err != nil {
		logger.Error(fmt.Sprintf("Failed to save result for receipt request %s", req.RequestID), err)
	}
	logger.Success(fmt.Sprintf("Receipt parsed in %dms, request %s: USD %s, CDF %s",
		elapsed, req.RequestID, suggestion.AmountUSD, suggestion.AmountCDF))
	return suggestion, nil
}

func (s *Service) generate(ctx context.Context, image []byte, mimeType string) (*receiptModel.ReceiptSuggestion, error) {
	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		},
	}
	result, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{content}, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no content generated for receipt")
	}
	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return nil, errors.New("empty response for receipt")
	}
	return decodeSuggestion(extractJSONFromMarkdown(text))
}

type rawReceipt struct {
	AmountUSD json.RawMessage `json:"amount_usd"`
	AmountCDF json.RawMessage `json:"amount_cdf"`
	Method    string          `json:"method"`
	Date      string          `json:"date"`
	Reference string          `json:"reference"`
}

// decodeSuggestion turns the model's JSON into typed fields. Unreadable optional fields are dropped;
// unreadable amounts fail the parse.
func decodeSuggestion(jsonText string) (*receiptModel.ReceiptSuggestion, error) {
	var raw rawReceipt
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}
	usd, err := parseAmount(raw.AmountUSD)
	if err != nil {
		return nil, fmt.Errorf("amount_usd: %w", err)
	}
	cdf, err := parseAmount(raw.AmountCDF)
	if err != nil {
		return nil, fmt.Errorf("amount_cdf: %w", err)
	}
	out := &receiptModel.ReceiptSuggestion{
		AmountUSD: usd,
		AmountCDF: cdf,
		Method:    string(normalizeMethod(raw.Method)),
		Reference: strings.TrimSpace(raw.Reference),
	}
	if d, err := utils.ParseDate(strings.TrimSpace(raw.Date)); err == nil {
		out.PaymentDate = &d
	}
	return out, nil
}

// parseAmount accepts a JSON number or string, ignoring currency marks and thousands separators.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero, nil
	}
	s = strings.Trim(s, `"`)
	s = strings.NewReplacer(",", "", " ", "", "$", "", "USD", "", "CDF", "", "FC", "").Replace(strings.ToUpper(s))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %s", string(raw))
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", string(raw))
	}
	return d, nil
}

// normalizeMethod maps the model's wording to a payment method, or "" when it cannot tell.
func normalizeMethod(s string) paymentModel.PaymentMethod {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "cash"), strings.Contains(s, "esp"):
		return paymentModel.PaymentMethodCash
	case strings.Contains(s, "mobile"), strings.Contains(s, "m-pesa"), strings.Contains(s, "mpesa"),
		strings.Contains(s, "airtel"), strings.Contains(s, "orange"):
		return paymentModel.PaymentMethodMobileMoney
	case strings.Contains(s, "bank"), strings.Contains(s, "transfer"), strings.Contains(s, "virement"):
		return paymentModel.PaymentMethodBankTransfer
	case strings.Contains(s, "card"), strings.Contains(s, "visa"), strings.Contains(s, "carte"):
		return paymentModel.PaymentMethodCard
	}
	return ""
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}

// IsValidImageType checks if the provided content type is a valid image type
func IsValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
