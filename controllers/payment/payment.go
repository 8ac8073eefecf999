package payment

import (
	"errors"
	"fmt"
	"io"

	"rental-booking/controllers/base"
	"rental-booking/logger"
	"rental-booking/services"
	"rental-booking/services/exchange_rate"
	"rental-booking/services/ledger"
	receiptService "rental-booking/services/receipt_parser"
	"rental-booking/types"
	paymentTypes "rental-booking/types/payment"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	base.Controller
	Ledger      *ledger.Ledger
	Rates       *exchange_rate.Service
	Receipts    *receiptService.Service
	Permissions *services.PermissionService
}

func NewPaymentController(l *ledger.Ledger, rates *exchange_rate.Service, receipts *receiptService.Service, asyncLogger *logger.AsyncLogger) *PaymentController {
	return &PaymentController{
		Controller:  base.New(asyncLogger),
		Ledger:      l,
		Rates:       rates,
		Receipts:    receipts,
		Permissions: services.NewPermissionService(),
	}
}

// Store records a payment at the request's rate, or at the current rate when none is given
func (pc *PaymentController) Store(c *fiber.Ctx) error {
	var req paymentTypes.PaymentCreateRequest
	if err := pc.Parse(c, &req); err != nil {
		return pc.Fail(c, "Invalid request body", err)
	}
	_, actor, ok := pc.Agent(c)
	if !ok {
		return pc.Unauthorized(c)
	}
	if req.ExchangeRate != nil && !pc.Permissions.CanOverrideAmounts(c) {
		return pc.Send(c, fiber.StatusForbidden, types.ApiResponse{Message: "Only accounting may set the exchange rate of a payment"})
	}
	rate, err := pc.Rates.Resolve(c.UserContext(), req.ExchangeRate)
	if err != nil {
		return pc.Fail(c, "Failed to resolve exchange rate", err)
	}
	in, err := req.ToInput(rate, actor)
	if err != nil {
		return pc.Fail(c, "Invalid request body", err)
	}
	p, err := pc.Ledger.RecordPayment(c.UserContext(), in)
	if err != nil {
		return pc.Fail(c, "Failed to record payment", err)
	}
	balance, err := pc.Ledger.BookingBalance(c.UserContext(), p.BookingID)
	if err != nil {
		return pc.Fail(c, "Payment recorded but failed to compute balance", err)
	}
	return pc.Created(c, "Payment recorded successfully", fiber.Map{"payment": p, "balance": balance})
}

// Update corrects a payment. Only accounting may correct recorded money. The recorded rate is kept
// unless the request names another.
func (pc *PaymentController) Update(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return pc.Fail(c, "Invalid payment id", err)
	}
	var req paymentTypes.PaymentUpdateRequest
	if err := pc.Parse(c, &req); err != nil {
		return pc.Fail(c, "Invalid request body", err)
	}
	_, actor, ok := pc.Agent(c)
	if !ok {
		return pc.Unauthorized(c)
	}
	in, err := req.ToCorrection(actor)
	if err != nil {
		return pc.Fail(c, "Invalid request body", err)
	}
	p, err := pc.Ledger.UpdatePayment(c.UserContext(), id, in)
	if err != nil {
		return pc.Fail(c, "Failed to update payment", err)
	}
	return pc.OK(c, "Payment updated successfully", p)
}

func (pc *PaymentController) Destroy(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return pc.Fail(c, "Invalid payment id", err)
	}
	_, actor, ok := pc.Agent(c)
	if !ok {
		return pc.Unauthorized(c)
	}
	if err := pc.Ledger.DeletePayment(c.UserContext(), id, actor); err != nil {
		return pc.Fail(c, "Failed to delete payment", err)
	}
	return pc.OK(c, "Payment deleted successfully", fiber.Map{"payment_id": id})
}

// ParseReceipt reads the amounts off an uploaded receipt photo. The result is a suggestion; the operator
// confirms it through Store.
func (pc *PaymentController) ParseReceipt(c *fiber.Ctx) error {
	_, actor, ok := pc.Agent(c)
	if !ok {
		return pc.Unauthorized(c)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return pc.Send(c, fiber.StatusBadRequest, types.ApiResponse{Message: "No image file provided"})
	}

	mimeType := file.Header.Get("Content-Type")
	if !receiptService.IsValidImageType(mimeType) {
		logger.Warning(fmt.Sprintf("Rejected receipt upload with type %s", mimeType))
		return pc.Send(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid file type. Only JPEG, JPG, PNG, and WebP files are allowed",
		})
	}
	if file.Size > receiptService.MaxImageSize {
		return pc.Send(c, fiber.StatusBadRequest, types.ApiResponse{Message: "File size too large. Maximum size is 10MB"})
	}

	src, err := file.Open()
	if err != nil {
		return pc.Fail(c, "Failed to process uploaded file", err)
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return pc.Fail(c, "Failed to read file content", err)
	}

	suggestion, err := pc.Receipts.Parse(c.UserContext(), fileBytes, file.Filename, mimeType, actor)
	if err != nil {
		if errors.Is(err, receiptService.ErrDisabled) {
			return pc.Send(c, fiber.StatusServiceUnavailable, types.ApiResponse{Message: err.Error()})
		}
		logger.Error("Failed to parse receipt", err)
		return pc.Send(c, fiber.StatusBadGateway, types.ApiResponse{
			Message: "Failed to parse receipt",
			Data:    fiber.Map{"error": err.Error()},
		})
	}
	return pc.OK(c, "Receipt parsed successfully", suggestion)
}
