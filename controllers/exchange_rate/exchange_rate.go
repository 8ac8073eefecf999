package exchange_rate

import (
	"fmt"

	"rental-booking/controllers/base"
	"rental-booking/logger"
	rateService "rental-booking/services/exchange_rate"
	rateTypes "rental-booking/types/exchange_rate"

	"github.com/gofiber/fiber/v2"
)

type ExchangeRateController struct {
	base.Controller
	Rates *rateService.Service
}

func NewExchangeRateController(rates *rateService.Service, asyncLogger *logger.AsyncLogger) *ExchangeRateController {
	return &ExchangeRateController{Controller: base.New(asyncLogger), Rates: rates}
}

func (ec *ExchangeRateController) Store(c *fiber.Ctx) error {
	var req rateTypes.RateSetRequest
	if err := ec.Parse(c, &req); err != nil {
		return ec.Fail(c, "Invalid request body", err)
	}
	from, err := req.From()
	if err != nil {
		return ec.Fail(c, "Invalid request body", err)
	}
	_, actor, ok := ec.Agent(c)
	if !ok {
		return ec.Unauthorized(c)
	}
	row, err := ec.Rates.Set(c.UserContext(), req.Rate, from, actor)
	if err != nil {
		return ec.Fail(c, "Failed to save exchange rate", err)
	}
	logger.Success(fmt.Sprintf("Exchange rate set to %s CDF/USD by %s", row.Rate, actor))
	return ec.Created(c, "Exchange rate saved", row)
}

func (ec *ExchangeRateController) Current(c *fiber.Ctx) error {
	row, err := ec.Rates.Current(c.UserContext())
	if err != nil {
		return ec.Fail(c, "Failed to load exchange rate", err)
	}
	return ec.OK(c, "Exchange rate fetched successfully", row)
}
