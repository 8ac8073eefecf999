package report

import (
	"time"

	"rental-booking/apperror"
	"rental-booking/controllers/base"
	"rental-booking/logger"
	reportService "rental-booking/services/reports"
	"rental-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	base.Controller
	Reports *reportService.Service
}

func NewReportController(reports *reportService.Service, asyncLogger *logger.AsyncLogger) *ReportController {
	return &ReportController{Controller: base.New(asyncLogger), Reports: reports}
}

// Revenue reports ?month=YYYY-MM, defaulting to the current month
func (rc *ReportController) Revenue(c *fiber.Ctx) error {
	month := time.Now().In(rc.Reports.Location)
	if raw := c.Query("month"); raw != "" {
		parsed, err := utils.ParseMonth(raw)
		if err != nil {
			return rc.Fail(c, "Invalid month", &apperror.ValidationError{Field: "month", Reason: err.Error()})
		}
		month = parsed
	}
	report, err := rc.Reports.MonthlyRevenue(c.UserContext(), month)
	if err != nil {
		return rc.Fail(c, "Failed to build revenue report", err)
	}
	return rc.OK(c, "Revenue report generated", report)
}

func (rc *ReportController) Outstanding(c *fiber.Ctx) error {
	rows, err := rc.Reports.OutstandingBalances(c.UserContext())
	if err != nil {
		return rc.Fail(c, "Failed to list outstanding balances", err)
	}
	return rc.OK(c, "Outstanding balances fetched successfully", rows)
}
