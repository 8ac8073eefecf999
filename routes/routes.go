package routes

import (
	"rental-booking/constants"
	bookingController "rental-booking/controllers/booking"
	rateController "rental-booking/controllers/exchange_rate"
	paymentController "rental-booking/controllers/payment"
	reportController "rental-booking/controllers/report"
	roomController "rental-booking/controllers/room"
	tenantController "rental-booking/controllers/tenant"
	userController "rental-booking/controllers/user"
	"rental-booking/logger"
	"rental-booking/middleware"
	bookingService "rental-booking/services/booking"
	"rental-booking/services/exchange_rate"
	"rental-booking/services/ledger"
	receiptService "rental-booking/services/receipt_parser"
	"rental-booking/services/reports"
	roomService "rental-booking/services/room"
	tenantService "rental-booking/services/tenant"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Services are the domain services the routes dispatch to.
type Services struct {
	Bookings *bookingService.Service
	Ledger   *ledger.Ledger
	Rates    *exchange_rate.Service
	Rooms    *roomService.Service
	Tenants  *tenantService.Service
	Reports  *reports.Service
	Receipts *receiptService.Service
}

func SetupRoutes(app *fiber.App, db *gorm.DB, svc Services, asyncLogger *logger.AsyncLogger) {
	users := userController.NewUserController(asyncLogger)
	rooms := roomController.NewRoomController(svc.Rooms, svc.Bookings, asyncLogger)
	tenants := tenantController.NewTenantController(svc.Tenants, asyncLogger)
	bookings := bookingController.NewBookingController(svc.Bookings, asyncLogger)
	payments := paymentController.NewPaymentController(svc.Ledger, svc.Rates, svc.Receipts, asyncLogger)
	rates := rateController.NewExchangeRateController(svc.Rates, asyncLogger)
	reportsCtl := reportController.NewReportController(svc.Reports, asyncLogger)

	frontDesk := middleware.RequirePermissions(constants.FrontDeskPermissions...)
	accounting := middleware.RequirePermissions(constants.AccountingPermissions...)
	administration := middleware.RequirePermissions(constants.AdministrationPermissions...)
	anyStaff := middleware.RequirePermissions(append(append([]string{}, constants.FrontDeskPermissions...), constants.PermAccountantFull)...)
	agent := middleware.ResolveAgent(db)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "rental-booking", "status": "ok"})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Profile
	===============================================================================*/
	api.Get("/auth/profile", middleware.RequireAuthentication(), agent, users.Profile)

	/*=============================================================================
	| Rooms
	===============================================================================*/
	roomGroup := api.Group("/rooms")
	roomGroup.Post("/", administration, agent, rooms.Store)
	roomGroup.Get("/", anyStaff, agent, rooms.Index)
	roomGroup.Get("/availability", anyStaff, agent, rooms.Availability)
	roomGroup.Get("/:id/status", anyStaff, agent, rooms.Status)
	roomGroup.Post("/:id/maintenance", administration, agent, rooms.SetMaintenance)
	roomGroup.Delete("/:id/maintenance", administration, agent, rooms.ClearMaintenance)

	/*=============================================================================
	| Tenants
	===============================================================================*/
	tenantGroup := api.Group("/tenants")
	tenantGroup.Post("/", frontDesk, agent, tenants.Store)
	tenantGroup.Get("/selectable", frontDesk, agent, tenants.Selectable)
	tenantGroup.Post("/:id/blacklist", administration, agent, tenants.Blacklist)

	/*=============================================================================
	| Bookings
	===============================================================================*/
	bookingGroup := api.Group("/bookings")
	bookingGroup.Post("/", frontDesk, agent, bookings.Store)
	bookingGroup.Get("/", anyStaff, agent, bookings.Index)
	bookingGroup.Post("/check-conflict", frontDesk, agent, bookings.CheckConflict)
	bookingGroup.Get("/:id", anyStaff, agent, bookings.Show)
	bookingGroup.Post("/:id/check-in", frontDesk, agent, bookings.CheckIn)
	bookingGroup.Post("/:id/departure", frontDesk, agent, bookings.Departure)
	bookingGroup.Post("/:id/extend", frontDesk, agent, bookings.Extend)
	bookingGroup.Post("/:id/cancel", frontDesk, agent, bookings.Cancel)
	bookingGroup.Delete("/:id", administration, agent, bookings.Destroy)

	api.Post("/housekeeping/:id/complete", frontDesk, agent, bookings.CompleteCleaning)

	/*=============================================================================
	| Payments
	===============================================================================*/
	paymentGroup := api.Group("/payments")
	paymentGroup.Post("/", anyStaff, agent, payments.Store)
	paymentGroup.Post("/parse-receipt", anyStaff, agent, payments.ParseReceipt)
	paymentGroup.Put("/:id", accounting, agent, payments.Update)
	paymentGroup.Delete("/:id", accounting, agent, payments.Destroy)

	/*=============================================================================
	| Exchange rates and reports
	===============================================================================*/
	api.Post("/exchange-rates", accounting, agent, rates.Store)
	api.Get("/exchange-rates/current", anyStaff, agent, rates.Current)

	api.Get("/reports/revenue", accounting, agent, reportsCtl.Revenue)
	api.Get("/reports/outstanding", accounting, agent, reportsCtl.Outstanding)
}
