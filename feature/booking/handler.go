package booking

import (
	"errors"

	"booking-sync/core/lock"
	"booking-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for booking synchronization.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the booking routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/booking")
	group.Get("/reservations/:master", h.HandleGetReservation)
	group.Get("/parked", h.HandleListParked)
	group.Post("/sync/:account", h.HandleSync)
}

// HandleGetReservation returns one reservation with its calendar events.
func (h *Handler) HandleGetReservation(c *fiber.Ctx) error {
	master := c.Params("master")
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.GetReservation(c.Context(), master)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Reservation lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(res)
}

// HandleListParked lists records parked for operator review.
func (h *Handler) HandleListParked(c *fiber.Ctx) error {
	account := c.Query("account")
	if account == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "account is required"})
	}
	l := logger.WithRayID(h.service.logger, c)

	parked, err := h.service.ListParked(c.Context(), account, c.QueryInt("limit", 100))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Listing parked records failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"account": account,
		"parked":  parked,
	})
}

// HandleSync pulls and applies the pending exports of an account.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	account := c.Params("account")
	dryRun := c.QueryBool("dry_run", false)
	l := logger.WithRayID(h.service.logger, c).With(zap.String("account", account))
	l.Info("Triggering feed sync", zap.Bool("dry_run", dryRun))

	reports, err := h.service.SyncFeed(c.Context(), account, dryRun)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, ErrAccountNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, lock.ErrLocked):
			status = fiber.StatusConflict
		default:
			l.Error("Feed sync failed", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{
			"error":   err.Error(),
			"applied": reports,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "synced",
		"dry_run": dryRun,
		"applied": reports,
	})
}
