package syncer

import (
	"errors"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/logger"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/directory"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/run/:priority", h.HandleRun)
	group.Post("/test/:id", h.HandleTest)
	group.Get("/integrators", h.HandleListIntegrators)
}

// HandleRun triggers a sync run for one priority class.
// @Summary Run Sync
// @Description Runs a full sync for all enabled integrators of the given priority class. Rejected with 409 while another run is in flight.
// @Tags sync
// @Accept json
// @Produce json
// @Param priority path string true "Priority class (low, medium, high)"
// @Success 200 {object} RunReport "Run Report"
// @Failure 400 {object} map[string]string "Unknown Priority"
// @Failure 409 {object} map[string]string "Run In Progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/run/{priority} [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.log, c)

	priority := c.Params("priority")
	if !directory.IsValidPriority(priority) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown priority class: " + priority,
		})
	}

	l.Info("Sync run requested", zap.String("priority", priority))

	report, err := h.service.Run(c.Context(), priority)
	if errors.Is(err, ErrAlreadyRunning) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Sync run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// HandleTest runs a diagnostic sync for a single integrator.
// @Summary Test Integrator
// @Description Runs a sync for one integrator by id, regardless of its enabled flag.
// @Tags sync
// @Accept json
// @Produce json
// @Param id path int true "Integrator ID"
// @Success 200 {object} RunReport "Run Report"
// @Failure 404 {object} map[string]string "Unknown Integrator"
// @Failure 409 {object} map[string]string "Run In Progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/test/{id} [post]
func (h *Handler) HandleTest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.log, c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid integrator id"})
	}

	l.Info("Diagnostic sync requested", zap.Int("integrator_id", id))

	report, err := h.service.RunOne(c.Context(), uint(id))
	if errors.Is(err, ErrAlreadyRunning) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, directory.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Diagnostic sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// HandleListIntegrators lists the enabled integrators per priority class.
// @Summary List Integrators
// @Description Lists the enabled integrators grouped by priority class.
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} map[string][]directory.Integrator "Integrators"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/integrators [get]
func (h *Handler) HandleListIntegrators(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.log, c)

	byPriority := make(map[string][]directory.Integrator)
	for _, priority := range []string{directory.PriorityLow, directory.PriorityMedium, directory.PriorityHigh} {
		integrators, err := h.service.store.GetIntegrators(c.Context(), priority)
		if err != nil {
			l.Error("Listing integrators failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		byPriority[priority] = integrators
	}

	return c.JSON(byPriority)
}
