package inspection

import (
	"errors"
	"fmt"
	"io"
	"time"

	"spare-manager/core/logger"
	"spare-manager/core/storage"
	"spare-manager/feature/inspection/reconcile"
	"spare-manager/feature/inspection/source"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for inspection runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inspection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Post("/", h.HandleCreateRun)
	group.Get("/:id", h.HandleGetRun)
	group.Post("/:id/confirm", h.HandleConfirmRun)
	group.Get("/:id/report", h.HandleGetReport)
	group.Delete("/:id", h.HandleDeleteRun)
}

// HandleCreateRun processes the uploaded spreadsheets.
// @Summary Create Inspection Run
// @Description Classify uploaded spreadsheets against the device registry and open a run for the unknown devices.
// @Tags inspection
// @Accept mpfd
// @Produce json
// @Param files formData file true "Spreadsheets (xlsx)"
// @Success 201 {object} View "Run"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs [post]
func (h *Handler) HandleCreateRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	files, err := uploadedFiles(c, "files")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	run, err := h.service.Process(c.UserContext(), files)
	if err != nil {
		l.Error("Inspection run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(run.View())
}

// HandleGetRun returns a run.
// @Summary Get Inspection Run
// @Tags inspection
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} View "Run"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	run, err := h.service.Get(c.Params("id"))
	if err != nil {
		return runError(c, err)
	}
	return c.JSON(run.View())
}

// HandleConfirmRun applies one decision per pending candidate.
// @Summary Confirm Inspection Run
// @Description Resolve every unknown device of the run, in order. Vulnerable decisions are whitelisted, the others blacklisted.
// @Tags inspection
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Param decisions body []reconcile.Decision true "Decisions"
// @Success 200 {object} View "Run"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]any "Validation Error"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs/{id}/confirm [post]
func (h *Handler) HandleConfirmRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var decisions []reconcile.Decision
	if err := c.BodyParser(&decisions); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	run, err := h.service.Confirm(c.UserContext(), c.Params("id"), decisions)
	if err != nil {
		var verr *reconcile.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   verr.Error(),
				"row":     verr.Row,
				"erpCode": verr.ErpCode,
				"field":   verr.Field,
			})
		case errors.Is(err, reconcile.ErrDecisionCount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrRunNotFound):
			return runError(c, err)
		}
		logger.WithRun(l, c.Params("id")).Error("Run confirmation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(run.View())
}

// HandleGetReport downloads the vulnerable parts report.
// @Summary Download Report
// @Tags inspection
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Run ID"
// @Success 200 {file} file "Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs/{id}/report [get]
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	data, err := h.service.Report(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			return runError(c, err)
		}
		logger.WithRayID(h.service.logger, c).Error("Report export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return sendWorkbook(c, fmt.Sprintf("%s-%s.xlsx", h.service.cfg.ReportTitle, time.Now().Format("20060102")), data)
}

// HandleDeleteRun drops a run.
// @Summary Delete Inspection Run
// @Tags inspection
// @Param id path string true "Run ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /runs/{id} [delete]
func (h *Handler) HandleDeleteRun(c *fiber.Ctx) error {
	if err := h.service.Discard(c.Params("id")); err != nil {
		return runError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func runError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrRunNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func uploadedFiles(c *fiber.Ctx, field string) ([]source.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("multipart form required: %w", err)
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, fmt.Errorf("no files in field %q", field)
	}

	files := make([]source.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		files = append(files, source.MemoryFile{FileName: fh.Filename, Data: data})
	}
	return files, nil
}

func sendWorkbook(c *fiber.Ctx, name string, data []byte) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, storage.XLSXContentType)
	return c.Send(data)
}
