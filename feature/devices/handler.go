package devices

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"spare-manager/core/logger"
	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/core/storage"
	"spare-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the device registry.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the device routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/devices")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleReplace)
	group.Post("/delete", h.HandleDeleteMany)
	group.Post("/match", h.HandleMatch)
	group.Post("/import/:kind", h.HandleImport)
	group.Get("/export/blacklist", h.HandleExportBlacklist)
	group.Get("/export/library/:model", h.HandleExportLibrary)
	group.Delete("/:materialId", h.HandleDelete)
	group.Post("/:materialId/toggle", h.HandleToggle)
}

// HandleList returns every device.
// @Summary List Devices
// @Tags devices
// @Produce json
// @Success 200 {array} registry.Device "Devices"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	devices, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, "Device listing failed", err)
	}
	return c.JSON(devices)
}

// HandleReplace stores the full device list.
// @Summary Replace Devices
// @Description Upsert every device. Under the single-key scheme, stored ids absent from the list are deleted. An empty list changes nothing.
// @Tags devices
// @Accept json
// @Produce json
// @Param devices body []registry.Device true "Devices"
// @Success 200 {object} map[string]int "Saved count"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices [post]
func (h *Handler) HandleReplace(c *fiber.Ctx) error {
	var devices []registry.Device
	if err := c.BodyParser(&devices); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.service.Replace(c.UserContext(), devices); err != nil {
		return h.fail(c, "Device replacement failed", err)
	}
	return c.JSON(fiber.Map{"saved": len(devices)})
}

// HandleDelete removes every record of a material id.
// @Summary Delete Device
// @Tags devices
// @Param materialId path string true "Material ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices/{materialId} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("materialId")); err != nil {
		return h.fail(c, "Device deletion failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type deleteRequest struct {
	MaterialIDs []any `json:"materialIds"`
}

// HandleDeleteMany removes every record of the given ids.
// @Summary Delete Devices
// @Tags devices
// @Accept json
// @Produce json
// @Param request body deleteRequest true "Material IDs"
// @Success 200 {object} map[string]int "Deleted count"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices/delete [post]
func (h *Handler) HandleDeleteMany(c *fiber.Ctx) error {
	var req deleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Spreadsheet-sourced ids may arrive as numbers.
	ids := make([]string, 0, len(req.MaterialIDs))
	for _, v := range req.MaterialIDs {
		if id := utils.ToString(v); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "materialIds is required"})
	}

	deleted, err := h.service.DeleteMany(c.UserContext(), ids)
	if err != nil {
		return h.fail(c, "Bulk deletion failed", err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// HandleMatch looks (materialId, model) pairs up in the registry.
// @Summary Match Devices
// @Tags devices
// @Accept json
// @Produce json
// @Param pairs body []registry.Pair true "Lookup pairs"
// @Success 200 {object} MatchView "Match result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices/match [post]
func (h *Handler) HandleMatch(c *fiber.Ctx) error {
	var pairs []registry.Pair
	if err := c.BodyParser(&pairs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	view, err := h.service.Match(c.UserContext(), pairs)
	if err != nil {
		return h.fail(c, "Device match failed", err)
	}
	return c.JSON(view)
}

// HandleToggle flips a device between whitelisted and blacklisted.
// @Summary Toggle Device Status
// @Tags devices
// @Produce json
// @Param materialId path string true "Material ID"
// @Param model query string false "Model (composite key scheme)"
// @Success 200 {object} registry.Device "Device"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices/{materialId}/toggle [post]
func (h *Handler) HandleToggle(c *fiber.Ctx) error {
	model := registry.CanonicalModel(c.Query("model"))
	d, err := h.service.Toggle(c.UserContext(), c.Params("materialId"), model)
	if err != nil {
		return h.fail(c, "Device toggle failed", err)
	}
	return c.JSON(d)
}

// HandleImport imports a whitelist or blacklist spreadsheet.
// @Summary Import Devices
// @Description Whitelist sheets carry a header row; blacklist sheets are two headerless columns (material id, description). Existing identities are skipped.
// @Tags devices
// @Accept mpfd
// @Produce json
// @Param kind path string true "whitelist or blacklist"
// @Param file formData file true "Spreadsheet (xlsx)"
// @Success 200 {object} ImportResult "Import summary"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices/import/{kind} [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	kind := c.Params("kind")
	if kind != "whitelist" && kind != "blacklist" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("unknown import kind %q", kind)})
	}

	grid, err := uploadedSheet(c, "file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var result ImportResult
	if kind == "whitelist" {
		result, err = h.service.ImportWhitelist(c.UserContext(), grid)
	} else {
		result, err = h.service.ImportBlacklist(c.UserContext(), grid)
	}
	if err != nil {
		return h.fail(c, "Device import failed", err)
	}
	return c.JSON(result)
}

// HandleExportBlacklist downloads the blacklist.
// @Summary Export Blacklist
// @Tags devices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Blacklist"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices/export/blacklist [get]
func (h *Handler) HandleExportBlacklist(c *fiber.Ctx) error {
	data, err := h.service.ExportBlacklist(c.UserContext())
	if err != nil {
		return h.fail(c, "Blacklist export failed", err)
	}
	return sendWorkbook(c, "黑名单.xlsx", data)
}

// HandleExportLibrary downloads the spare library of one model.
// @Summary Export Spare Library
// @Tags devices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param model path string true "Model, or 'all'"
// @Success 200 {file} file "Library"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /devices/export/library/{model} [get]
func (h *Handler) HandleExportLibrary(c *fiber.Ctx) error {
	model := c.Params("model")
	if model == "all" {
		model = ""
	}
	data, err := h.service.ExportLibrary(c.UserContext(), model)
	if err != nil {
		return h.fail(c, "Library export failed", err)
	}
	name := "易损件库.xlsx"
	if model != "" {
		name = registry.CanonicalModel(model) + "-易损件库.xlsx"
	}
	return sendWorkbook(c, name, data)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, registry.ErrInvalidDevice):
		status = fiber.StatusBadRequest
	default:
		logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func uploadedSheet(c *fiber.Ctx, field string) (sheet.Grid, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("file field %q is required", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return sheet.Parse(bytes.NewReader(data))
}

func sendWorkbook(c *fiber.Ctx, name string, data []byte) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, storage.XLSXContentType)
	return c.Send(data)
}
