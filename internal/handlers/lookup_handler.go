package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/verify360/trustcheck-gateway/internal/dto"
	"github.com/verify360/trustcheck-gateway/internal/services"
	"github.com/verify360/trustcheck-gateway/internal/verify"
)

type LookupHandler struct {
	lookupService *services.LookupService
	reportService *services.ReportService
}

func NewLookupHandler(lookupService *services.LookupService, reportService *services.ReportService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService, reportService: reportService}
}

// Search handles POST /api/search - classifies the query and answers with a
// navigation decision. Unclassifiable input yields no redirect and no
// backend call.
func (h *LookupHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	outcome := h.lookupService.Search(c.Context(), req.Query)
	return c.JSON(dto.SearchResponse{
		DetectedType: outcome.DetectedType,
		Redirect:     outcome.Redirect,
		Status:       outcome.Status,
	})
}

// CompanyView handles GET /api/report/nip/:nip.
func (h *LookupHandler) CompanyView(c *fiber.Ctx) error {
	lookup := h.lookupService.CompanyView(c.Context(), c.Params("nip"))
	return renderLookup(c, lookup)
}

// PhoneView handles GET /api/report/phone/:number.
func (h *LookupHandler) PhoneView(c *fiber.Ctx) error {
	number, err := unescapeParam(c, "number")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid phone number",
		})
	}
	lookup := h.lookupService.PhoneView(c.Context(), number)
	return renderLookup(c, lookup)
}

// Latest handles GET /api/reports/latest. The feed degrades to empty rather
// than erroring; the landing view has nothing useful to do with a failure.
func (h *LookupHandler) Latest(c *fiber.Ctx) error {
	return c.JSON(h.reportService.Latest(c.Context()))
}

func unescapeParam(c *fiber.Ctx, key string) (string, error) {
	return url.PathUnescape(c.Params(key))
}

func renderLookup(c *fiber.Ctx, lookup verify.Lookup) error {
	if lookup.Status != verify.StatusFound {
		// Both not-found and transport errors render the empty state; the
		// status field keeps them distinguishable for the client.
		return c.Status(fiber.StatusNotFound).JSON(lookup)
	}
	return c.JSON(lookup)
}
