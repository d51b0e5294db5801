package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/verify360/trustcheck-gateway/internal/dto"
	"github.com/verify360/trustcheck-gateway/internal/middleware"
	"github.com/verify360/trustcheck-gateway/internal/query"
	"github.com/verify360/trustcheck-gateway/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create handles POST /api/reports - multipart form with the composer
// fields and an optional "screenshot" file. Runs behind SessionRequired, so
// an anonymous submission never reaches this handler, let alone the network.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	sess, err := middleware.GetSession(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	draft, err := parseDraft(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	evidence, cleanup, err := parseEvidence(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if cleanup != nil {
		defer cleanup()
	}

	redirect, err := h.reportService.Submit(c.Context(), sess.RemoteToken, draft, evidence)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingTaxID),
			errors.Is(err, services.ErrMissingIdentifier),
			errors.Is(err, services.ErrInvalidRating),
			errors.Is(err, services.ErrInvalidReason):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Report submission failed. Please try again.",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ReportResponse{Redirect: redirect})
}

func parseDraft(c *fiber.Ctx) (*services.ReportDraft, error) {
	rating, err := strconv.Atoi(c.FormValue("rating", "0"))
	if err != nil {
		return nil, errors.New("rating must be a number")
	}

	kind := query.TargetKind(c.FormValue("target_type"))
	if kind != query.TargetCompany && kind != query.TargetPerson {
		return nil, errors.New("target_type must be COMPANY or PERSON")
	}

	return &services.ReportDraft{
		TargetKind:   kind,
		TargetValue:  c.FormValue("target_value"),
		ScammerName:  c.FormValue("scammer_name"),
		PhoneNumber:  c.FormValue("phone_number"),
		Email:        c.FormValue("reported_email"),
		FacebookLink: c.FormValue("facebook_link"),
		BankAccount:  c.FormValue("bank_account"),
		Rating:       rating,
		Reason:       c.FormValue("reason"),
		Comment:      c.FormValue("comment"),
	}, nil
}

const maxEvidenceBytes = 10 * 1024 * 1024

var validEvidenceTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/heic": true,
	"image/webp": true,
}

func parseEvidence(c *fiber.Ctx) (*services.EvidenceFile, func(), error) {
	file, err := c.FormFile("screenshot")
	if err != nil {
		// Screenshots are optional; no file is not an error.
		return nil, nil, nil
	}

	if file.Size > maxEvidenceBytes {
		return nil, nil, errors.New("screenshot must be smaller than 10MB")
	}

	contentType := file.Header.Get("Content-Type")
	if !validEvidenceTypes[contentType] {
		return nil, nil, errors.New("screenshot must be a JPEG, PNG, HEIC, or WebP image")
	}

	src, err := file.Open()
	if err != nil {
		return nil, nil, errors.New("failed to read screenshot")
	}

	return &services.EvidenceFile{
		Name:        file.Filename,
		ContentType: contentType,
		Reader:      src,
	}, func() { src.Close() }, nil
}
