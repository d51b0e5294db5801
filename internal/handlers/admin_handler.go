package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/verify360/trustcheck-gateway/internal/dto"
	"github.com/verify360/trustcheck-gateway/internal/services"
	"github.com/verify360/trustcheck-gateway/internal/verify"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) GetCompany(c *fiber.Ctx) error {
	company, err := h.adminService.Company(c.Context(), c.Params("nip"))
	if err != nil {
		return adminError(c, err, "Company not found")
	}
	return c.JSON(company)
}

func (h *AdminHandler) UpdateCompany(c *fiber.Ctx) error {
	var patch dto.CompanyPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.adminService.UpdateCompany(c.Context(), c.Params("nip"), &patch); err != nil {
		return adminError(c, err, "Company not found")
	}
	return c.JSON(fiber.Map{"message": "Saved"})
}

func (h *AdminHandler) GetPerson(c *fiber.Ctx) error {
	id, err := personID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid person ID",
		})
	}

	person, err := h.adminService.Person(c.Context(), id)
	if err != nil {
		return adminError(c, err, "Person not found")
	}
	return c.JSON(person)
}

func (h *AdminHandler) UpdatePerson(c *fiber.Ctx) error {
	id, err := personID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid person ID",
		})
	}

	var patch dto.PersonPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.adminService.UpdatePerson(c.Context(), id, &patch); err != nil {
		return adminError(c, err, "Person not found")
	}
	return c.JSON(fiber.Map{"message": "Saved"})
}

func (h *AdminHandler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.adminService.Companies(c.Context())
	if err != nil {
		return adminError(c, err, "Failed to list companies")
	}
	return c.JSON(companies)
}

func (h *AdminHandler) ListPersons(c *fiber.Ctx) error {
	persons, err := h.adminService.Persons(c.Context())
	if err != nil {
		return adminError(c, err, "Failed to list persons")
	}
	return c.JSON(persons)
}

// LinkPhone handles POST /api/admin/companies/:nip/phones and returns the
// re-fetched company so the editor reflects the new association.
func (h *AdminHandler) LinkPhone(c *fiber.Ctx) error {
	var req dto.LinkPhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	company, err := h.adminService.LinkPhone(c.Context(), c.Params("nip"), req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrMissingPhone) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return adminError(c, err, "Failed to link phone")
	}
	return c.JSON(company)
}

func personID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func adminError(c *fiber.Ctx, err error, notFoundMsg string) error {
	if errors.Is(err, verify.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: notFoundMsg,
		})
	}
	return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
		Error: true, Message: "Verification backend unavailable",
	})
}
