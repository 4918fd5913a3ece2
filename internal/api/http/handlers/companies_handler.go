package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-portal/internal/api/dto"
	"github.com/spec-kit/job-portal/internal/auth"
	"github.com/spec-kit/job-portal/internal/service"
	"github.com/spec-kit/job-portal/internal/upload"
	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

// CompaniesHandler exposes company endpoints. Every route is authenticated.
type CompaniesHandler struct {
	companies *service.CompanyService
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(companies *service.CompanyService) *CompaniesHandler {
	return &CompaniesHandler{companies: companies}
}

// Register handles POST /api/company/register.
func (h *CompaniesHandler) Register(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("no token provided")
	}
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	company, err := h.companies.Register(c.UserContext(), identity.SubjectID, req.Input(), upload.PartsFromContext(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Company registered successfully",
		"company": dto.NewCompanyResponse(company),
	})
}

// Get handles GET /api/company/get/:id.
func (h *CompaniesHandler) Get(c *fiber.Ctx) error {
	company, err := h.companies.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"company": dto.NewCompanyResponse(company),
	})
}

// Update handles PUT /api/company/update/:id.
func (h *CompaniesHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("no token provided")
	}
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	company, err := h.companies.Update(c.UserContext(), identity.SubjectID, c.Params("id"), req.Input(), upload.PartsFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Company updated successfully",
		"company": dto.NewCompanyResponse(company),
	})
}
