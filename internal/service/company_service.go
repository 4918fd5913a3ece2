package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/job-portal/internal/domain"
	"github.com/spec-kit/job-portal/internal/events"
	"github.com/spec-kit/job-portal/internal/repository"
	"github.com/spec-kit/job-portal/internal/upload"
	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

// CompanyInput carries company form fields. On update, empty values leave the
// stored field unchanged.
type CompanyInput struct {
	Name        string
	Description string
	Website     string
	Location    string
}

// CompanyService registers and edits companies owned by recruiters.
type CompanyService struct {
	companies  repository.CompanyRepository
	relocator  Relocator
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCompanyService builds the service.
func NewCompanyService(companies repository.CompanyRepository, relocator Relocator, dispatcher events.Dispatcher, logger *zap.Logger) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyService{
		companies:  companies,
		relocator:  relocator,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Register creates a company owned by ownerID with an optional logo.
func (s *CompanyService) Register(ctx context.Context, ownerID string, in CompanyInput, parts *upload.Parts) (*domain.Company, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Company name is required", map[string]any{"field": "name"})
	}

	if _, err := s.companies.GetByName(ctx, name); err == nil {
		return nil, companyExists()
	} else if !repository.IsNotFound(err) {
		return nil, apperrors.NewInternalError(err)
	}

	company := &domain.Company{
		Name:        name,
		Description: in.Description,
		Website:     in.Website,
		Location:    in.Location,
		UserID:      ownerID,
	}

	logo, ok, err := relocateField(ctx, s.relocator, parts, upload.FieldLogo)
	if err != nil {
		return nil, err
	}
	var assets []relocatedAsset
	if ok {
		company.Logo = logo.Asset.SecureURL
		assets = append(assets, logo)
	}

	if err := s.companies.Create(ctx, company); err != nil {
		logOrphans(s.logger, ownerID, assets, err)
		return nil, companyWriteError(err)
	}

	s.logger.Info("company registered", zap.String("company_id", company.ID), zap.String("owner_id", ownerID))
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventCompanyRegistered, ownerID, events.CompanyPayload{
		CompanyID: company.ID,
		Name:      company.Name,
	}))
	publishAssets(ctx, s.dispatcher, s.logger, ownerID, assets)
	return company, nil
}

// Update edits a company. Only the owner may change it; ownership is checked
// before any upload is relocated.
func (s *CompanyService) Update(ctx context.Context, ownerID, companyID string, in CompanyInput, parts *upload.Parts) (*domain.Company, error) {
	company, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.UserID != ownerID {
		return nil, apperrors.NewForbidden("You are not allowed to update this company")
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		company.Name = name
	}
	if in.Description != "" {
		company.Description = in.Description
	}
	if in.Website != "" {
		company.Website = in.Website
	}
	if in.Location != "" {
		company.Location = in.Location
	}

	logo, ok, err := relocateField(ctx, s.relocator, parts, upload.FieldLogo)
	if err != nil {
		return nil, err
	}
	var assets []relocatedAsset
	if ok {
		company.Logo = logo.Asset.SecureURL
		assets = append(assets, logo)
	}

	if err := s.companies.Update(ctx, company); err != nil {
		logOrphans(s.logger, ownerID, assets, err)
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Company", nil)
		}
		return nil, companyWriteError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventCompanyUpdated, ownerID, events.CompanyPayload{
		CompanyID: company.ID,
		Name:      company.Name,
	}))
	publishAssets(ctx, s.dispatcher, s.logger, ownerID, assets)
	return company, nil
}

// Get loads a company by id.
func (s *CompanyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Company", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return company, nil
}

func companyExists() error {
	return apperrors.NewConflict("Company already exists", map[string]any{"field": "name"})
}

func companyWriteError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return companyExists()
	}
	return apperrors.NewInternalError(err)
}
