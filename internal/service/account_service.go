package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/job-portal/internal/auth"
	"github.com/spec-kit/job-portal/internal/domain"
	"github.com/spec-kit/job-portal/internal/events"
	"github.com/spec-kit/job-portal/internal/repository"
	"github.com/spec-kit/job-portal/internal/upload"
	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

// RegisterInput carries the text fields of a registration form.
type RegisterInput struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Password    string
	Adharcard   string
	Pancard     string
	Role        string
}

// ProfileInput carries the optional text fields of a profile update. Empty
// values leave the stored field unchanged.
type ProfileInput struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      string
}

// Session is the result of a successful login.
type Session struct {
	User   *domain.User
	Token  string
	Claims domain.SessionClaims
}

// AccountDependencies bundles the collaborators of AccountService.
type AccountDependencies struct {
	Users      repository.UserRepository
	Tokens     *auth.TokenManager
	Relocator  Relocator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

// AccountService owns registration, login and profile updates.
type AccountService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	relocator  Relocator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:      deps.Users,
		tokens:     deps.Tokens,
		relocator:  deps.Relocator,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: deps.BcryptCost,
	}
}

var duplicateMessages = map[string]string{
	repository.UserFieldEmail:     "Email already exists",
	repository.UserFieldAdharcard: "Aadhar number already exists",
	repository.UserFieldPancard:   "PAN number already exists",
}

// Register creates an account. The upload required for the role is relocated
// before the user row is written; if relocation fails nothing is written.
func (s *AccountService) Register(ctx context.Context, in RegisterInput, parts *upload.Parts) (*domain.User, error) {
	if missing := missingFields(map[string]string{
		"fullname":    in.Fullname,
		"email":       in.Email,
		"phoneNumber": in.PhoneNumber,
		"password":    in.Password,
		"adharcard":   in.Adharcard,
		"pancard":     in.Pancard,
		"role":        in.Role,
	}); len(missing) > 0 {
		return nil, apperrors.NewValidationError("Missing required fields", map[string]any{"fields": missing})
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid role", map[string]any{"role": in.Role})
	}

	// Fast path only; the unique constraints decide.
	for _, check := range []struct{ field, value string }{
		{repository.UserFieldEmail, in.Email},
		{repository.UserFieldAdharcard, in.Adharcard},
		{repository.UserFieldPancard, in.Pancard},
	} {
		exists, err := s.users.ExistsBy(ctx, check.field, check.value)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if exists {
			return nil, apperrors.NewConflict(duplicateMessages[check.field], map[string]any{"field": check.field})
		}
	}

	if err := upload.RegistrationSchema.CheckRequired(parts, role); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid password", nil)
	}

	user := &domain.User{
		Fullname:     in.Fullname,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		Adharcard:    in.Adharcard,
		Pancard:      in.Pancard,
		PasswordHash: hash,
		Role:         role,
		Profile:      domain.UserProfile{Skills: []string{}},
	}

	var assets []relocatedAsset
	for _, rule := range upload.RegistrationSchema.Fields() {
		if !rule.RequiredFor(role) {
			continue
		}
		asset, ok, err := relocateField(ctx, s.relocator, parts, rule.Name)
		if err != nil {
			logOrphans(s.logger, in.Email, assets, err)
			return nil, err
		}
		if ok {
			applyProfileAsset(&user.Profile, asset)
			assets = append(assets, asset)
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		logOrphans(s.logger, in.Email, assets, err)
		return nil, userWriteError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", role.String()))
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  role.String(),
	}))
	publishAssets(ctx, s.dispatcher, s.logger, user.ID, assets)
	return user, nil
}

// Login checks credentials and the declared role and issues a session token.
func (s *AccountService) Login(ctx context.Context, email, password, role string) (*Session, error) {
	if email == "" || password == "" || role == "" {
		return nil, apperrors.NewValidationError("Missing required fields", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewDomainError(apperrors.CodeNotFound, "Incorrect email or password", http.StatusNotFound, nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewValidationError("Incorrect email or password", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if declared, err := domain.ParseRole(role); err != nil || declared != user.Role {
		return nil, apperrors.NewForbidden("Role mismatch")
	}

	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, Claims: claims}, nil
}

// UpdateProfile applies the non-empty text fields and relocates any uploaded
// resume or profile photo, then writes the user once.
func (s *AccountService) UpdateProfile(ctx context.Context, subjectID string, in ProfileInput, parts *upload.Parts) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	var changed []string
	set := func(name, value string, dst *string) {
		if value != "" {
			*dst = value
			changed = append(changed, name)
		}
	}
	set("fullname", in.Fullname, &user.Fullname)
	set("email", in.Email, &user.Email)
	set("phoneNumber", in.PhoneNumber, &user.PhoneNumber)
	set("bio", in.Bio, &user.Profile.Bio)
	if in.Skills != "" {
		user.Profile.Skills = splitSkills(in.Skills)
		changed = append(changed, "skills")
	}

	var assets []relocatedAsset
	for _, rule := range upload.ProfileSchema.Fields() {
		asset, ok, err := relocateField(ctx, s.relocator, parts, rule.Name)
		if err != nil {
			logOrphans(s.logger, user.ID, assets, err)
			return nil, err
		}
		if ok {
			applyProfileAsset(&user.Profile, asset)
			assets = append(assets, asset)
			changed = append(changed, asset.Field)
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		logOrphans(s.logger, user.ID, assets, err)
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, userWriteError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventProfileUpdated, user.ID, events.ProfileUpdatedPayload{Fields: changed}))
	publishAssets(ctx, s.dispatcher, s.logger, user.ID, assets)
	return user, nil
}

func applyProfileAsset(p *domain.UserProfile, a relocatedAsset) {
	switch a.Field {
	case upload.FieldProfilePhoto:
		p.ProfilePhoto = a.Asset.SecureURL
	case upload.FieldResume:
		p.Resume = a.Asset.SecureURL
		p.ResumeOriginalName = a.Asset.OriginalFilename
	}
}

func userWriteError(err error) error {
	var dup *repository.DuplicateError
	if errors.As(err, &dup) {
		msg, ok := duplicateMessages[dup.Field]
		if !ok {
			msg = "Record already exists"
		}
		return apperrors.NewConflict(msg, map[string]any{"field": dup.Field})
	}
	return apperrors.NewInternalError(err)
}

func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// missingFields returns the names of empty values in sorted order.
func missingFields(fields map[string]string) []string {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
