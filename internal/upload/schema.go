// Package upload parses multipart requests into staged files according to a
// declared field schema and tracks every staged file until it is released.
package upload

import (
	"fmt"

	"github.com/spec-kit/job-portal/internal/domain"
	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

// Field names accepted by the multipart routes.
const (
	FieldProfilePhoto = "profilePhoto"
	FieldResume       = "resume"
	FieldLogo         = "logo"
)

// Requirement states whether a role must send a field. The zero value means
// the field was never declared for the role and is rejected by NewSchema.
type Requirement int

const (
	Undeclared Requirement = iota
	Optional
	Required
)

// FieldRule declares one multipart file field.
type FieldRule struct {
	Name     string
	MaxCount int
	// MissingMessage is returned to the client when a required field is absent.
	MissingMessage string
	// Rules is indexed by domain.Role and covers every role.
	Rules [domain.NumRoles]Requirement
}

// RequiredFor reports whether role must upload this field.
func (f FieldRule) RequiredFor(role domain.Role) bool {
	return role.Valid() && f.Rules[role] == Required
}

// Schema is an ordered, read-only set of field rules.
type Schema struct {
	name   string
	fields []FieldRule
}

// NewSchema validates and builds a schema. It panics on a malformed declaration,
// including a field with no rule for some role, since schemas are package-level
// constants.
func NewSchema(name string, fields ...FieldRule) *Schema {
	seen := make(map[string]struct{}, len(fields))
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			panic(fmt.Sprintf("upload schema %s: field %d has no name", name, i))
		}
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("upload schema %s: duplicate field %q", name, f.Name))
		}
		seen[f.Name] = struct{}{}
		if f.MaxCount <= 0 {
			f.MaxCount = 1
		}
		for _, role := range domain.Roles() {
			if r := f.Rules[role]; r != Optional && r != Required {
				panic(fmt.Sprintf("upload schema %s: field %q has no rule for %s", name, f.Name, role))
			}
		}
	}
	return &Schema{name: name, fields: fields}
}

// Name identifies the schema in logs.
func (s *Schema) Name() string { return s.name }

// Fields returns the declared fields in order.
func (s *Schema) Fields() []FieldRule {
	out := make([]FieldRule, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a declared field.
func (s *Schema) Field(name string) (FieldRule, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldRule{}, false
}

// CheckRequired fails with MissingRequiredFile for the first field that role
// must upload but that is absent from parts.
func (s *Schema) CheckRequired(parts *Parts, role domain.Role) error {
	if !role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": role.String()})
	}
	for _, f := range s.fields {
		if !f.RequiredFor(role) {
			continue
		}
		if _, ok := parts.Get(f.Name); !ok {
			return apperrors.NewMissingRequiredFile(f.Name, f.MissingMessage)
		}
	}
	return nil
}

var (
	profilePhotoField = FieldRule{
		Name:           FieldProfilePhoto,
		MaxCount:       1,
		MissingMessage: "Profile photo is required",
	}
	resumeField = FieldRule{
		Name:           FieldResume,
		MaxCount:       1,
		MissingMessage: "Resume is required",
	}
)

// RegistrationSchema: students must send a profile photo, recruiters a resume.
var RegistrationSchema = NewSchema("registration",
	withRules(profilePhotoField, map[domain.Role]Requirement{
		domain.RoleStudent:   Required,
		domain.RoleRecruiter: Optional,
	}),
	withRules(resumeField, map[domain.Role]Requirement{
		domain.RoleStudent:   Optional,
		domain.RoleRecruiter: Required,
	}),
)

// ProfileSchema accepts the same fields as registration, all optional.
var ProfileSchema = NewSchema("profile",
	withRules(profilePhotoField, map[domain.Role]Requirement{
		domain.RoleStudent:   Optional,
		domain.RoleRecruiter: Optional,
	}),
	withRules(resumeField, map[domain.Role]Requirement{
		domain.RoleStudent:   Optional,
		domain.RoleRecruiter: Optional,
	}),
)

// CompanyLogoSchema accepts an optional logo.
var CompanyLogoSchema = NewSchema("company-logo",
	withRules(FieldRule{
		Name:           FieldLogo,
		MaxCount:       1,
		MissingMessage: "Logo is required",
	}, map[domain.Role]Requirement{
		domain.RoleStudent:   Optional,
		domain.RoleRecruiter: Optional,
	}),
)

func withRules(f FieldRule, rules map[domain.Role]Requirement) FieldRule {
	for _, role := range domain.Roles() {
		r, ok := rules[role]
		if !ok || r == Undeclared {
			panic(fmt.Sprintf("upload field %q: no rule for role %s", f.Name, role))
		}
		f.Rules[role] = r
	}
	return f
}
