package upload

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

const partsKey = "upload_parts"

// Parts holds the staged files accepted for one request, keyed by field name.
type Parts struct {
	files map[string]*StagedFile
	order []string
}

// NewParts returns an empty part set.
func NewParts() *Parts {
	return &Parts{files: make(map[string]*StagedFile)}
}

// Add records a staged file under its field. A field holds at most one file.
func (p *Parts) Add(f *StagedFile) error {
	if _, dup := p.files[f.Field]; dup {
		return fmt.Errorf("field %q already has a staged file", f.Field)
	}
	p.files[f.Field] = f
	p.order = append(p.order, f.Field)
	return nil
}

// Get returns the staged file for field. Absent optional fields are simply missing.
func (p *Parts) Get(field string) (*StagedFile, bool) {
	if p == nil {
		return nil, false
	}
	f, ok := p.files[field]
	return f, ok
}

// Len reports how many files were accepted.
func (p *Parts) Len() int {
	if p == nil {
		return 0
	}
	return len(p.files)
}

// Release deletes every staged file that is still on disk.
func (p *Parts) Release() {
	if p == nil {
		return
	}
	for _, field := range p.order {
		_ = p.files[field].Release()
	}
}

// PartsFromContext returns the parts accepted by Gate. It never returns nil.
func PartsFromContext(c *fiber.Ctx) *Parts {
	if p, ok := c.Locals(partsKey).(*Parts); ok && p != nil {
		return p
	}
	return NewParts()
}

// Gate parses a multipart body against schema and stages each accepted file.
// Undeclared file fields and fields with too many files reject the request
// before anything is staged. Every staged file is released once the rest of
// the chain returns, whatever the outcome.
func Gate(schema *Schema, stager *Stager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parts := NewParts()
		defer parts.Release()
		c.Locals(partsKey, parts)

		if !isMultipart(c) {
			return c.Next()
		}

		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("invalid multipart body", nil)
		}

		for name, files := range form.File {
			rule, ok := schema.Field(name)
			if !ok {
				return apperrors.NewBadRequest(apperrors.CodeUnexpectedField, fmt.Sprintf("unexpected file field %q", name))
			}
			if len(files) > rule.MaxCount {
				return apperrors.NewBadRequest(apperrors.CodeTooManyFiles,
					fmt.Sprintf("field %q accepts at most %d file(s)", name, rule.MaxCount))
			}
		}

		for _, rule := range schema.fields {
			files := form.File[rule.Name]
			if len(files) == 0 {
				continue
			}
			staged, err := stager.Stage(c.UserContext(), rule.Name, files[0])
			if err != nil {
				return apperrors.NewInternalError(fmt.Errorf("stage %s: %w", rule.Name, err))
			}
			if err := parts.Add(staged); err != nil {
				_ = staged.Release()
				return apperrors.NewInternalError(err)
			}
		}

		return c.Next()
	}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm)
}
