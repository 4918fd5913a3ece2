package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/job-portal/internal/domain"
	"github.com/spec-kit/job-portal/internal/repository"
	"github.com/spec-kit/job-portal/internal/storage"
	"github.com/spec-kit/job-portal/internal/upload"
)

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	seq       int
	createErr error
	updateErr error
	creates   int
	updates   int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*domain.User{}}
}

func (r *fakeUsers) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return &repository.DuplicateError{Field: repository.UserFieldEmail}
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUsers) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUsers) ExistsBy(_ context.Context, field, value string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		switch field {
		case repository.UserFieldEmail:
			if u.Email == value {
				return true, nil
			}
		case repository.UserFieldAdharcard:
			if u.Adharcard == value {
				return true, nil
			}
		case repository.UserFieldPancard:
			if u.Pancard == value {
				return true, nil
			}
		default:
			return false, repository.ErrUnknownField
		}
	}
	return false, nil
}

func (r *fakeUsers) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type fakeCompanies struct {
	mu        sync.Mutex
	byID      map[string]*domain.Company
	seq       int
	createErr error
	writes    int
}

func newFakeCompanies() *fakeCompanies {
	return &fakeCompanies{byID: map[string]*domain.Company{}}
}

func (r *fakeCompanies) Create(_ context.Context, c *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	c.ID = fmt.Sprintf("company-%d", r.seq)
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *fakeCompanies) Update(_ context.Context, c *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if _, ok := r.byID[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *fakeCompanies) GetByID(_ context.Context, id string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompanies) GetByName(_ context.Context, name string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// fakeStore records uploads; the relocator under test is the real one.
type fakeStore struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (s *fakeStore) Upload(_ context.Context, dataURI string) (storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, dataURI)
	if s.err != nil {
		return storage.UploadResult{}, s.err
	}
	return storage.UploadResult{SecureURL: fmt.Sprintf("https://cdn.test/asset-%d", len(s.uploads))}, nil
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

var errStoreDown = errors.New("store unreachable")

// stagedParts stages the given field->content pairs and returns them as Parts.
func stagedParts(stager *upload.Stager, files map[string]string) (*upload.Parts, []*upload.StagedFile, error) {
	parts := upload.NewParts()
	var staged []*upload.StagedFile
	for field, content := range files {
		name := "file.png"
		if field == upload.FieldResume {
			name = "cv.pdf"
		}
		f, err := stager.StageReader(context.Background(), field, name, strings.NewReader(content))
		if err != nil {
			return nil, nil, err
		}
		if err := parts.Add(f); err != nil {
			return nil, nil, err
		}
		staged = append(staged, f)
	}
	return parts, staged, nil
}
