package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mathplanner/mathplanner/internal/template"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service encapsulates profile business logic.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Register creates a profile with a hashed password. Sub is derived from
// the email when the caller has no external identity provider.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*Profile, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if existing, err := s.repo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("profile for %s already exists", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	p := &Profile{
		Sub:          "local|" + email,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	return s.repo.UpsertBySub(ctx, p)
}

// Authenticate checks email+password and returns the matching profile.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Profile, error) {
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p == nil || p.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// UpsertFromClaims creates or updates a profile from verified OIDC claims.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*Profile, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, nil
	}
	return s.repo.UpsertBySub(ctx, &Profile{Sub: sub, Email: email, FullName: name})
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*Profile, error) {
	return s.repo.GetBySub(ctx, sub)
}

// Update stores the personalization fields a teacher edits on the profile
// screen.
func (s *Service) Update(ctx context.Context, sub, fullName, schoolName, academicYear, planID string) (*Profile, error) {
	existing, err := s.repo.GetBySub(ctx, sub)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing = &Profile{Sub: sub}
	}
	if fullName != "" {
		existing.FullName = fullName
	}
	if schoolName != "" {
		existing.SchoolName = schoolName
	}
	if academicYear != "" {
		existing.AcademicYear = academicYear
	}
	if planID != "" {
		existing.PlanID = planID
	}
	return s.repo.UpsertBySub(ctx, existing)
}

// PersonalizationContext builds the template context for one generation
// request from the stored profile plus the request's selection fields.
func (s *Service) PersonalizationContext(ctx context.Context, sub, levelName, semester string, chapter int, templateName string) (template.Context, error) {
	tctx := template.Context{
		LevelName:      levelName,
		Semester:       semester,
		ChapterNumber:  chapter,
		TemplateName:   templateName,
		GenerationDate: time.Now(),
	}
	p, err := s.repo.GetBySub(ctx, sub)
	if err != nil {
		return tctx, err
	}
	if p != nil {
		tctx.FullName = p.FullName
		tctx.SchoolName = p.SchoolName
		tctx.AcademicYear = p.AcademicYear
	}
	return tctx, nil
}
