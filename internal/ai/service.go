package ai

import (
	"context"
	"strings"

	"github.com/mathplanner/mathplanner/internal/latex"
	"github.com/mathplanner/mathplanner/pkg/logger"
	"github.com/mathplanner/mathplanner/pkg/metrics"
)

// DraftResult is the outcome of one draft request after cleanup. Success is
// always true: a rejected or failed draft degrades to the built-in template
// and is flagged through Fallback and Warnings.
type DraftResult struct {
	Success      bool     `json:"success"`
	LatexContent string   `json:"latexContent"`
	Fallback     bool     `json:"fallback"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Service wraps a DraftClient with the mandatory sanitize and validate
// steps. Raw model output never leaves this package.
type Service struct {
	client DraftClient
}

func NewService(client DraftClient) *Service {
	if client == nil {
		client = Unavailable{}
	}
	return &Service{client: client}
}

// Available reports whether a real drafting backend is configured.
func (s *Service) Available() bool {
	_, ok := s.client.(Unavailable)
	return !ok
}

// Draft produces validated LaTeX for the request. Structural errors in the
// model output reject the draft; callers get the known good workbook
// template instead, never the raw draft.
func (s *Service) Draft(ctx context.Context, req DraftRequest) DraftResult {
	raw, err := s.client.Draft(ctx, req)
	if err != nil {
		if err != ErrUnavailable {
			logger.Warnf("ai draft failed for level %s chapter %d: %v", req.Level, req.Chapter, err)
		}
		metrics.AIDrafts.WithLabelValues("unavailable").Inc()
		return s.fallbackResult(req, "Le service de redaction est indisponible, modele de base utilise.")
	}

	cleaned := latex.Sanitize(raw)
	res := latex.Validate(cleaned)
	if !res.IsValid {
		logger.Warnf("ai draft rejected for level %s chapter %d: %s", req.Level, req.Chapter, strings.Join(res.Errors, "; "))
		metrics.AIDrafts.WithLabelValues("rejected").Inc()
		return s.fallbackResult(req, "Le contenu genere etait invalide, modele de base utilise.")
	}

	metrics.AIDrafts.WithLabelValues("accepted").Inc()
	return DraftResult{Success: true, LatexContent: res.CleanedContent, Warnings: res.Warnings}
}

func (s *Service) fallbackResult(req DraftRequest, warning string) DraftResult {
	return DraftResult{
		Success:      true,
		LatexContent: latex.FallbackTemplate("", req.Level, ""),
		Fallback:     true,
		Warnings:     []string{warning},
	}
}
