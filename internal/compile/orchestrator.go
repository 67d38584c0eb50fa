package compile

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/mathplanner/mathplanner/internal/config"
	"github.com/mathplanner/mathplanner/internal/latex"
	"github.com/mathplanner/mathplanner/internal/template"
	"github.com/mathplanner/mathplanner/pkg/logger"
	"github.com/mathplanner/mathplanner/pkg/metrics"
)

// SyntheticStrategyName is the name recorded when the built-in writer
// produced the final document.
const SyntheticStrategyName = "synthetic"

// Result is the externally visible outcome of one compilation request.
// Success implies PDFBytes is non-empty and begins with %PDF.
type Result struct {
	Success      bool   `json:"success"`
	PDFBytes     []byte `json:"-"`
	Filename     string `json:"filename,omitempty"`
	Strategy     string `json:"strategy,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

// Attempt records one strategy try; kept for diagnostics only.
type Attempt struct {
	StrategyName string
	StartedAt    time.Time
	Err          error
}

// Orchestrator runs the compilation cascade: every configured external
// endpoint exactly once, in order, then the synthetic writer. Strategies
// execute strictly sequentially within a request; the first success
// short-circuits the rest.
type Orchestrator struct {
	strategies []Strategy
	synthetic  *SyntheticWriter
}

// NewOrchestrator builds the cascade from the configured endpoints.
// An empty endpoint list is valid: every request then goes straight to the
// synthetic writer.
func NewOrchestrator(endpoints []config.CompilerEndpoint) *Orchestrator {
	o := &Orchestrator{synthetic: &SyntheticWriter{}}
	for _, ep := range endpoints {
		o.strategies = append(o.strategies, NewStrategy(ep))
	}
	return o
}

// NewOrchestratorWithStrategies is used by tests and callers that assemble
// their own strategy list.
func NewOrchestratorWithStrategies(strategies []Strategy, synthetic *SyntheticWriter) *Orchestrator {
	if synthetic == nil {
		synthetic = &SyntheticWriter{}
	}
	return &Orchestrator{strategies: strategies, synthetic: synthetic}
}

// Compile runs the cascade for one personalized document. Endpoint failures
// are absorbed and logged; the only failure this returns is a synthetic
// writer producing invalid bytes, which is a programming defect.
func (o *Orchestrator) Compile(ctx context.Context, latexSrc string, tctx template.Context) (Result, []Attempt) {
	var attempts []Attempt

	for _, st := range o.strategies {
		att := Attempt{StrategyName: st.Name, StartedAt: time.Now()}
		pdf, err := o.tryStrategy(ctx, st, latexSrc)
		att.Err = err
		attempts = append(attempts, att)
		if err != nil {
			logger.Warnf("compiler %s failed, advancing: %v", st.Name, err)
			continue
		}
		metrics.DocumentsGenerated.WithLabelValues(st.Name).Inc()
		return Result{Success: true, PDFBytes: pdf, Filename: Filename(tctx), Strategy: st.Name}, attempts
	}

	// terminal fallback: build the document ourselves from the extractable
	// content of the personalized LaTeX
	att := Attempt{StrategyName: SyntheticStrategyName, StartedAt: time.Now()}
	ex := latex.Extract(latexSrc)
	pdf := o.synthetic.Write(tctx, ex.Sections, ex.ItemLines)
	if !IsPDF(pdf) {
		att.Err = fmt.Errorf("synthetic writer produced invalid bytes")
		attempts = append(attempts, att)
		metrics.CompileAttempts.WithLabelValues(SyntheticStrategyName, "failure").Inc()
		return Result{Success: false, ErrorMessage: "document generation failed"}, attempts
	}
	attempts = append(attempts, att)
	metrics.CompileAttempts.WithLabelValues(SyntheticStrategyName, "success").Inc()
	metrics.DocumentsGenerated.WithLabelValues(SyntheticStrategyName).Inc()
	return Result{Success: true, PDFBytes: pdf, Filename: Filename(tctx), Strategy: SyntheticStrategyName}, attempts
}

// tryStrategy isolates one attempt: panics and errors both surface as a
// failed attempt, never cross the component boundary.
func (o *Orchestrator) tryStrategy(ctx context.Context, st Strategy, latexSrc string) (pdf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", st.Name, r)
		}
	}()
	start := time.Now()
	pdf, err = st.Invoke(ctx, latexSrc)
	metrics.CompileDuration.WithLabelValues(st.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompileAttempts.WithLabelValues(st.Name, "failure").Inc()
		return nil, err
	}
	if !IsPDF(pdf) {
		metrics.CompileAttempts.WithLabelValues(st.Name, "failure").Inc()
		return nil, fmt.Errorf("strategy %s returned non-PDF payload", st.Name)
	}
	metrics.CompileAttempts.WithLabelValues(st.Name, "success").Inc()
	return pdf, nil
}

var filenameSafeRe = regexp.MustCompile(`[^A-Za-z0-9]`)

// Filename derives the download name: {level}_Ch{N}_{template}.pdf with
// every character outside [A-Za-z0-9] replaced by an underscore.
func Filename(tctx template.Context) string {
	level := filenameSafeRe.ReplaceAllString(tctx.LevelName, "_")
	name := filenameSafeRe.ReplaceAllString(tctx.TemplateName, "_")
	return fmt.Sprintf("%s_Ch%d_%s.pdf", level, tctx.ChapterNumber, name)
}
