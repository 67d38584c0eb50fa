package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mathplanner/mathplanner/internal/ai"
	"github.com/mathplanner/mathplanner/internal/catalog"
	"github.com/mathplanner/mathplanner/internal/compile"
	"github.com/mathplanner/mathplanner/internal/config"
	"github.com/mathplanner/mathplanner/internal/latex"
	"github.com/mathplanner/mathplanner/internal/profile"
	"github.com/mathplanner/mathplanner/internal/storage"
	"github.com/mathplanner/mathplanner/internal/template"
	"github.com/mathplanner/mathplanner/pkg/logger"
	"github.com/mathplanner/mathplanner/pkg/middleware"
)

// UserInfo carries the personalization overrides a request may send; blank
// fields fall back to the stored profile.
type UserInfo struct {
	FullName     string `json:"full_name"`
	SchoolName   string `json:"school_name"`
	AcademicYear string `json:"academic_year"`
}

// GenerateRequest asks for one personalized PDF. The LaTeX source comes
// from the catalog template when TemplateID is set, from LatexContent when
// provided directly, and from the built-in workbook otherwise.
type GenerateRequest struct {
	TemplateID    string   `json:"template_id"`
	LatexContent  string   `json:"latex_content"`
	UserInfo      UserInfo `json:"user_info"`
	LevelName     string   `json:"level_name"`
	Semester      string   `json:"semester"`
	ChapterNumber int      `json:"chapter_number"`
	TemplateName  string   `json:"template_name"`
}

// GenerateResponse is the download contract: base64 PDF bytes plus the
// derived filename.
type GenerateResponse struct {
	Success  bool   `json:"success"`
	PDFData  string `json:"pdf_data,omitempty"`
	Filename string `json:"filename,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	JobID    string `json:"job_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PreviewRequest converts LaTeX to display HTML without touching any
// compiler.
type PreviewRequest struct {
	LatexContent string `json:"latex_content" binding:"required"`
}

// GenerateHandler wires the whole pipeline behind the document routes.
type GenerateHandler struct {
	cfg          *config.Config
	profilesSvc  *profile.Service
	catalogSvc   *catalog.Service
	store        storage.Store
	orchestrator *compile.Orchestrator
	draftsSvc    *ai.Service
}

func NewGenerateHandler(cfg *config.Config, ps *profile.Service, cs *catalog.Service, store storage.Store, orch *compile.Orchestrator, drafts *ai.Service) *GenerateHandler {
	return &GenerateHandler{
		cfg:          cfg,
		profilesSvc:  ps,
		catalogSvc:   cs,
		store:        store,
		orchestrator: orch,
		draftsSvc:    drafts,
	}
}

// Register routes under /documents (authenticated group).
func (h *GenerateHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/documents")
	g.POST("/generate", h.Generate)
	g.POST("/preview", h.Preview)
	g.POST("/draft", h.Draft)
	g.GET("/:job_id/download", h.Download)
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenerateResponse{Error: err.Error()})
		return
	}
	sub := middleware.Subject(c)

	latexSrc, meta, err := h.resolveLatex(c, sub, &req)
	if err != nil {
		c.JSON(http.StatusNotFound, GenerateResponse{Error: err.Error()})
		return
	}

	tctx, err := h.buildContext(c, sub, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, GenerateResponse{Error: "profile lookup failed"})
		return
	}
	if err := tctx.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, GenerateResponse{Error: err.Error()})
		return
	}

	personalized := template.Personalize(latexSrc, tctx)

	result, attempts := h.orchestrator.Compile(c.Request.Context(), personalized, tctx)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, GenerateResponse{Error: result.ErrorMessage})
		return
	}

	jobID := newJobID()
	h.archive(c, jobID, sub, &req, meta, &result)
	logger.Infof("generated %s for %s via %s after %d attempts", result.Filename, sub, result.Strategy, len(attempts))

	c.JSON(http.StatusOK, GenerateResponse{
		Success:  true,
		PDFData:  base64.StdEncoding.EncodeToString(result.PDFBytes),
		Filename: result.Filename,
		Strategy: result.Strategy,
		JobID:    jobID,
	})
}

// resolveLatex picks the LaTeX source for the request. Stored templates are
// trusted as-is; only AI drafts go through validation.
func (h *GenerateHandler) resolveLatex(c *gin.Context, sub string, req *GenerateRequest) (string, *catalog.TemplateMeta, error) {
	if req.TemplateID != "" {
		planID := h.planID(c, sub)
		meta, err := h.catalogSvc.Template(planID, req.TemplateID)
		if err != nil {
			return "", nil, err
		}
		content, err := h.store.TemplateText(c.Request.Context(), meta.FilePath)
		if err != nil {
			return "", nil, err
		}
		if req.TemplateName == "" {
			req.TemplateName = meta.Name
		}
		if req.ChapterNumber == 0 {
			req.ChapterNumber = meta.ChapterNumber
		}
		if req.Semester == "" {
			req.Semester = meta.Semester
		}
		if req.LevelName == "" {
			req.LevelName = h.catalogSvc.LevelName(meta.LevelID)
		}
		return content, meta, nil
	}
	if req.LatexContent != "" {
		return req.LatexContent, nil, nil
	}
	return latex.FallbackTemplate(req.UserInfo.FullName, req.LevelName, req.UserInfo.AcademicYear), nil, nil
}

func (h *GenerateHandler) buildContext(c *gin.Context, sub string, req *GenerateRequest) (template.Context, error) {
	tctx, err := h.profilesSvc.PersonalizationContext(c.Request.Context(), sub, req.LevelName, req.Semester, req.ChapterNumber, req.TemplateName)
	if err != nil {
		return tctx, err
	}
	if req.UserInfo.FullName != "" {
		tctx.FullName = req.UserInfo.FullName
	}
	if req.UserInfo.SchoolName != "" {
		tctx.SchoolName = req.UserInfo.SchoolName
	}
	if req.UserInfo.AcademicYear != "" {
		tctx.AcademicYear = req.UserInfo.AcademicYear
	}
	return tctx, nil
}

// archive stores the PDF and its job metadata. Failures are logged, never
// surfaced: the caller already holds the bytes.
func (h *GenerateHandler) archive(c *gin.Context, jobID, sub string, req *GenerateRequest, meta *catalog.TemplateMeta, result *compile.Result) {
	key := "generated/" + jobID + "/" + result.Filename
	if err := h.store.ArchivePDF(c.Request.Context(), key, result.PDFBytes); err != nil {
		logger.Warnf("archive upload failed for job %s: %v", jobID, err)
		key = ""
	}
	now := time.Now().UTC()
	rec := &compile.GenerationRecord{
		JobID:         jobID,
		Sub:           sub,
		LevelName:     req.LevelName,
		Semester:      req.Semester,
		ChapterNumber: req.ChapterNumber,
		TemplateName:  req.TemplateName,
		Filename:      result.Filename,
		Strategy:      result.Strategy,
		Status:        "completed",
		PDFKey:        key,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if meta != nil && rec.TemplateName == "" {
		rec.TemplateName = meta.Name
	}
	if err := compile.SaveRecord(c.Request.Context(), h.cfg.MongoDB.URI, h.cfg.MongoDB.Database, rec); err != nil {
		logger.Warnf("job metadata save failed for job %s: %v", jobID, err)
	}
}

func (h *GenerateHandler) planID(c *gin.Context, sub string) string {
	if sub == "" {
		return ""
	}
	p, err := h.profilesSvc.GetBySub(c.Request.Context(), sub)
	if err != nil || p == nil {
		return ""
	}
	return p.PlanID
}

// Preview converts LaTeX to display HTML. Validation issues ride along as
// warnings; conversion itself never fails.
func (h *GenerateHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	validation := latex.Validate(req.LatexContent)
	conversion := latex.ToHTML(req.LatexContent)
	c.JSON(http.StatusOK, gin.H{
		"html":      conversion.HTML,
		"hasErrors": conversion.HasErrors || !validation.IsValid,
		"errors":    append(append([]string{}, validation.Errors...), conversion.Errors...),
		"warnings":  validation.Warnings,
	})
}

// Draft produces AI-assisted LaTeX, already sanitized and validated.
func (h *GenerateHandler) Draft(c *gin.Context) {
	var req ai.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Level == "" || req.Chapter < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level and chapter are required"})
		return
	}
	if req.Language == "" {
		req.Language = "fr"
	}
	c.JSON(http.StatusOK, h.draftsSvc.Draft(c.Request.Context(), req))
}

// Download hands out a short-lived URL for a previously archived PDF.
func (h *GenerateHandler) Download(c *gin.Context) {
	jobID := c.Param("job_id")
	rec, err := compile.LoadRecord(c.Request.Context(), h.cfg.MongoDB.URI, h.cfg.MongoDB.Database, jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "job lookup failed"})
		return
	}
	if rec == nil || rec.PDFKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no archived document for this job"})
		return
	}
	if rec.Sub != middleware.Subject(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no archived document for this job"})
		return
	}
	url, err := h.store.PresignedPDFURL(c.Request.Context(), rec.PDFKey, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "filename": rec.Filename})
}

func newJobID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return time.Now().UTC().Format("20060102T150405.000000000")
	}
	return hex.EncodeToString(b)
}
