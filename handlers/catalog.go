package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathplanner/mathplanner/internal/catalog"
	"github.com/mathplanner/mathplanner/internal/profile"
	"github.com/mathplanner/mathplanner/pkg/middleware"
)

// CatalogHandler serves levels and the templates the caller's plan unlocks.
type CatalogHandler struct {
	catalogSvc  *catalog.Service
	profilesSvc *profile.Service
}

func NewCatalogHandler(cs *catalog.Service, ps *profile.Service) *CatalogHandler {
	return &CatalogHandler{catalogSvc: cs, profilesSvc: ps}
}

// Register routes under /catalog (authenticated group).
func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/catalog")
	g.GET("/levels", h.Levels)
	g.GET("/templates", h.Templates)
}

func (h *CatalogHandler) Levels(c *gin.Context) {
	levels, err := h.catalogSvc.Levels()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": levels})
}

func (h *CatalogHandler) Templates(c *gin.Context) {
	levelID := c.Query("level_id")
	semester := c.Query("semester")
	if levelID == "" || semester == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level_id and semester are required"})
		return
	}
	templates, err := h.catalogSvc.TemplatesFor(h.planID(c), levelID, semester)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// planID resolves the caller's subscription plan; unknown callers read as
// the free tier.
func (h *CatalogHandler) planID(c *gin.Context) string {
	sub := middleware.Subject(c)
	if sub == "" {
		return ""
	}
	p, err := h.profilesSvc.GetBySub(c.Request.Context(), sub)
	if err != nil || p == nil {
		return ""
	}
	return p.PlanID
}
