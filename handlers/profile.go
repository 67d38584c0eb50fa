package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathplanner/mathplanner/internal/profile"
	"github.com/mathplanner/mathplanner/pkg/middleware"
)

// ProfileHandler exposes the personalization fields a teacher edits.
type ProfileHandler struct {
	profilesSvc *profile.Service
}

func NewProfileHandler(p *profile.Service) *ProfileHandler {
	return &ProfileHandler{profilesSvc: p}
}

// Register routes under /profile (authenticated group).
func (h *ProfileHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Get)
	rg.PUT("/profile", h.Update)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	sub := middleware.Subject(c)
	if sub == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no subject in token"})
		return
	}
	p, err := h.profilesSvc.GetBySub(c.Request.Context(), sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	sub := middleware.Subject(c)
	if sub == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no subject in token"})
		return
	}
	var req struct {
		FullName     string `json:"full_name"`
		SchoolName   string `json:"school_name"`
		AcademicYear string `json:"academic_year"`
		PlanID       string `json:"plan_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.profilesSvc.Update(c.Request.Context(), sub, req.FullName, req.SchoolName, req.AcademicYear, req.PlanID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile update failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}
