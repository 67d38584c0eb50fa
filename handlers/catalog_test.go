package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mathplanner/mathplanner/internal/catalog"
)

func TestCatalogLevels(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerTeacher(t, "marie@example.com", "Marie Dupont", "")

	w := env.do(t, http.MethodGet, "/api/v1/catalog/levels", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Levels []catalog.Level `json:"levels"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Levels, 1)
	require.Equal(t, "6EME", resp.Levels[0].Name)
}

func TestCatalogTemplatesPlanGated(t *testing.T) {
	env := newTestEnv(t)
	freeToken := env.registerTeacher(t, "free@example.com", "Free Teacher", "plan-free")
	paidToken := env.registerTeacher(t, "paid@example.com", "Paid Teacher", "plan-premium")

	path := "/api/v1/catalog/templates?level_id=lvl-6eme&semester=" + catalog.FirstSemester

	w := env.do(t, http.MethodGet, path, freeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var free struct {
		Templates []catalog.TemplateMeta `json:"templates"`
	}
	decodeJSON(t, w, &free)
	require.Len(t, free.Templates, 1)
	require.Equal(t, 1, free.Templates[0].ChapterNumber)

	w = env.do(t, http.MethodGet, path, paidToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var paid struct {
		Templates []catalog.TemplateMeta `json:"templates"`
	}
	decodeJSON(t, w, &paid)
	require.Len(t, paid.Templates, 2)
}

func TestCatalogTemplatesMissingParams(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerTeacher(t, "marie@example.com", "Marie Dupont", "")

	w := env.do(t, http.MethodGet, "/api/v1/catalog/templates?level_id=lvl-6eme", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileGetAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerTeacher(t, "marie@example.com", "Marie Dupont", "")

	w := env.do(t, http.MethodPut, "/api/v1/profile", token, map[string]string{
		"school_name":   "Lycee Descartes",
		"academic_year": "2026-2027",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		FullName   string `json:"full_name"`
		SchoolName string `json:"school_name"`
	}
	decodeJSON(t, w, &resp)
	require.Equal(t, "Marie Dupont", resp.FullName)
	require.Equal(t, "Lycee Descartes", resp.SchoolName)
}
