package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreTemplates(t *testing.T) {
	s := NewMemoryStore()
	s.PutTemplate("6eme/s1/ch1.tex", `\documentclass{article}`)

	got, err := s.TemplateText(context.Background(), "6eme/s1/ch1.tex")
	require.NoError(t, err)
	require.Equal(t, `\documentclass{article}`, got)

	_, err = s.TemplateText(context.Background(), "missing.tex")
	require.ErrorContains(t, err, "not found")
}

func TestMemoryStoreArchives(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.ArchivePDF(context.Background(), "jobs/j1.pdf", []byte("%PDF-1.4")))

	pdf, ok := s.ArchivedPDF("jobs/j1.pdf")
	require.True(t, ok)
	require.Equal(t, []byte("%PDF-1.4"), pdf)

	_, err := s.PresignedPDFURL(context.Background(), "jobs/j1.pdf", time.Minute)
	require.Error(t, err)
}
