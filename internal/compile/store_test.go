package compile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveRecordNoopWithoutMongo(t *testing.T) {
	rec := &GenerationRecord{
		JobID:     "job-1",
		Sub:       "user-1",
		Filename:  "6EME_Ch3_Fractions.pdf",
		Strategy:  SyntheticStrategyName,
		Status:    "completed",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, SaveRecord(context.Background(), "", "mathplanner", rec))
}

func TestLoadRecordNoopWithoutMongo(t *testing.T) {
	rec, err := LoadRecord(context.Background(), "", "mathplanner", "job-1")
	require.NoError(t, err)
	require.Nil(t, rec)
}
