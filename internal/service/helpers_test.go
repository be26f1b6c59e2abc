package service

import (
	"testing"
	"time"

	"accessdash/internal/models"
	"accessdash/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC)

func fixedComposer() *query.Composer {
	return &query.Composer{Now: func() time.Time { return fixedNow }}
}

func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }
