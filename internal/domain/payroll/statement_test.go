package payroll

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateStatementPDF(t *testing.T) {
	store := newFakeStore()
	store.saved = []Calculation{{
		ID:             1,
		UserID:         7,
		PayPeriodStart: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		PayPeriodEnd:   time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		TotalHours:     18,
		RegularHours:   8,
		OvertimeHours:  10,
		PayComponents: map[string]*Component{
			"weekend_hours": {Hours: 10, Multiplier: 1.5, Type: ComponentTypeHours},
			"regular_hours": {Hours: 8, Multiplier: 1.0, Type: ComponentTypeRegular},
			"meal":          {Amount: 15.5, Type: ComponentTypeAllowance},
		},
		TotalAllowances: 15.5,
	}}

	dir := t.TempDir()
	service := NewService(store, nil, dir)

	path, err := service.GenerateStatementPDF(context.Background(), 1)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
	require.Contains(t, path, "calculation_1.pdf")
}

func TestGenerateStatementPDFNotFound(t *testing.T) {
	service := NewService(newFakeStore(), nil, t.TempDir())

	_, err := service.GenerateStatementPDF(context.Background(), 404)
	require.ErrorIs(t, err, ErrCalculationNotFound)
}
