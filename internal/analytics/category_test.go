package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyExpense(t *testing.T) {
	tests := map[string]ExpenseCategory{
		"fertilization":   CategoryFertilization,
		"FERTILIZATION":   CategoryFertilization,
		" Spraying ":      CategorySpraying,
		"Irrigation":      CategoryIrrigation,
		"":                CategoryOther,
		"pruning":         CategoryOther,
		"fertilization 2": CategoryOther,
	}

	for label, want := range tests {
		assert.Equal(t, want, ClassifyExpense(label), label)
	}
}

func TestParseViewType(t *testing.T) {
	for raw, want := range map[string]ViewType{"": ViewBoth, "both": ViewBoth, "Expenses": ViewExpenses, "PROFITS": ViewProfits} {
		got, err := ParseViewType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseViewType("losses")
	assert.ErrorIs(t, err, ErrInvalidViewType)
}
