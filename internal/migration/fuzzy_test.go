package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"equipos-backend/internal/config"
	"equipos-backend/internal/migration"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abcd", "bcde", 0.75},
		{"tide", "diet", 0.25},
		{"diet", "tide", 0.5},
		{"retropala", "retropala", 1},
		{"", "abc", 0},
		{"abc", "", 0},
		{"abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, migration.Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("Accents, case and punctuation", func(t *testing.T) {
		assert.Equal(t, "camion volteo 2", migration.Normalize("  Camión-VOLTEO #2 ", nil))
	})

	t.Run("Synonyms apply in order", func(t *testing.T) {
		assert.Equal(t, "retropala", migration.Normalize("Retro", config.DefaultSynonyms))
		assert.Equal(t, "excavadora caterpillar", migration.Normalize("Exc CAT", config.DefaultSynonyms))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", migration.Normalize("", config.DefaultSynonyms))
	})
}

func TestScore(t *testing.T) {
	t.Run("Best direction wins", func(t *testing.T) {
		assert.InDelta(t, 0.5, migration.Score("tide", "diet"), 1e-9)
		assert.InDelta(t, 0.5, migration.Score("diet", "tide"), 1e-9)
	})

	t.Run("Contained name scores at least 0.95", func(t *testing.T) {
		assert.InDelta(t, 0.95, migration.Score("reparacion retropala 416 frenos", "retropala 416"), 1e-9)
	})

	t.Run("Identical", func(t *testing.T) {
		assert.Equal(t, 1.0, migration.Score("retropala", "retropala"))
	})
}
