package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical/pdf-content-extractor/internal/config"
)

func TestKeywordDetector_Default(t *testing.T) {
	d := NewKeywordDetector(config.DefaultFigureKeywords)

	tests := []struct {
		text string
		want bool
	}{
		{"Figure 3 shows the exhaust routing", true},
		{"see FIG. 2 for details", true},
		{"Bar chart of quarterly sales", true},
		{"The graph below compares trims", true},
		{"Wiring DIAGRAM", true},
		{"Paragraph about photography", true}, // "graph" is a substring match
		{"edit the config file", false},       // "fig" without the dot
		{"Plain specification table", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, d.LooksLikeFigure(tt.text))
		})
	}
}

func TestKeywordDetector_NormalizesKeywords(t *testing.T) {
	d := NewKeywordDetector([]string{"  Schematic ", "", "   "})

	assert.True(t, d.LooksLikeFigure("see the schematic"))
	assert.False(t, d.LooksLikeFigure("nothing relevant"))
}

func TestKeywordDetector_NoKeywords(t *testing.T) {
	assert.False(t, NewKeywordDetector(nil).LooksLikeFigure("Figure 1"))
}
