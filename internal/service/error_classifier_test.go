package service

import (
	"testing"
	"vocab_drill_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		input, correct string
		want           model.ErrorCategory
	}{
		// 长度相同
		{"vais", "vont", model.ErrorConjugation},
		{"mangé", "mange", model.ErrorConjugation},
		{"Allez", "allons", model.ErrorSpelling},
		// 长度不同且距离不超过 3
		{"manges", "mange", model.ErrorSpelling},
		{"mang", "mange", model.ErrorSpelling},
		{"allions", "allons", model.ErrorSpelling},
		// 距离大于 3
		{"suis", "allons", model.ErrorSubstitution},
		{"", "aller", model.ErrorSubstitution},
		{"chat", "maison", model.ErrorSubstitution},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyError(tt.input, tt.correct), "%q vs %q", tt.input, tt.correct)
	}
}
