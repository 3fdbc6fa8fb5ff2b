package service

import (
	"unicode/utf8"
	"vocab_drill_backend/internal/model"
)

const substitutionDistance = 3

// ClassifyError 只在答错时调用。长度相同视为变位错误，差距大于 3 视为换词，其余为拼写
func ClassifyError(userInput, correct string) model.ErrorCategory {
	user := NormalizeAnswer(userInput)
	want := NormalizeAnswer(correct)

	if utf8.RuneCountInString(user) == utf8.RuneCountInString(want) {
		return model.ErrorConjugation
	}
	if Levenshtein(user, want) > substitutionDistance {
		return model.ErrorSubstitution
	}
	return model.ErrorSpelling
}
