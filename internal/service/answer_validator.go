package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswer 去首尾空白、转小写并去掉变音符号（é -> e）
func NormalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Levenshtein 编辑距离（按 rune 计），两行滚动数组
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// ValidateAnswer 归一化后完全一致即正确；allowTypo 时容许一个字符的误差
func ValidateAnswer(userInput, correctAnswer string, allowTypo bool) bool {
	user := NormalizeAnswer(userInput)
	correct := NormalizeAnswer(correctAnswer)

	if user == correct {
		return true
	}
	return allowTypo && Levenshtein(user, correct) <= 1
}
