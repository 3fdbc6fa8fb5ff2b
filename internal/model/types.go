package model

import (
	"fmt"
	"strings"
)

// PartOfSpeech 词性
type PartOfSpeech string

const (
	PartOfSpeechVerb      PartOfSpeech = "verb"
	PartOfSpeechNoun      PartOfSpeech = "noun"
	PartOfSpeechAdjective PartOfSpeech = "adjective"
	PartOfSpeechAdverb    PartOfSpeech = "adverb"
	PartOfSpeechOther     PartOfSpeech = "other"
)

func (p PartOfSpeech) Valid() bool {
	switch p {
	case PartOfSpeechVerb, PartOfSpeechNoun, PartOfSpeechAdjective, PartOfSpeechAdverb, PartOfSpeechOther:
		return true
	}
	return false
}

func ParsePartOfSpeech(s string) (PartOfSpeech, error) {
	p := PartOfSpeech(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown part of speech %q", s)
	}
	return p, nil
}

// CEFRLevel 欧框等级
type CEFRLevel string

const (
	LevelA1 CEFRLevel = "A1"
	LevelA2 CEFRLevel = "A2"
	LevelB1 CEFRLevel = "B1"
	LevelB2 CEFRLevel = "B2"
)

func (l CEFRLevel) Valid() bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2:
		return true
	}
	return false
}

// ParseCEFRLevel 空字符串视为 A1
func ParseCEFRLevel(s string) (CEFRLevel, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return LevelA1, nil
	}
	l := CEFRLevel(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown CEFR level %q", s)
	}
	return l, nil
}

// ErrorCategory 错误类型，仅在答错时记录
type ErrorCategory string

const (
	ErrorConjugation  ErrorCategory = "conjugation"
	ErrorSubstitution ErrorCategory = "substitution"
	ErrorSpelling     ErrorCategory = "spelling"
)

func (c ErrorCategory) Valid() bool {
	switch c {
	case ErrorConjugation, ErrorSubstitution, ErrorSpelling:
		return true
	}
	return false
}

// SentenceSource 例句来源
type SentenceSource string

const (
	SourceTatoeba SentenceSource = "tatoeba"
	SourceLLM     SentenceSource = "llm"
	SourceManual  SentenceSource = "manual"
)
