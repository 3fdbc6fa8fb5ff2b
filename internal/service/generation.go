package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/util"
)

// GeneratedSentence 经过校验的例句三元组
type GeneratedSentence struct {
	Text  string `json:"sentence"`
	Cloze string `json:"cloze"`
	Tense string `json:"tense,omitempty"`
}

type SentenceRequest struct {
	Word         string
	PartOfSpeech model.PartOfSpeech
	Level        model.CEFRLevel
	Count        int
	// Drill 为 true 时生成动词专项练习（多时态）
	Drill bool
	// Context 检索到的相似例句，为空时使用基础 prompt
	Context []model.Sentence
}

type SentenceGenerator interface {
	GenerateSentences(ctx context.Context, req SentenceRequest) ([]GeneratedSentence, error)
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingModel() string
}

// ConfusionPair 学习者输入与正确答案的一组混淆
type ConfusionPair struct {
	Input    string
	Expected string
	Count    int
}

type InsightRequest struct {
	TotalAttempts int
	CorrectCount  int
	ErrorTally    []model.ErrorTally
	TopConfusion  *ConfusionPair
}

type InsightGenerator interface {
	GenerateInsight(ctx context.Context, req InsightRequest) (string, error)
}

// BlankWord 把句中第一次出现的单词替换为 ___，先精确匹配再忽略大小写
func BlankWord(sentence, word string) string {
	if word == "" {
		return sentence
	}
	if strings.Contains(sentence, word) {
		return strings.Replace(sentence, word, util.ClozeBlank, 1)
	}
	ls, lw := strings.ToLower(sentence), strings.ToLower(word)
	if len(ls) != len(sentence) || len(lw) != len(word) {
		return sentence
	}
	idx := strings.Index(ls, lw)
	if idx < 0 {
		return sentence
	}
	return sentence[:idx] + util.ClozeBlank + sentence[idx+len(word):]
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

type rawSentence struct {
	Sentence string `json:"sentence"`
	Blanked  string `json:"blanked"`
	Cloze    string `json:"cloze"`
	Tense    string `json:"tense"`
}

// ParseSentenceList 解析模型输出；无法解析或没有有效条目时返回错误
func ParseSentenceList(raw, word string) ([]GeneratedSentence, error) {
	raw = strings.TrimSpace(raw)
	var items []rawSentence
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		block := jsonArrayPattern.FindString(raw)
		if block == "" {
			return nil, fmt.Errorf("model output is not a JSON array: %w", err)
		}
		if err := json.Unmarshal([]byte(block), &items); err != nil {
			return nil, fmt.Errorf("model output is not a JSON array: %w", err)
		}
	}

	out := make([]GeneratedSentence, 0, len(items))
	for _, it := range items {
		text := strings.TrimSpace(it.Sentence)
		if text == "" {
			continue
		}
		cloze := strings.TrimSpace(it.Cloze)
		if cloze == "" {
			cloze = strings.TrimSpace(it.Blanked)
		}
		if cloze == "" {
			cloze = BlankWord(text, word)
		}
		if !strings.Contains(cloze, util.ClozeBlank) {
			continue
		}
		out = append(out, GeneratedSentence{
			Text:  text,
			Cloze: cloze,
			Tense: strings.TrimSpace(it.Tense),
		})
	}
	if len(out) == 0 {
		return nil, errors.New("model output contained no usable sentences")
	}
	return out, nil
}
