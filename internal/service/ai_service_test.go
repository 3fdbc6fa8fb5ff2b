package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"vocab_drill_backend/internal/config"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAIService(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewAIService(config.AIConfig{
		BaseURL:        srv.URL + "/v1",
		APIKey:         "test-key",
		ChatModel:      "test-chat",
		EmbeddingModel: "test-embed",
		MaxRetries:     2,
		TimeoutSeconds: 5,
	})
	s.backoff = time.Millisecond
	return s
}

func chatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-chat",
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": content},
		}},
	}
}

func TestParseSentenceList(t *testing.T) {
	raw := "Here you go:\n```json\n[" +
		`{"sentence": "Je vais au parc", "blanked": "Je ___ au parc", "tense": "présent"},` +
		`{"sentence": "Aller vite est dangereux", "tense": "présent"},` +
		`{"sentence": "Il est parti", "blanked": "Il est parti"},` +
		`{"sentence": ""}` +
		"]\n```"

	got, err := ParseSentenceList(raw, "aller")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, GeneratedSentence{Text: "Je vais au parc", Cloze: "Je ___ au parc", Tense: "présent"}, got[0])
	assert.Equal(t, "___ vite est dangereux", got[1].Cloze)
}

func TestParseSentenceListFailures(t *testing.T) {
	_, err := ParseSentenceList("I cannot help with that.", "aller")
	assert.Error(t, err)

	_, err = ParseSentenceList(`[{"sentence": "Bonjour"}]`, "aller")
	assert.Error(t, err)
}

func TestBlankWord(t *testing.T) {
	assert.Equal(t, "Nous ___ partir", BlankWord("Nous allons partir", "allons"))
	assert.Equal(t, "___ est là", BlankWord("Maison est là", "maison"))
	assert.Equal(t, "Il part", BlankWord("Il part", "aller"))
	assert.Equal(t, "x", BlankWord("x", ""))
}

func TestInsightPrompt(t *testing.T) {
	prompt := InsightPrompt(InsightRequest{
		TotalAttempts: 8,
		CorrectCount:  5,
		ErrorTally:    []model.ErrorTally{{Category: model.ErrorConjugation, Count: 3}},
		TopConfusion:  &ConfusionPair{Input: "vont", Expected: "vais", Count: 2},
	})
	assert.Contains(t, prompt, "Total attempts: 8 (correct: 5)")
	assert.Contains(t, prompt, "the learner wrote 'vont' instead of 'vais' 2 times")
	assert.Contains(t, prompt, "conjugation=3")

	empty := InsightPrompt(InsightRequest{})
	assert.Contains(t, empty, "Main error pattern: none recorded")
	assert.Contains(t, empty, "Error types: none")
}

func TestGenerateSentencesRetriesAndParses(t *testing.T) {
	var calls atomic.Int32
	var lastPrompt string
	s := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) > 0 {
			lastPrompt = body.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(
			`[{"sentence": "Je vais au parc", "blanked": "Je ___ au parc", "tense": "présent"}]`))
	})

	got, err := s.GenerateSentences(context.Background(), SentenceRequest{
		Word:         "aller",
		PartOfSpeech: model.PartOfSpeechVerb,
		Count:        3,
		Drill:        true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int32(2), calls.Load())
	assert.Contains(t, lastPrompt, `using the verb "aller"`)
	assert.Contains(t, lastPrompt, "CEFR level: A1")
}

func TestGenerateSentencesContextualPrompt(t *testing.T) {
	var prompt string
	s := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		prompt = body.Messages[0].Content
		_ = json.NewEncoder(w).Encode(chatResponse(`[{"sentence": "Je vais bien", "blanked": "Je ___ bien"}]`))
	})

	_, err := s.GenerateSentences(context.Background(), SentenceRequest{
		Word:    "aller",
		Count:   2,
		Context: []model.Sentence{{Text: "Tu vas où ?", Translation: "Where are you going?"}},
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "- Tu vas où ? (Where are you going?)")
}

func TestGenerateSentencesUnusableOutput(t *testing.T) {
	s := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse("Sorry, no."))
	})

	_, err := s.GenerateSentences(context.Background(), SentenceRequest{Word: "aller", Count: 1})
	assert.Error(t, err)
}

func TestAIServiceWithoutKey(t *testing.T) {
	s := NewAIService(config.AIConfig{})

	_, err := s.GenerateSentences(context.Background(), SentenceRequest{Word: "aller"})
	assert.ErrorIs(t, err, util.ErrUpstreamUnavailable)

	_, err = s.GenerateInsight(context.Background(), InsightRequest{})
	assert.ErrorIs(t, err, util.ErrUpstreamUnavailable)

	_, err = s.Embed(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, util.ErrUpstreamUnavailable)
}

func TestAIServiceUpstreamFailure(t *testing.T) {
	var calls atomic.Int32
	s := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	})

	_, err := s.GenerateInsight(context.Background(), InsightRequest{TotalAttempts: 1})
	assert.ErrorIs(t, err, util.ErrUpstreamUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbedOrdersByIndex(t *testing.T) {
	s := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/embeddings"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"model":  "test-embed",
			"data": []map[string]interface{}{
				{"object": "embedding", "index": 1, "embedding": []float32{0, 1}},
				{"object": "embedding", "index": 0, "embedding": []float32{1, 0}},
			},
		})
	})

	vectors, err := s.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
	assert.Equal(t, "test-embed", s.EmbeddingModel())
}

func TestUpdateConfigSwapsModel(t *testing.T) {
	s := NewAIService(config.AIConfig{EmbeddingModel: "a"})
	s.UpdateConfig(config.AIConfig{EmbeddingModel: "b"})
	assert.Equal(t, "b", s.EmbeddingModel())
}
