package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
	"vocab_drill_backend/internal/config"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/logger"
	"vocab_drill_backend/pkg/monitoring"
	"vocab_drill_backend/pkg/tracing"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AIService OpenAI 兼容接口：例句生成、专项练习、学习洞察、向量
type AIService struct {
	mu     sync.RWMutex
	client *openai.Client
	config config.AIConfig
	// backoff 重试基准间隔，测试中可调小
	backoff time.Duration
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{backoff: time.Second}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热更新时替换 client
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = openai.NewClientWithConfig(clientConfig)
	s.config = cfg
}

func (s *AIService) snapshot() (*openai.Client, config.AIConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client, s.config
}

func (s *AIService) EmbeddingModel() string {
	_, cfg := s.snapshot()
	return cfg.EmbeddingModel
}

// doWithRetry 指数退避重试
func (s *AIService) doWithRetry(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == maxRetries-1 {
			break
		}
		wait := time.Duration(math.Pow(2, float64(attempt))) * s.backoff
		logger.Log.Debug("AI request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(lastErr),
		)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (s *AIService) chat(ctx context.Context, operation, prompt string, temperature float32, maxTokens int) (string, error) {
	client, cfg := s.snapshot()
	if cfg.APIKey == "" {
		return "", errors.Wrap(util.ErrUpstreamUnavailable, "AI api key not configured")
	}

	ctx, span := tracing.StartSpan(ctx, "ai."+operation, attribute.String("ai.model", cfg.ChatModel))
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	var content string
	err := s.doWithRetry(ctx, cfg.MaxRetries, func() error {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       cfg.ChatModel,
			Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty completion")
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return fmt.Errorf("empty completion content")
		}
		return nil
	})
	monitoring.ObserveLLM(operation, start)
	tracing.EndSpan(span, err)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", util.ErrUpstreamUnavailable, operation, err)
	}
	return content, nil
}

// GenerateSentences 根据请求选择基础、检索增强或专项练习 prompt，输出经过校验
func (s *AIService) GenerateSentences(ctx context.Context, req SentenceRequest) ([]GeneratedSentence, error) {
	_, cfg := s.snapshot()

	var (
		prompt    string
		operation string
		maxTokens int
	)
	switch {
	case req.Drill:
		prompt, operation = drillPrompt(req), "drill"
	case len(req.Context) > 0:
		prompt, operation = contextualPrompt(req), "sentences_rag"
	default:
		prompt, operation = basicPrompt(req), "sentences"
	}
	// 每句约 60 token
	maxTokens = 80*req.Count + 100

	raw, err := s.chat(ctx, operation, prompt, cfg.Temperature, maxTokens)
	if err != nil {
		return nil, err
	}

	sentences, err := ParseSentenceList(raw, req.Word)
	if err != nil {
		logger.Log.Warn("Unusable model output",
			zap.String("operation", operation),
			zap.String("word", req.Word),
			zap.Error(err),
		)
		return nil, err
	}
	return sentences, nil
}

func levelOrDefault(l model.CEFRLevel) model.CEFRLevel {
	if l == "" {
		return model.LevelA1
	}
	return l
}

func basicPrompt(req SentenceRequest) string {
	return fmt.Sprintf(`You are a French language teacher.

Generate %d simple French sentences at %s level using the word "%s" (%s).

Requirements:
- Natural, everyday French, 5-10 words each
- If it is a verb, vary the tense (présent, passé composé, futur simple)
- One sentence per item, no explanations

Output ONLY a JSON array (no markdown):
[
  {"sentence": "Je vais à l'école", "blanked": "Je ___ à l'école", "tense": "présent"}
]
The "blanked" field replaces the target word form with ___.`,
		req.Count, levelOrDefault(req.Level), req.Word, req.PartOfSpeech)
}

func contextualPrompt(req SentenceRequest) string {
	var examples strings.Builder
	for _, s := range req.Context {
		translation := s.Translation
		if translation == "" {
			translation = "no translation"
		}
		fmt.Fprintf(&examples, "- %s (%s)\n", s.Text, translation)
	}

	return fmt.Sprintf(`Role: You are a French language tutor creating practice exercises.

Task: Generate %d French sentences using the word "%s" (%s).

The learner already knows sentences like these. Match their vocabulary complexity and grammar:
%s
Requirements:
1. Simple, everyday French similar to the examples (%s level)
2. If the word is a verb, vary the tense (présent, passé composé, futur simple)
3. Keep sentences short (5-10 words)

Output ONLY a JSON array, no explanation:
[
  {"sentence": "Je vais à l'école", "blanked": "Je ___ à l'école", "tense": "présent"}
]`,
		req.Count, req.Word, req.PartOfSpeech, examples.String(), levelOrDefault(req.Level))
}

func drillPrompt(req SentenceRequest) string {
	return fmt.Sprintf(`You are a French language teacher.

Generate exactly %d short French sentences using the verb "%s".

Rules:
- CEFR level: %s
- Vary tense: présent, passé composé, imparfait, futur
- One sentence per item
- Return ONLY valid JSON

Format:
[
  {"sentence": "...", "blanked": "... ___ ...", "tense": "présent"}
]`,
		req.Count, req.Word, levelOrDefault(req.Level))
}

// InsightPrompt 由会话统计与最主要的混淆构造
func InsightPrompt(req InsightRequest) string {
	mainError := "none recorded"
	if c := req.TopConfusion; c != nil {
		mainError = fmt.Sprintf("the learner wrote '%s' instead of '%s' %d times", c.Input, c.Expected, c.Count)
	}

	tally := make([]string, 0, len(req.ErrorTally))
	for _, t := range req.ErrorTally {
		tally = append(tally, fmt.Sprintf("%s=%d", t.Category, t.Count))
	}
	errorTypes := "none"
	if len(tally) > 0 {
		errorTypes = strings.Join(tally, ", ")
	}

	return fmt.Sprintf(`You are a French linguistics expert analyzing a learning session.

Session context:
- Total attempts: %d (correct: %d)
- Main error pattern: %s
- Error types: %s

Generate ONE linguistic insight (2-3 sentences) that explains why this confusion happens
and the underlying grammar rule. Be specific and teaching-focused. No generic advice.`,
		req.TotalAttempts, req.CorrectCount, mainError, errorTypes)
}

func (s *AIService) GenerateInsight(ctx context.Context, req InsightRequest) (string, error) {
	_, cfg := s.snapshot()
	return s.chat(ctx, "insight", InsightPrompt(req), cfg.Temperature, 300)
}

// Embed 批量生成向量
func (s *AIService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	client, cfg := s.snapshot()
	if cfg.APIKey == "" {
		return nil, errors.Wrap(util.ErrUpstreamUnavailable, "AI api key not configured")
	}

	ctx, span := tracing.StartSpan(ctx, "ai.embed", attribute.Int("ai.batch", len(texts)))
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	var vectors [][]float32
	err := s.doWithRetry(ctx, cfg.MaxRetries, func() error {
		resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      texts,
			Model:      openai.EmbeddingModel(cfg.EmbeddingModel),
			Dimensions: cfg.EmbeddingDimensions,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("embedding count mismatch: got %d want %d", len(resp.Data), len(texts))
		}
		vectors = make([][]float32, len(resp.Data))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(vectors) {
				return fmt.Errorf("embedding index %d out of range", d.Index)
			}
			vectors[d.Index] = d.Embedding
		}
		return nil
	})
	monitoring.ObserveLLM("embed", start)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("%w: embed: %v", util.ErrUpstreamUnavailable, err)
	}
	return vectors, nil
}
