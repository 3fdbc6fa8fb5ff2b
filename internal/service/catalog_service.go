package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/logger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type SeedSentence struct {
	Text        string `yaml:"text" json:"text" binding:"required"`
	Cloze       string `yaml:"cloze" json:"cloze"`
	Tense       string `yaml:"tense" json:"tense"`
	Translation string `yaml:"translation" json:"translation"`
}

// VocabularyEntry 词库种子条目
type VocabularyEntry struct {
	Text         string         `yaml:"text" json:"text" binding:"required"`
	PartOfSpeech string         `yaml:"part_of_speech" json:"partOfSpeech" binding:"required"`
	Level        string         `yaml:"level" json:"level"`
	Translation  string         `yaml:"translation" json:"translation"`
	Sentences    []SeedSentence `yaml:"sentences" json:"sentences"`
}

type vocabularyFile struct {
	Words []VocabularyEntry `yaml:"words"`
}

type SeedReport struct {
	WordsCreated     int `json:"wordsCreated"`
	WordsUpdated     int `json:"wordsUpdated"`
	MemoryCreated    int `json:"memoryCreated"`
	SentencesCreated int `json:"sentencesCreated"`
}

type CatalogEntry struct {
	model.Word
	Memory *model.MemoryRecord `json:"memory,omitempty"`
}

// CatalogService 词库维护：种子导入与查询
type CatalogService struct {
	DB           *gorm.DB
	WordRepo     *repository.WordRepository
	MemoryRepo   *repository.MemoryRepository
	SentenceRepo *repository.SentenceRepository
	Now          func() time.Time
}

func NewCatalogService(
	db *gorm.DB,
	wordRepo *repository.WordRepository,
	memoryRepo *repository.MemoryRepository,
	sentenceRepo *repository.SentenceRepository,
) *CatalogService {
	return &CatalogService{
		DB:           db,
		WordRepo:     wordRepo,
		MemoryRepo:   memoryRepo,
		SentenceRepo: sentenceRepo,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// Seed 在一个事务内导入；已有单词只更新元数据，已有复习状态保持不变
func (s *CatalogService) Seed(entries []VocabularyEntry) (*SeedReport, error) {
	report := &SeedReport{}
	now := s.Now()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		words := s.WordRepo.WithTx(tx)
		memories := s.MemoryRepo.WithTx(tx)
		sentences := s.SentenceRepo.WithTx(tx)

		for i, e := range entries {
			text := strings.TrimSpace(e.Text)
			if text == "" {
				return fmt.Errorf("%w: entry %d has no text", util.ErrInvalidEnum, i)
			}
			pos, err := model.ParsePartOfSpeech(e.PartOfSpeech)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", util.ErrInvalidEnum, text, err)
			}
			level, err := model.ParseCEFRLevel(e.Level)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", util.ErrInvalidEnum, text, err)
			}

			word, err := words.FindByText(text)
			switch {
			case errors.Is(err, util.ErrWordNotFound):
				word = &model.Word{Text: text, PartOfSpeech: pos, Level: level, Translation: e.Translation}
				if err := words.Create(word); err != nil {
					return err
				}
				report.WordsCreated++
			case err != nil:
				return err
			default:
				if word.PartOfSpeech != pos || word.Level != level || word.Translation != e.Translation {
					word.PartOfSpeech, word.Level, word.Translation = pos, level, e.Translation
					if err := words.Update(word); err != nil {
						return err
					}
					report.WordsUpdated++
				}
			}

			if _, err := memories.FindByWordID(word.ID); errors.Is(err, util.ErrMemoryRecordNotFound) {
				if err := memories.Create(&model.MemoryRecord{
					WordID:       word.ID,
					LastSeenAt:   now,
					NextReviewAt: now,
				}); err != nil {
					return err
				}
				report.MemoryCreated++
			} else if err != nil {
				return err
			}

			if len(e.Sentences) == 0 {
				continue
			}
			count, err := sentences.CountByWordID(word.ID)
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			rows := make([]*model.Sentence, 0, len(e.Sentences))
			for _, ss := range e.Sentences {
				cloze := strings.TrimSpace(ss.Cloze)
				if cloze == "" {
					cloze = BlankWord(ss.Text, text)
				}
				if !strings.Contains(cloze, util.ClozeBlank) {
					logger.Log.Warn("Skipping seed sentence without blank", zap.String("word", text), zap.String("sentence", ss.Text))
					continue
				}
				rows = append(rows, &model.Sentence{
					WordID:      word.ID,
					Text:        ss.Text,
					ClozeText:   cloze,
					Tense:       ss.Tense,
					Source:      model.SourceManual,
					Translation: ss.Translation,
				})
			}
			if err := sentences.Create(rows); err != nil {
				return err
			}
			report.SentencesCreated += len(rows)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Vocabulary seeded",
		zap.Int("wordsCreated", report.WordsCreated),
		zap.Int("wordsUpdated", report.WordsUpdated),
		zap.Int("sentencesCreated", report.SentencesCreated),
	)
	return report, nil
}

// List 分页列出词库及复习状态
func (s *CatalogService) List(offset, limit int) ([]CatalogEntry, int64, error) {
	words, total, err := s.WordRepo.List(offset, limit)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	memories, err := s.MemoryRepo.FindByWordIDs(ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]CatalogEntry, len(words))
	for i, w := range words {
		out[i] = CatalogEntry{Word: w}
		if m, ok := memories[w.ID]; ok {
			out[i].Memory = &m
		}
	}
	return out, total, nil
}

// LoadVocabularyFile 支持 .yaml/.yml 与 .xlsx
func LoadVocabularyFile(path string) ([]VocabularyEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseVocabularyYAML(data)
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()
		return ParseVocabularySheet(f)
	}
	return nil, fmt.Errorf("unsupported vocabulary file %q", path)
}

func ParseVocabularyYAML(data []byte) ([]VocabularyEntry, error) {
	var vf vocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, err
	}
	return vf.Words, nil
}

// ParseVocabularySheet 第一张表，首行为表头。
// 列：text, part_of_speech, level, translation, sentence, sentence_translation；
// 同一单词的多行各追加一条例句
func ParseVocabularySheet(f *excelize.File) ([]VocabularyEntry, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var entries []VocabularyEntry
	index := map[string]int{}
	for n, row := range rows {
		if n == 0 {
			continue
		}
		text := cell(row, 0)
		if text == "" {
			continue
		}
		i, ok := index[text]
		if !ok {
			entries = append(entries, VocabularyEntry{
				Text:         text,
				PartOfSpeech: cell(row, 1),
				Level:        cell(row, 2),
				Translation:  cell(row, 3),
			})
			i = len(entries) - 1
			index[text] = i
		}
		if sentence := cell(row, 4); sentence != "" {
			entries[i].Sentences = append(entries[i].Sentences, SeedSentence{
				Text:        sentence,
				Translation: cell(row, 5),
			})
		}
	}
	return entries, nil
}
