package service

import (
	"testing"
	"time"
	"vocab_drill_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalForClampsToLadder(t *testing.T) {
	assert.Equal(t, 5*time.Minute, IntervalFor(-3))
	assert.Equal(t, 5*time.Minute, IntervalFor(0))
	assert.Equal(t, 24*time.Hour, IntervalFor(3))
	assert.Equal(t, 21*24*time.Hour, IntervalFor(6))
	assert.Equal(t, 21*24*time.Hour, IntervalFor(42))
}

func TestApplyCorrect(t *testing.T) {
	rec := &model.MemoryRecord{Strength: 2, SuccessStreak: 1, SuccessCount: 4, ErrorCount: 2}
	ApplyCorrect(rec, t0)

	assert.Equal(t, 3, rec.Strength)
	assert.Equal(t, 2, rec.SuccessStreak)
	assert.Equal(t, 5, rec.SuccessCount)
	assert.Equal(t, 2, rec.ErrorCount)
	assert.Equal(t, t0, rec.LastSeenAt)
	assert.Equal(t, t0.Add(24*time.Hour), rec.NextReviewAt)
}

func TestApplyCorrectAtMaxStrength(t *testing.T) {
	rec := &model.MemoryRecord{Strength: MaxStrength}
	ApplyCorrect(rec, t0)

	assert.Equal(t, MaxStrength, rec.Strength)
	assert.Equal(t, t0.Add(21*24*time.Hour), rec.NextReviewAt)
}

func TestApplyWrong(t *testing.T) {
	rec := &model.MemoryRecord{Strength: 3, SuccessStreak: 4, SuccessCount: 4, ErrorCount: 1}
	ApplyWrong(rec, t0)

	assert.Equal(t, 2, rec.Strength)
	assert.Equal(t, 0, rec.SuccessStreak)
	assert.Equal(t, 4, rec.SuccessCount, "lifetime successes survive a miss")
	assert.Equal(t, 2, rec.ErrorCount)
	assert.Equal(t, t0.Add(5*time.Minute), rec.NextReviewAt)
}

func TestApplyWrongAtZeroStrength(t *testing.T) {
	rec := &model.MemoryRecord{}
	ApplyWrong(rec, t0)

	assert.Equal(t, 0, rec.Strength)
	assert.Equal(t, 1, rec.ErrorCount)
	assert.Equal(t, t0.Add(5*time.Minute), rec.NextReviewAt)
}

func TestApplyMiss(t *testing.T) {
	next := t0.Add(4 * time.Hour)
	rec := &model.MemoryRecord{Strength: 2, SuccessStreak: 3, ErrorCount: 2, NextReviewAt: next}
	ApplyMiss(rec, t0.Add(time.Hour))

	assert.Equal(t, 2, rec.Strength)
	assert.Equal(t, 0, rec.SuccessStreak)
	assert.Equal(t, 3, rec.ErrorCount)
	assert.Equal(t, t0.Add(time.Hour), rec.LastSeenAt)
	assert.Equal(t, next, rec.NextReviewAt)
}

func TestSchedulerRecordCorrectPersists(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	w := seedWord(t, db, "aller", model.PartOfSpeechVerb)
	rec := seedMemory(t, db, model.MemoryRecord{WordID: w.ID, Strength: 3, LastSeenAt: t0, NextReviewAt: t0})

	s := NewSchedulerService(repos.memory)
	s.Now = fixedClock(t0)
	require.NoError(t, s.RecordCorrect(rec))

	stored, err := repos.memory.FindByWordID(w.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Strength)
	assert.Equal(t, 1, stored.SuccessStreak)
	assert.Equal(t, 1, stored.SuccessCount)
	assert.True(t, stored.NextReviewAt.Equal(t0.Add(3*24*time.Hour)))
	assert.Equal(t, rec.NextReviewAt, t0.Add(3*24*time.Hour))
}

func TestSchedulerRecordWrongPersists(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	w := seedWord(t, db, "être", model.PartOfSpeechVerb)
	rec := seedMemory(t, db, model.MemoryRecord{WordID: w.ID, Strength: 3, SuccessStreak: 2, LastSeenAt: t0, NextReviewAt: t0})

	s := NewSchedulerService(repos.memory)
	s.Now = fixedClock(t0)
	require.NoError(t, s.RecordWrong(rec))

	stored, err := repos.memory.FindByWordID(w.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Strength)
	assert.Equal(t, 0, stored.SuccessStreak)
	assert.Equal(t, 1, stored.ErrorCount)
	assert.True(t, stored.NextReviewAt.Equal(t0.Add(5*time.Minute)))
}

func TestSchedulerRecordOnMissingRecord(t *testing.T) {
	db := newTestDB(t)
	s := NewSchedulerService(newTestRepos(db).memory)
	rec := &model.MemoryRecord{BaseModel: model.BaseModel{ID: 999}, Strength: 1}

	err := s.RecordCorrect(rec)
	require.Error(t, err)
	assert.Equal(t, 1, rec.Strength, "record untouched when the write fails")
}

func TestSchedulerDueItemsOrdering(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)

	a := seedWord(t, db, "aller", model.PartOfSpeechVerb)
	b := seedWord(t, db, "maison", model.PartOfSpeechNoun)
	c := seedWord(t, db, "faire", model.PartOfSpeechVerb)
	d := seedWord(t, db, "avoir", model.PartOfSpeechVerb)

	seedMemory(t, db, model.MemoryRecord{WordID: a.ID, Strength: 2, NextReviewAt: t0.Add(-time.Hour)})
	seedMemory(t, db, model.MemoryRecord{WordID: b.ID, Strength: 0, NextReviewAt: t0.Add(-time.Minute)})
	seedMemory(t, db, model.MemoryRecord{WordID: c.ID, Strength: 0, NextReviewAt: t0.Add(-2 * time.Hour)})
	// 未到期
	seedMemory(t, db, model.MemoryRecord{WordID: d.ID, Strength: 0, NextReviewAt: t0.Add(time.Minute)})

	s := NewSchedulerService(repos.memory)
	s.Now = fixedClock(t0)

	due, err := s.DueItems(10)
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, []uint{c.ID, b.ID, a.ID}, []uint{due[0].WordID, due[1].WordID, due[2].WordID})

	due, err = s.DueItems(1)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, c.ID, due[0].WordID)
}

func TestSchedulerDueItemsNonPositiveLimit(t *testing.T) {
	db := newTestDB(t)
	s := NewSchedulerService(newTestRepos(db).memory)

	due, err := s.DueItems(0)
	require.NoError(t, err)
	assert.NotNil(t, due)
	assert.Empty(t, due)
}

func TestSchedulerRepeatedCorrectClimbsLadder(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	w := seedWord(t, db, "prendre", model.PartOfSpeechVerb)
	rec := seedMemory(t, db, model.MemoryRecord{WordID: w.ID, LastSeenAt: t0, NextReviewAt: t0})

	s := NewSchedulerService(repos.memory)
	s.Now = fixedClock(t0)
	for i := 1; i <= MaxStrength+2; i++ {
		require.NoError(t, s.RecordCorrect(rec))
		assert.Equal(t, min(i, MaxStrength), rec.Strength)
	}
	assert.Equal(t, MaxStrength+2, rec.SuccessStreak)
}
