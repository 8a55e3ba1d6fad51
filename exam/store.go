// Package exam tracks one assessment attempt: an ordered question set, the
// user's position in it, recorded answers, and completion, durably persisted
// so a session survives a reload.
package exam

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lucidwell/lucidwell-client/internal/job"
	"github.com/lucidwell/lucidwell-client/internal/persistqueue"
	"github.com/lucidwell/lucidwell-client/internal/types"
)

// DefaultStorageKey is the fixed key the session state is serialized under.
const DefaultStorageKey = "exam-storage"

// ErrNoQuestions is returned when an answer is recorded before any question
// set has been loaded.
var ErrNoQuestions = errors.New("exam: no questions loaded")

// ErrCompleted is returned when answers are locked after completion.
var ErrCompleted = errors.New("exam: session already completed")

// Result pairs a question with its selected value, nil when unanswered.
type Result struct {
	Question      types.Question
	SelectedValue *int
}

// state is the persisted shape. JSON field names are part of the stored
// schema; changing them orphans previously persisted sessions.
type state struct {
	Questions            []types.Question `json:"questions"`
	CurrentQuestionIndex int              `json:"currentQuestionIndex"`
	Answers              map[int64]int    `json:"answers"`
	StartTime            *time.Time       `json:"startTime"`
	IsCompleted          bool             `json:"isCompleted"`
	ExamID               string           `json:"currentExamId"`
}

func emptyState() state {
	return state{Answers: make(map[int64]int)}
}

// Store is the persisted exam session state machine.
//
// States: Empty (no questions) → InProgress → Completed. Completion is
// one-directional; only loading a different exam ID, or Reset, leaves it.
// All methods are safe for concurrent use; local mutations are applied
// atomically under the lock and persisted asynchronously afterwards, so a
// caller always observes its own write immediately.
type Store struct {
	mu       sync.Mutex
	st       state
	hydrated bool

	storage    Storage
	storageKey string
	queue      *persistqueue.Queue
	ownQueue   bool

	answersAfterCompletion bool
}

// StoreOption configures a Store during construction.
type StoreOption func(*Store)

// WithStorageKey overrides the key the session persists under, namespacing
// independent stores on one backend.
func WithStorageKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.storageKey = key
		}
	}
}

// WithQueue makes the store share a caller-owned persist queue instead of
// creating its own. The caller remains responsible for stopping it.
func WithQueue(q *persistqueue.Queue) StoreOption {
	return func(s *Store) {
		if q != nil {
			s.queue = q
			s.ownQueue = false
		}
	}
}

// WithAnswersAfterCompletion controls whether RecordAnswer is permitted once
// the session is completed. The product currently allows post-completion
// review edits, so the default is true; pass false to lock answers on
// completion.
func WithAnswersAfterCompletion(allowed bool) StoreOption {
	return func(s *Store) { s.answersAfterCompletion = allowed }
}

// NewStore builds a Store with empty default state and hydrated=false.
// Call Hydrate to restore any previously persisted session.
func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		st:                     emptyState(),
		storage:                storage,
		storageKey:             DefaultStorageKey,
		ownQueue:               true,
		answersAfterCompletion: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.queue == nil {
		s.queue = persistqueue.NewQueue(persistqueue.Config{Shards: 1})
	}
	return s
}

// ------------------------------
// Hydration
// ------------------------------

// Hydrate restores persisted state from the backend. It flips HasHydrated to
// true exactly once per Store lifetime, whether or not prior state existed
// and even when the load fails, so consumers can gate on the flag without
// caring why nothing was restored. Repeat calls are no-ops.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return nil
	}
	s.hydrated = true

	data, err := s.storage.Get(ctx, s.storageKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("exam: hydration load failed, starting empty")
		return err
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		log.Warn().Err(err).Msg("exam: persisted state unreadable, starting empty")
		return err
	}
	if st.Answers == nil {
		st.Answers = make(map[int64]int)
	}
	// Snapshots from an older schema or a hand-edited backend can carry a
	// cursor outside the question range; clamp so reads never index past it.
	if st.CurrentQuestionIndex < 0 {
		st.CurrentQuestionIndex = 0
	}
	if st.CurrentQuestionIndex >= len(st.Questions) {
		if n := len(st.Questions); n > 0 {
			st.CurrentQuestionIndex = n - 1
		} else {
			st.CurrentQuestionIndex = 0
		}
	}
	s.st = st
	return nil
}

// HasHydrated reports whether hydration has completed. Reads before this
// flips true may reflect default rather than persisted state.
func (s *Store) HasHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// ------------------------------
// Transitions
// ------------------------------

// LoadQuestions installs a question set for the given exam instance. Loading
// a different exam ID is a hard reset: answers cleared, index zeroed, fresh
// start time. Reloading the same exam restarts navigation but preserves
// answers and the original start time; completion is cleared either way.
func (s *Store) LoadQuestions(questions []types.Question, examID string) {
	now := time.Now().UTC()
	s.mu.Lock()
	qs := make([]types.Question, len(questions))
	copy(qs, questions)
	if s.st.ExamID != examID {
		s.st = state{
			Questions: qs,
			Answers:   make(map[int64]int),
			StartTime: &now,
			ExamID:    examID,
		}
	} else {
		s.st.Questions = qs
		s.st.CurrentQuestionIndex = 0
		s.st.IsCompleted = false
		if s.st.StartTime == nil {
			s.st.StartTime = &now
		}
	}
	s.persistLocked()
	s.mu.Unlock()
}

// RecordAnswer upserts the answer for one question: at most one value per
// question ID. It never moves the index or changes completion.
func (s *Store) RecordAnswer(questionID int64, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.st.Questions) == 0 {
		return ErrNoQuestions
	}
	if s.st.IsCompleted && !s.answersAfterCompletion {
		return ErrCompleted
	}
	s.st.Answers[questionID] = value
	s.persistLocked()
	return nil
}

// Advance moves to the next question, clamped at the last one.
func (s *Store) Advance() {
	s.mu.Lock()
	if max := len(s.st.Questions) - 1; s.st.CurrentQuestionIndex < max {
		s.st.CurrentQuestionIndex++
		s.persistLocked()
	}
	s.mu.Unlock()
}

// Retreat moves to the previous question, clamped at the first one.
func (s *Store) Retreat() {
	s.mu.Lock()
	if s.st.CurrentQuestionIndex > 0 {
		s.st.CurrentQuestionIndex--
		s.persistLocked()
	}
	s.mu.Unlock()
}

// Complete marks the session completed. One-directional: only LoadQuestions
// with a new exam ID or Reset leaves the completed state.
func (s *Store) Complete() {
	s.mu.Lock()
	if !s.st.IsCompleted {
		s.st.IsCompleted = true
		s.persistLocked()
	}
	s.mu.Unlock()
}

// Reset clears everything, including the exam ID.
func (s *Store) Reset() {
	s.mu.Lock()
	s.st = emptyState()
	s.persistLocked()
	s.mu.Unlock()
}

// ------------------------------
// Derived queries
// ------------------------------

// CurrentQuestion returns the question at the cursor, or nil when empty.
func (s *Store) CurrentQuestion() *types.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.st.Questions) == 0 {
		return nil
	}
	q := s.st.Questions[s.st.CurrentQuestionIndex]
	return &q
}

// IsFirstQuestion reports whether the cursor is at index 0.
func (s *Store) IsFirstQuestion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CurrentQuestionIndex == 0
}

// IsLastQuestion reports whether the cursor is on the final question.
func (s *Store) IsLastQuestion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.Questions) > 0 && s.st.CurrentQuestionIndex == len(s.st.Questions)-1
}

// AnsweredCount returns how many questions have a recorded answer.
func (s *Store) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.Answers)
}

// ProgressPercentage returns answered/total rounded to the nearest integer
// percent, 0 when no questions are loaded.
func (s *Store) ProgressPercentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.st.Questions) == 0 {
		return 0
	}
	return int(math.Round(float64(len(s.st.Answers)) / float64(len(s.st.Questions)) * 100))
}

// Results pairs every question, in order, with its selected value or nil.
func (s *Store) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.st.Questions))
	for i, q := range s.st.Questions {
		out[i] = Result{Question: q}
		if v, ok := s.st.Answers[q.ID]; ok {
			vv := v
			out[i].SelectedValue = &vv
		}
	}
	return out
}

// CurrentIndex returns the cursor position.
func (s *Store) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CurrentQuestionIndex
}

// ExamID returns the owning exam instance ID, empty when no session exists.
func (s *Store) ExamID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ExamID
}

// StartTime returns when this exam instance was first started, nil if never.
func (s *Store) StartTime() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.StartTime == nil {
		return nil
	}
	t := *s.st.StartTime
	return &t
}

// IsCompleted reports whether the session has been completed.
func (s *Store) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.IsCompleted
}

// ------------------------------
// Persistence
// ------------------------------

// Flush blocks until every snapshot enqueued so far has been written.
func (s *Store) Flush(ctx context.Context) error {
	return s.queue.Barrier(ctx, s.storageKey)
}

// Close flushes pending snapshots and, when the store owns its queue, stops
// it. Safe to call once; the store is unusable afterwards.
func (s *Store) Close() error {
	err := s.Flush(context.Background())
	if s.ownQueue {
		s.queue.Stop()
	}
	return err
}

// persistLocked snapshots the state under the lock and hands the write to the
// per-key FIFO queue, so mutations never block on the backend and snapshots
// land in mutation order.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.st)
	if err != nil {
		log.Error().Err(err).Msg("exam: state serialization failed")
		return
	}
	key := s.storageKey
	storage := s.storage
	j := job.New(func(ctx context.Context) error {
		return storage.Set(ctx, key, data)
	})
	if err := s.queue.Submit(context.Background(), key, j); err != nil {
		// Queue unavailable (closed or saturated): write inline rather than
		// drop the snapshot.
		if serr := storage.Set(context.Background(), key, data); serr != nil {
			log.Error().Err(serr).Msg("exam: state persist failed")
		}
	}
}
