package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"crewinsight/internal/model"
)

// ResultStore is the single source of truth for analysis jobs. It is an
// in-memory table guarded by one mutex; records expire lazily once they
// are older than the configured TTL.
//
// Capacity is best effort: Create evicts expired records when the table
// is full, but a table full of live records can still grow past
// maxResults. Nothing is persisted across restarts.
type ResultStore struct {
	maxResults int
	ttl        time.Duration

	mu      sync.Mutex
	results map[string]*model.AnalysisResult

	now func() time.Time
}

func New(maxResults, ttlHours int) *ResultStore {
	return &ResultStore{
		maxResults: maxResults,
		ttl:        time.Duration(ttlHours) * time.Hour,
		results:    make(map[string]*model.AnalysisResult),
		now:        time.Now,
	}
}

// Create inserts a new processing record and returns its id.
func (s *ResultStore) Create(req model.AnalysisRequest) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.results) >= s.maxResults {
		s.evictExpiredLocked()
	}

	s.results[id] = &model.AnalysisResult{
		ID:        id,
		Request:   req,
		Status:    model.StatusProcessing,
		CreatedAt: s.now(),
	}

	return id
}

// Get returns a copy of the record, or false if it is missing or expired.
// An expired record is evicted as a side effect of the read.
func (s *ResultStore) Get(id string) (*model.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.results[id]
	if !ok {
		return nil, false
	}
	if s.expiredLocked(rec) {
		delete(s.results, id)
		return nil, false
	}

	cp := *rec
	return &cp, true
}

// ResultUpdate is a partial update; nil fields are left untouched.
type ResultUpdate struct {
	Status         *string
	MarketData     []model.MarketData
	Trends         []model.Trend
	Summary        *string
	ErrorMessage   *string
	ProcessingTime *float64
}

// Update applies the set fields to the record. Setting status to
// completed stamps CompletedAt in the same critical section. The store
// does not validate status transitions; the pipeline is trusted to issue
// exactly one terminal update per job.
func (s *ResultStore) Update(id string, upd ResultUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.results[id]
	if !ok {
		return false
	}

	if upd.Status != nil {
		rec.Status = *upd.Status
	}
	if upd.MarketData != nil {
		rec.MarketData = upd.MarketData
	}
	if upd.Trends != nil {
		rec.Trends = upd.Trends
	}
	if upd.Summary != nil {
		rec.Summary = *upd.Summary
	}
	if upd.ErrorMessage != nil {
		rec.ErrorMessage = *upd.ErrorMessage
	}
	if upd.ProcessingTime != nil {
		rec.ProcessingTime = upd.ProcessingTime
	}

	if upd.Status != nil && *upd.Status == model.StatusCompleted {
		completedAt := s.now()
		rec.CompletedAt = &completedAt
	}

	return true
}

func (s *ResultStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[id]; !ok {
		return false
	}
	delete(s.results, id)
	return true
}

// List evicts expired records, then returns up to limit records ordered
// by creation time, newest first.
func (s *ResultStore) List(limit int) []model.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()

	all := make([]model.AnalysisResult, 0, len(s.results))
	for _, rec := range s.results {
		all = append(all, *rec)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (s *ResultStore) expiredLocked(rec *model.AnalysisResult) bool {
	return s.now().After(rec.CreatedAt.Add(s.ttl))
}

func (s *ResultStore) evictExpiredLocked() {
	for id, rec := range s.results {
		if s.expiredLocked(rec) {
			delete(s.results, id)
		}
	}
}
