package store

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"crewinsight/internal/model"
)

func testRequest() model.AnalysisRequest {
	return model.AnalysisRequest{
		Market:    "technology",
		Region:    model.RegionUS,
		Timeframe: model.TimeframeMonthly,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := New(10, 24)

	id := s.Create(testRequest())
	assert.NotEqual(t, "", id)

	rec, ok := s.Get(id)
	assert.Equal(t, true, ok)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, model.StatusProcessing, rec.Status)
	assert.Equal(t, "technology", rec.Request.Market)
	assert.Equal(t, nil, rec.CompletedAt)
}

func TestCreateUniqueIDs(t *testing.T) {
	s := New(100, 24)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := s.Create(testRequest())
		assert.Equal(t, false, seen[id])
		seen[id] = true
	}
}

func TestGetUnknownID(t *testing.T) {
	s := New(10, 24)

	_, ok := s.Get("no-such-id")
	assert.Equal(t, false, ok)
}

func TestUpdateCompletedRoundTrip(t *testing.T) {
	s := New(10, 24)
	id := s.Create(testRequest())

	status := model.StatusCompleted
	summary := "X"
	ok := s.Update(id, ResultUpdate{Status: &status, Summary: &summary})
	assert.Equal(t, true, ok)

	rec, found := s.Get(id)
	assert.Equal(t, true, found)
	assert.Equal(t, model.StatusCompleted, rec.Status)
	assert.Equal(t, "X", rec.Summary)
	assert.NotEqual(t, nil, rec.CompletedAt)
}

func TestUpdatePartialFieldsOnly(t *testing.T) {
	s := New(10, 24)
	id := s.Create(testRequest())

	data := []model.MarketData{{Source: "Alpha Vantage"}}
	ok := s.Update(id, ResultUpdate{MarketData: data})
	assert.Equal(t, true, ok)

	rec, _ := s.Get(id)
	assert.Equal(t, model.StatusProcessing, rec.Status)
	assert.Equal(t, 1, len(rec.MarketData))
	assert.Equal(t, nil, rec.CompletedAt)
}

func TestUpdateUnknownID(t *testing.T) {
	s := New(10, 24)

	status := model.StatusFailed
	ok := s.Update("missing", ResultUpdate{Status: &status})
	assert.Equal(t, false, ok)
}

func TestDelete(t *testing.T) {
	s := New(10, 24)
	id := s.Create(testRequest())

	assert.Equal(t, true, s.Delete(id))
	assert.Equal(t, false, s.Delete(id))

	_, ok := s.Get(id)
	assert.Equal(t, false, ok)
}

func TestGetEvictsExpired(t *testing.T) {
	s := New(10, 24)
	id := s.Create(testRequest())

	// Jump the clock past the TTL.
	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, ok := s.Get(id)
	assert.Equal(t, false, ok)

	// The read evicted the record, not just hid it.
	s.mu.Lock()
	_, stillThere := s.results[id]
	s.mu.Unlock()
	assert.Equal(t, false, stillThere)
}

func TestListEvictsExpired(t *testing.T) {
	s := New(10, 24)

	expiredID := s.Create(testRequest())
	s.mu.Lock()
	s.results[expiredID].CreatedAt = time.Now().Add(-25 * time.Hour)
	s.mu.Unlock()

	liveID := s.Create(testRequest())

	results := s.List(50)
	assert.Equal(t, 1, len(results))
	assert.Equal(t, liveID, results[0].ID)
}

func TestListNewestFirst(t *testing.T) {
	s := New(10, 24)

	base := time.Now()
	ids := make([]string, 3)
	for i := range ids {
		ids[i] = s.Create(testRequest())
		s.mu.Lock()
		s.results[ids[i]].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		s.mu.Unlock()
	}

	results := s.List(50)
	assert.Equal(t, 3, len(results))
	assert.Equal(t, ids[2], results[0].ID)
	assert.Equal(t, ids[1], results[1].ID)
	assert.Equal(t, ids[0], results[2].ID)
}

func TestListLimit(t *testing.T) {
	s := New(10, 24)
	for i := 0; i < 5; i++ {
		s.Create(testRequest())
	}

	assert.Equal(t, 2, len(s.List(2)))
	assert.Equal(t, 5, len(s.List(50)))
}

func TestCapacityIsBestEffort(t *testing.T) {
	// With no expired records the store exceeds maxResults; Create only
	// evicts expired entries.
	s := New(3, 24)
	for i := 0; i < 5; i++ {
		s.Create(testRequest())
	}

	s.mu.Lock()
	size := len(s.results)
	s.mu.Unlock()
	assert.Equal(t, 5, size)

	assert.Equal(t, 5, len(s.List(50)))
}

func TestCreateEvictsExpiredAtCapacity(t *testing.T) {
	s := New(2, 24)

	oldID := s.Create(testRequest())
	s.Create(testRequest())

	s.mu.Lock()
	s.results[oldID].CreatedAt = time.Now().Add(-25 * time.Hour)
	s.mu.Unlock()

	s.Create(testRequest())

	s.mu.Lock()
	_, stillThere := s.results[oldID]
	size := len(s.results)
	s.mu.Unlock()

	assert.Equal(t, false, stillThere)
	assert.Equal(t, 2, size)
}

func TestGetReturnsCopy(t *testing.T) {
	s := New(10, 24)
	id := s.Create(testRequest())

	rec, _ := s.Get(id)
	rec.Status = model.StatusFailed

	again, _ := s.Get(id)
	assert.Equal(t, model.StatusProcessing, again.Status)
}
