package syncqueue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

type fakeQueue struct {
	mu         sync.Mutex
	items      map[string]*entities.SyncQueueItem
	stores     map[string]entities.Store
	fetchErr   error
	fetches    int
	lastLimit  int
	lastBefore time.Time
	updates    int
	updateErr  func(entities.SyncQueueItemChanges) error
}

func newFakeQueue(stores ...entities.Store) *fakeQueue {
	q := &fakeQueue{
		items:  make(map[string]*entities.SyncQueueItem),
		stores: make(map[string]entities.Store),
	}
	for _, s := range stores {
		q.stores[s.ID] = s
	}
	return q
}

func (q *fakeQueue) add(item entities.SyncQueueItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if item.Status == "" {
		item.Status = entities.QueueStatusPending
	}
	if item.MaxAttempts == 0 {
		item.MaxAttempts = 5
	}
	q.items[item.ID] = &item
}

func (q *fakeQueue) get(id string) entities.SyncQueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return *q.items[id]
}

func (q *fakeQueue) fetchCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fetches
}

func (q *fakeQueue) FindDueItems(_ context.Context, status entities.QueueStatus, before time.Time, limit int) ([]entities.SyncQueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.fetches++
	q.lastLimit = limit
	q.lastBefore = before
	if q.fetchErr != nil {
		return nil, q.fetchErr
	}

	var due []entities.SyncQueueItem
	for _, item := range q.items {
		if item.Status == status && !item.ScheduledAt.After(before) {
			copied := *item
			copied.Store = q.stores[item.StoreID]
			due = append(due, copied)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ScheduledAt.Before(due[j].ScheduledAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (q *fakeQueue) FindItemByID(_ context.Context, id string) (*entities.SyncQueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.items[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	copied := *item
	copied.Store = q.stores[item.StoreID]
	return &copied, nil
}

func (q *fakeQueue) UpdateItem(ctx context.Context, id string, changes entities.SyncQueueItemChanges) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.items[id]
	if !ok {
		return entities.ErrNotFound
	}
	if q.updateErr != nil {
		if err := q.updateErr(changes); err != nil {
			return err
		}
	}
	q.updates++
	if changes.Status != nil {
		item.Status = *changes.Status
	}
	if changes.Attempts != nil {
		item.Attempts = *changes.Attempts
	}
	if changes.ErrorMessage != nil {
		item.ErrorMessage = *changes.ErrorMessage
	}
	if changes.ScheduledAt != nil {
		item.ScheduledAt = *changes.ScheduledAt
	}
	if changes.ProcessedAt != nil {
		at := *changes.ProcessedAt
		item.ProcessedAt = &at
	}
	return nil
}

type fakeStores struct {
	mu     sync.Mutex
	stamps map[string][]time.Time
}

func (s *fakeStores) UpdateLastAimsSync(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stamps == nil {
		s.stamps = make(map[string][]time.Time)
	}
	s.stamps[id] = append(s.stamps[id], at)
	return nil
}

func (s *fakeStores) count(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stamps[id])
}

// fakeEntities serves any of the three entity repository interfaces.
type fakeEntities[T any] struct {
	mu     sync.Mutex
	rows   map[string]*T
	states map[string]entities.SyncState
}

func newFakeEntities[T any]() *fakeEntities[T] {
	return &fakeEntities[T]{
		rows:   make(map[string]*T),
		states: make(map[string]entities.SyncState),
	}
}

func (f *fakeEntities[T]) put(id string, row *T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[id] = row
}

func (f *fakeEntities[T]) state(id string) (entities.SyncState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[id]
	return s, ok
}

func (f *fakeEntities[T]) FindByID(_ context.Context, id string) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return row, nil
}

func (f *fakeEntities[T]) UpdateSyncState(_ context.Context, id string, state entities.SyncState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return entities.ErrNotFound
	}
	f.states[id] = state
	return nil
}

type gatewayCall struct {
	method   string
	storeID  string
	articles []aims.Article
	ids      []string
}

type fakeGateway struct {
	mu     sync.Mutex
	calls  []gatewayCall
	err    error
	block  chan struct{} // when set, PushArticles waits on it
	onPush func(ctx context.Context) error
}

func (g *fakeGateway) PushArticles(ctx context.Context, storeID string, articles []aims.Article) error {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{method: "push", storeID: storeID, articles: articles})
	if g.onPush != nil {
		return g.onPush(ctx)
	}
	return g.err
}

func (g *fakeGateway) DeleteArticles(_ context.Context, storeID string, ids []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{method: "delete", storeID: storeID, ids: ids})
	return g.err
}

func (g *fakeGateway) recorded() []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gatewayCall(nil), g.calls...)
}

type fakeAuditor struct {
	mu         sync.Mutex
	sweeps     int
	reprocess  []string
	lastSweepE error
}

func (a *fakeAuditor) LogSweep(_, _, _ int, _ time.Duration, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sweeps++
	a.lastSweepE = err
}

func (a *fakeAuditor) LogReprocess(_, itemID string, _ error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reprocess = append(a.reprocess, itemID)
}

type fakeLock struct {
	held     bool
	err      error
	released int
}

func (l *fakeLock) TryLock(context.Context) (func(context.Context) error, bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	return func(context.Context) error {
		l.released++
		return nil
	}, true, nil
}

var errAIMSDown = errors.New("AIMS unavailable")
