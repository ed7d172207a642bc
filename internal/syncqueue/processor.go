// Package syncqueue drains the outbound sync queue into AIMS.
//
// A single Processor polls the queue on a timer, groups due items by store,
// pushes or deletes the matching AIMS articles one item at a time and applies
// capped exponential backoff to failures. At most one sweep runs per process;
// an optional distributed lock extends that to several instances.
package syncqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

type QueueStore interface {
	FindDueItems(ctx context.Context, status entities.QueueStatus, scheduledBefore time.Time, limit int) ([]entities.SyncQueueItem, error)
	FindItemByID(ctx context.Context, id string) (*entities.SyncQueueItem, error)
	UpdateItem(ctx context.Context, id string, changes entities.SyncQueueItemChanges) error
}

type StoreRepository interface {
	UpdateLastAimsSync(ctx context.Context, id string, at time.Time) error
}

type SpaceRepository interface {
	FindByID(ctx context.Context, id string) (*entities.Space, error)
	UpdateSyncState(ctx context.Context, id string, state entities.SyncState) error
}

type PersonRepository interface {
	FindByID(ctx context.Context, id string) (*entities.Person, error)
	UpdateSyncState(ctx context.Context, id string, state entities.SyncState) error
}

type ConferenceRepository interface {
	FindByID(ctx context.Context, id string) (*entities.ConferenceRoom, error)
	UpdateSyncState(ctx context.Context, id string, state entities.SyncState) error
}

// Gateway pushes and deletes articles in the AIMS store owning storeID.
type Gateway interface {
	PushArticles(ctx context.Context, storeID string, articles []aims.Article) error
	DeleteArticles(ctx context.Context, storeID string, articleIDs []string) error
}

// Auditor records sweep and reprocess outcomes.
type Auditor interface {
	LogSweep(processed, succeeded, failed int, duration time.Duration, err error)
	LogReprocess(storeID, itemID string, err error)
}

// SweepLock is a non-blocking cross-process lock. ok is false when another
// holder owns it.
type SweepLock interface {
	TryLock(ctx context.Context) (unlock func(context.Context) error, ok bool, err error)
}

// Deps are the collaborators of a Processor. Auditor and Lock may be nil.
type Deps struct {
	Queue      QueueStore
	Stores     StoreRepository
	Spaces     SpaceRepository
	People     PersonRepository
	Conference ConferenceRepository
	Gateway    Gateway
	Auditor    Auditor
	Lock       SweepLock
}

type Config struct {
	BatchSize      int           // max items fetched per sweep (default: 50)
	SettleDelay    time.Duration // min age before an item is eligible (default: 5s)
	RetryBaseDelay time.Duration // backoff base (default: 1s)
	RetryMaxDelay  time.Duration // backoff cap (default: 60s)
}

func DefaultConfig() Config {
	return Config{
		BatchSize:      50,
		SettleDelay:    5 * time.Second,
		RetryBaseDelay: time.Second,
		RetryMaxDelay:  60 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = d.SettleDelay
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = d.RetryBaseDelay
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = d.RetryMaxDelay
	}
	return c
}

type ItemError struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

type ProcessResult struct {
	Processed int         `json:"processed"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Errors    []ItemError `json:"errors"`
}

func newResult() *ProcessResult {
	return &ProcessResult{Errors: []ItemError{}}
}

func (r *ProcessResult) success() {
	r.Processed++
	r.Succeeded++
}

func (r *ProcessResult) failure(itemID string, err error) {
	r.Processed++
	r.Failed++
	r.Errors = append(r.Errors, ItemError{ItemID: itemID, Error: err.Error()})
}

// SweepReport is the outcome of the last guarded sweep.
type SweepReport struct {
	Result     *ProcessResult `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	FinishedAt time.Time      `json:"finished_at"`
	Duration   time.Duration  `json:"duration"`
}

type Processor struct {
	deps   Deps
	config Config
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticks   sync.WaitGroup

	sweeping atomic.Bool

	reportMu   sync.RWMutex
	lastReport *SweepReport
}

func New(deps Deps, cfg Config, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		deps:   deps,
		config: cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// Start begins periodic sweeping. One sweep fires immediately. Calling Start
// on a running processor does nothing.
func (p *Processor) Start(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.logger.Info("sync queue processor already running")
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}

	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})

	p.logger.Info("sync queue processor started",
		zap.Duration("interval", interval),
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("settle_delay", p.config.SettleDelay))

	go p.loop(interval, p.stopCh, p.doneCh)
}

// Stop cancels future ticks and waits for an in-flight sweep to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	doneCh := p.doneCh
	p.mu.Unlock()

	<-doneCh
	p.ticks.Wait()
	p.logger.Info("sync queue processor stopped")
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) IsSweeping() bool {
	return p.sweeping.Load()
}

// LastResult returns the outcome of the last guarded sweep, or nil.
func (p *Processor) LastResult() *SweepReport {
	p.reportMu.RLock()
	defer p.reportMu.RUnlock()
	return p.lastReport
}

func (p *Processor) loop(interval time.Duration, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.fire()
	for {
		select {
		case <-ticker.C:
			p.fire()
		case <-stopCh:
			return
		}
	}
}

// fire runs a tick in its own goroutine so a slow sweep makes later ticks
// skip instead of queueing behind it.
func (p *Processor) fire() {
	p.ticks.Add(1)
	go func() {
		defer p.ticks.Done()
		p.tick(context.Background())
	}()
}

func (p *Processor) tick(ctx context.Context) {
	result, err := p.Sweep(ctx)
	switch {
	case errors.Is(err, ErrSweepInProgress):
		p.logger.Debug("skipping tick, sweep already in progress")
	case errors.Is(err, ErrSweepLocked):
		p.logger.Debug("skipping tick, sweep lock held elsewhere")
	case err != nil:
		p.logger.Error("sync sweep failed", zap.Error(err))
	case result.Processed > 0:
		p.logger.Info("sync sweep finished",
			zap.Int("processed", result.Processed),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed))
	}
}

// Sweep runs ProcessPendingItems under the in-process guard and, when
// configured, the distributed lock. It never waits for a running sweep.
func (p *Processor) Sweep(ctx context.Context) (*ProcessResult, error) {
	if !p.sweeping.CompareAndSwap(false, true) {
		return nil, ErrSweepInProgress
	}
	defer p.sweeping.Store(false)

	if p.deps.Lock != nil {
		unlock, ok, err := p.deps.Lock.TryLock(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !ok {
			return nil, ErrSweepLocked
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				p.logger.Warn("failed to release sweep lock", zap.Error(err))
			}
		}()
	}

	started := p.now()
	result, err := p.ProcessPendingItems(ctx)
	finished := p.now()

	report := &SweepReport{Result: result, FinishedAt: finished, Duration: finished.Sub(started)}
	if err != nil {
		report.Error = err.Error()
	}
	p.reportMu.Lock()
	p.lastReport = report
	p.reportMu.Unlock()

	if p.deps.Auditor != nil && (err != nil || result.Processed > 0) {
		var processed, succeeded, failed int
		if result != nil {
			processed, succeeded, failed = result.Processed, result.Succeeded, result.Failed
		}
		p.deps.Auditor.LogSweep(processed, succeeded, failed, report.Duration, err)
	}

	return result, err
}

// ProcessPendingItems runs one sweep over due items. Only a failure to read
// the queue is returned; per-item failures are reported in the result.
func (p *Processor) ProcessPendingItems(ctx context.Context) (*ProcessResult, error) {
	cutoff := p.now().Add(-p.config.SettleDelay)

	items, err := p.deps.Queue.FindDueItems(ctx, entities.QueueStatusPending, cutoff, p.config.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("fetch due items: %w", err)
	}

	result := newResult()
	if len(items) == 0 {
		return result, nil
	}

	for _, group := range groupByStore(items) {
		p.processStore(ctx, group, result)
	}

	return result, nil
}

// ProcessItemByID reprocesses one item regardless of its schedule. Failures
// get the same backoff bookkeeping as a sweep and are then returned.
//
// It shares the sweep guard, so it returns ErrItemBusy while a sweep or
// another reprocess is running, or when the item is already PROCESSING.
func (p *Processor) ProcessItemByID(ctx context.Context, id string) error {
	if !p.sweeping.CompareAndSwap(false, true) {
		return ErrItemBusy
	}
	defer p.sweeping.Store(false)

	item, err := p.deps.Queue.FindItemByID(ctx, id)
	if errors.Is(err, entities.ErrNotFound) {
		return ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("load queue item %s: %w", id, err)
	}
	if item.Status == entities.QueueStatusProcessing {
		return ErrItemBusy
	}
	if !item.Store.SyncEnabled {
		return ErrSyncDisabled
	}

	err = p.processItem(ctx, item)
	p.stampStore(ctx, item.StoreID)

	if p.deps.Auditor != nil {
		p.deps.Auditor.LogReprocess(item.StoreID, item.ID, err)
	}
	return err
}

type storeGroup struct {
	store entities.Store
	items []entities.SyncQueueItem
}

// groupByStore keeps the fetch order of stores and of items within a store.
func groupByStore(items []entities.SyncQueueItem) []*storeGroup {
	index := make(map[string]*storeGroup)
	var groups []*storeGroup
	for _, item := range items {
		g, ok := index[item.StoreID]
		if !ok {
			g = &storeGroup{store: item.Store}
			index[item.StoreID] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, item)
	}
	return groups
}

func (p *Processor) processStore(ctx context.Context, group *storeGroup, result *ProcessResult) {
	storeID := group.items[0].StoreID
	log := p.logger.With(zap.String("store_id", storeID))

	if group.store.ID == "" || !group.store.SyncEnabled {
		reason := SyncDisabledMessage
		if group.store.ID == "" {
			reason = StoreMissingMessage
		}
		log.Info("skipping store items", zap.String("reason", reason), zap.Int("items", len(group.items)))
		for i := range group.items {
			item := &group.items[i]
			p.markSkipped(ctx, item, reason)
			result.failure(item.ID, errors.New(reason))
		}
		return
	}

	for i := range group.items {
		item := &group.items[i]
		if err := p.processItem(ctx, item); err != nil {
			result.failure(item.ID, err)
			continue
		}
		result.success()
	}

	p.stampStore(ctx, storeID)
}

func (p *Processor) processItem(ctx context.Context, item *entities.SyncQueueItem) error {
	log := p.itemLogger(item)

	processing := entities.QueueStatusProcessing
	if err := p.deps.Queue.UpdateItem(ctx, item.ID, entities.SyncQueueItemChanges{Status: &processing}); err != nil {
		err = fmt.Errorf("claim item: %w", err)
		log.Error("failed to mark item processing", zap.Error(err))
		return err
	}

	// A claimed item must leave PROCESSING even when ctx is canceled.
	bookkeeping := context.WithoutCancel(ctx)

	if err := p.dispatch(ctx, item); err != nil {
		log.Warn("sync item failed", zap.Error(err))
		p.writeBack(bookkeeping, item, entities.EntitySyncError)
		p.applyBackoff(bookkeeping, item, err)
		return err
	}

	p.writeBack(bookkeeping, item, entities.EntitySyncSynced)

	completed := entities.QueueStatusCompleted
	now := p.now()
	empty := ""
	err := p.deps.Queue.UpdateItem(bookkeeping, item.ID, entities.SyncQueueItemChanges{
		Status:       &completed,
		ErrorMessage: &empty,
		ProcessedAt:  &now,
	})
	if err != nil {
		err = fmt.Errorf("complete item: %w", err)
		log.Error("failed to mark item completed", zap.Error(err))
		p.applyBackoff(bookkeeping, item, err)
		return err
	}

	item.Status = completed
	item.ProcessedAt = &now
	log.Debug("sync item completed")
	return nil
}

func (p *Processor) dispatch(ctx context.Context, item *entities.SyncQueueItem) error {
	switch item.Action {
	case entities.SyncActionCreate, entities.SyncActionUpdate:
		article, err := p.buildArticle(ctx, item)
		if err != nil {
			return err
		}
		return p.deps.Gateway.PushArticles(ctx, item.StoreID, []aims.Article{article})
	case entities.SyncActionDelete:
		articleID, err := p.resolveDeleteID(ctx, item)
		if err != nil {
			return err
		}
		if articleID == "" {
			p.itemLogger(item).Debug("no external id to delete, treating as done")
			return nil
		}
		return p.deps.Gateway.DeleteArticles(ctx, item.StoreID, []string{articleID})
	case entities.SyncActionSyncFull:
		// Full syncs run outside the queue.
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, item.Action)
}

func (p *Processor) buildArticle(ctx context.Context, item *entities.SyncQueueItem) (aims.Article, error) {
	switch item.EntityType {
	case entities.EntityTypeSpace:
		space, err := p.deps.Spaces.FindByID(ctx, item.EntityID)
		if err != nil {
			return aims.Article{}, fmt.Errorf("load space %s: %w", item.EntityID, err)
		}
		return BuildSpaceArticle(space)
	case entities.EntityTypePerson:
		person, err := p.deps.People.FindByID(ctx, item.EntityID)
		if err != nil {
			return aims.Article{}, fmt.Errorf("load person %s: %w", item.EntityID, err)
		}
		return BuildPersonArticle(person)
	case entities.EntityTypeConference:
		room, err := p.deps.Conference.FindByID(ctx, item.EntityID)
		if err != nil {
			return aims.Article{}, fmt.Errorf("load conference room %s: %w", item.EntityID, err)
		}
		return BuildConferenceArticle(room)
	}
	return aims.Article{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, item.EntityType)
}

// writeBack is best effort. A missing row means the entity was deleted
// concurrently, which is expected for DELETE items.
func (p *Processor) writeBack(ctx context.Context, item *entities.SyncQueueItem, status entities.EntitySyncStatus) {
	state := entities.SyncState{SyncStatus: status}
	if status == entities.EntitySyncSynced {
		now := p.now()
		state.LastSyncedAt = &now
	}

	var err error
	switch item.EntityType {
	case entities.EntityTypeSpace:
		err = p.deps.Spaces.UpdateSyncState(ctx, item.EntityID, state)
	case entities.EntityTypePerson:
		err = p.deps.People.UpdateSyncState(ctx, item.EntityID, state)
	case entities.EntityTypeConference:
		err = p.deps.Conference.UpdateSyncState(ctx, item.EntityID, state)
	default:
		return
	}

	log := p.itemLogger(item)
	switch {
	case errors.Is(err, entities.ErrNotFound):
		log.Debug("entity gone, sync state not written", zap.String("sync_status", string(status)))
	case err != nil:
		log.Warn("failed to write entity sync state", zap.String("sync_status", string(status)), zap.Error(err))
	}
}

func (p *Processor) stampStore(ctx context.Context, storeID string) {
	if err := p.deps.Stores.UpdateLastAimsSync(context.WithoutCancel(ctx), storeID, p.now()); err != nil {
		p.logger.Warn("failed to update store last sync time", zap.String("store_id", storeID), zap.Error(err))
	}
}

func (p *Processor) markSkipped(ctx context.Context, item *entities.SyncQueueItem, reason string) {
	failed := entities.QueueStatusFailed
	now := p.now()
	err := p.deps.Queue.UpdateItem(ctx, item.ID, entities.SyncQueueItemChanges{
		Status:       &failed,
		ErrorMessage: &reason,
		ProcessedAt:  &now,
	})
	if err != nil {
		p.itemLogger(item).Error("failed to mark item skipped", zap.Error(err))
		return
	}
	item.Status = failed
	item.ErrorMessage = reason
	item.ProcessedAt = &now
}

func (p *Processor) itemLogger(item *entities.SyncQueueItem) *zap.Logger {
	return p.logger.With(
		zap.String("item_id", item.ID),
		zap.String("store_id", item.StoreID),
		zap.String("entity_type", string(item.EntityType)),
		zap.String("action", string(item.Action)),
		zap.Int("attempts", item.Attempts))
}
