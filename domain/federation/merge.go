package federation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
)

// MergeAggregator is the in-process reference Aggregator: itemsets are
// unioned across clients, utilities and supports summed for identical
// item content, and the global threshold re-applied after summation so
// itemsets that only qualify jointly surface in the global view.
type MergeAggregator struct {
	config Config

	mu          sync.Mutex
	clients     map[string]Client
	sessions    map[string]Session
	rounds      map[int][]LocalResult
	submitted   map[string]map[int]bool
	global      GlobalResult
	globalValid bool
}

// NewMergeAggregator creates an aggregator with the given global
// configuration.
func NewMergeAggregator(cfg Config) *MergeAggregator {
	return &MergeAggregator{
		config:    cfg,
		clients:   make(map[string]Client),
		sessions:  make(map[string]Session),
		rounds:    make(map[int][]LocalResult),
		submitted: make(map[string]map[int]bool),
	}
}

// Register implements Aggregator.
func (a *MergeAggregator) Register(ctx context.Context, c Client) (Session, Config, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, Config{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.clients[c.ID]; ok {
		return Session{}, Config{}, ErrClientExists
	}

	now := time.Now()
	c.RegisteredAt = now
	c.LastSeen = now
	a.clients[c.ID] = c

	s := Session{
		ID:        uuid.NewString(),
		ClientID:  c.ID,
		Status:    SessionActive,
		CreatedAt: now,
	}
	a.sessions[s.ID] = s
	a.submitted[c.ID] = make(map[int]bool)
	return s, a.config, nil
}

// Submit implements Aggregator.
func (a *MergeAggregator) Submit(ctx context.Context, r LocalResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[r.SessionID]
	if !ok || s.Status != SessionActive || s.ClientID != r.ClientID {
		return ErrUnknownSession
	}
	if a.submitted[r.ClientID][r.Round] {
		return ErrDuplicateSubmission
	}
	a.submitted[r.ClientID][r.Round] = true
	a.rounds[r.Round] = append(a.rounds[r.Round], r)

	c := a.clients[r.ClientID]
	c.LastSeen = time.Now()
	a.clients[r.ClientID] = c
	return nil
}

// Aggregate implements Aggregator.
func (a *MergeAggregator) Aggregate(ctx context.Context, round int) (GlobalResult, error) {
	if err := ctx.Err(); err != nil {
		return GlobalResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	results := a.rounds[round]
	if len(results) == 0 {
		return GlobalResult{}, ErrRoundNotReady
	}

	type sum struct {
		items   []string
		utility float64
		support int
	}
	byKey := make(map[string]sum)
	global := GlobalResult{Round: round}
	for _, r := range results {
		global.ParticipatingClients++
		global.TotalTransactions += r.TransactionCount
		for _, s := range r.Itemsets {
			agg := byKey[s.Key()]
			if agg.items == nil {
				agg.items = s.Items
			}
			agg.utility += s.Utility
			agg.support += s.Support
			byKey[s.Key()] = agg
		}
	}

	for _, agg := range byKey {
		if agg.utility < a.config.MinUtility {
			continue
		}
		global.Itemsets = append(global.Itemsets, mining.NewItemset(agg.items, agg.utility, agg.support))
	}
	mining.SortItemsets(global.Itemsets)

	a.global = global
	a.globalValid = true
	return global, nil
}

// Global implements Aggregator.
func (a *MergeAggregator) Global(ctx context.Context) (GlobalResult, error) {
	if err := ctx.Err(); err != nil {
		return GlobalResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.globalValid {
		return GlobalResult{}, ErrNoGlobalResult
	}
	return a.global, nil
}
