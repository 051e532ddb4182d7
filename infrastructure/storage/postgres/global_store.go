package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GlobalStore is a PostgreSQL-backed implementation of
// federation.GlobalStore. One row per (session, round); re-aggregating
// a round replaces its row.
type GlobalStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewGlobalStore creates a new PostgreSQL global result store.
func NewGlobalStore(pool *pgxpool.Pool, schema string) *GlobalStore {
	if schema == "" {
		schema = "public"
	}
	return &GlobalStore{
		pool:   pool,
		schema: schema,
	}
}

func (s *GlobalStore) tableName() string {
	return fmt.Sprintf("%s.global_results", s.schema)
}

// Migrate creates the global_results table if it doesn't exist.
func (s *GlobalStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			session_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			itemsets JSONB NOT NULL,
			participating_clients INTEGER NOT NULL,
			total_transactions INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (session_id, round)
		)
	`, s.tableName())

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate global_results: %w", err)
	}
	return nil
}

// SaveGlobal stores the aggregated result for one session round.
func (s *GlobalStore) SaveGlobal(ctx context.Context, sessionID string, g federation.GlobalResult) error {
	if sessionID == "" {
		return federation.ErrInvalidSessionID
	}

	itemsets, err := json.Marshal(g.Itemsets)
	if err != nil {
		return fmt.Errorf("marshal itemsets: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, round, itemsets, participating_clients, total_transactions)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, round) DO UPDATE SET
			itemsets = excluded.itemsets,
			participating_clients = excluded.participating_clients,
			total_transactions = excluded.total_transactions
	`, s.tableName())

	if _, err := s.pool.Exec(ctx, query,
		sessionID, g.Round, itemsets, g.ParticipatingClients, g.TotalTransactions,
	); err != nil {
		return wrapError(err)
	}
	return nil
}

// LoadGlobal returns the aggregated result for one session round.
func (s *GlobalStore) LoadGlobal(ctx context.Context, sessionID string, round int) (federation.GlobalResult, error) {
	query := fmt.Sprintf(`
		SELECT round, itemsets, participating_clients, total_transactions
		FROM %s
		WHERE session_id = $1 AND round = $2
	`, s.tableName())

	return s.scanGlobal(s.pool.QueryRow(ctx, query, sessionID, round))
}

// LatestGlobal returns the most recent aggregated result for a session.
func (s *GlobalStore) LatestGlobal(ctx context.Context, sessionID string) (federation.GlobalResult, error) {
	query := fmt.Sprintf(`
		SELECT round, itemsets, participating_clients, total_transactions
		FROM %s
		WHERE session_id = $1
		ORDER BY round DESC
		LIMIT 1
	`, s.tableName())

	return s.scanGlobal(s.pool.QueryRow(ctx, query, sessionID))
}

// DeleteSession removes every stored round for a session.
func (s *GlobalStore) DeleteSession(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE session_id = $1", s.tableName())

	if _, err := s.pool.Exec(ctx, query, sessionID); err != nil {
		return wrapError(err)
	}
	return nil
}

func (s *GlobalStore) scanGlobal(row pgx.Row) (federation.GlobalResult, error) {
	var (
		g        federation.GlobalResult
		itemsets []byte
	)

	err := row.Scan(&g.Round, &itemsets, &g.ParticipatingClients, &g.TotalTransactions)
	if errors.Is(err, pgx.ErrNoRows) {
		return federation.GlobalResult{}, federation.ErrGlobalNotFound
	}
	if err != nil {
		return federation.GlobalResult{}, wrapError(err)
	}

	if err := json.Unmarshal(itemsets, &g.Itemsets); err != nil {
		return federation.GlobalResult{}, fmt.Errorf("unmarshal itemsets: %w", err)
	}
	return g, nil
}

// wrapError keeps context errors recognizable through the pgx stack.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("postgres: %w", err)
}

var _ federation.GlobalStore = (*GlobalStore)(nil)
