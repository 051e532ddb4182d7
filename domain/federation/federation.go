// Package federation defines the boundary between the local mining
// engine and the federated aggregation layer: the types exchanged
// between data holders and the aggregation server, and the Aggregator
// contract. Transport framing is out of scope; implementations may sit
// in-process or behind any wire protocol.
package federation

import (
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
)

// Client describes one registered data holder.
type Client struct {
	ID           string
	Address      string
	Capabilities []string
	RegisteredAt time.Time
	LastSeen     time.Time
}

// SessionStatus tracks the lifecycle of a client session.
type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionExpired SessionStatus = "expired"
	SessionClosed  SessionStatus = "closed"
)

// Session binds a registered client to an aggregation round sequence.
type Session struct {
	ID        string
	ClientID  string
	Round     int
	Status    SessionStatus
	CreatedAt time.Time
}

// Config is the global configuration the server hands to clients at
// registration: every participant mines against the same threshold and
// privacy budget.
type Config struct {
	MinUtility float64
	Epsilon    float64
	Rounds     int
	Timeout    time.Duration
}

// LocalResult is one client's mining output for one round. Utilities
// may already be perturbed by the privacy layer; Noised records that.
type LocalResult struct {
	ClientID         string
	SessionID        string
	Round            int
	Itemsets         []mining.Itemset
	TransactionCount int
	Noised           bool
}

// GlobalResult is the aggregated view across all participating clients.
type GlobalResult struct {
	Itemsets             []mining.Itemset
	Round                int
	ParticipatingClients int
	TotalTransactions    int
}
