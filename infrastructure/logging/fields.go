package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for mining and federation logging.

// ClientID adds a federated client ID field.
func ClientID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("client_id", id)
	}
}

// SessionID adds a federation session ID field.
func SessionID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("session_id", id)
	}
}

// Round adds an aggregation round field.
func Round(round int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("round", round)
	}
}

// Threshold adds the minimum-utility threshold field.
func Threshold(min float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("min_utility", strconv.FormatFloat(min, 'g', -1, 64))
	}
}

// Itemsets adds an itemset count field.
func Itemsets(count int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("itemsets", count)
	}
}

// Transactions adds a transaction count field.
func Transactions(count int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("transactions", count)
	}
}

// Skipped adds a skipped-transaction count field.
func Skipped(count int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("skipped", count)
	}
}

// Partial adds the partial-result flag field.
func Partial(partial bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("partial", partial)
	}
}

// Item adds an item ID field.
func Item(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("item", id)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Operation adds an operation field.
func Operation(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", op)
	}
}

// Path adds a file path field.
func Path(path string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", path)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
