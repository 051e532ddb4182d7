package transaction_test

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
)

func TestTransaction_Utility(t *testing.T) {
	t.Parallel()

	tx := transaction.Transaction{
		{ID: "a", Quantity: 2, Utility: 20},
		{ID: "b", Quantity: 1, Utility: 5.5},
	}
	if got := tx.Utility(); got != 25.5 {
		t.Errorf("Utility() = %v, want 25.5", got)
	}
}

func TestTransaction_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tx      transaction.Transaction
		wantErr error
	}{
		{
			name:    "empty transaction",
			tx:      transaction.Transaction{},
			wantErr: transaction.ErrEmptyTransaction,
		},
		{
			name:    "missing item id",
			tx:      transaction.Transaction{{ID: "", Quantity: 1}},
			wantErr: transaction.ErrMissingItemID,
		},
		{
			name:    "zero quantity",
			tx:      transaction.Transaction{{ID: "a", Quantity: 0}},
			wantErr: transaction.ErrInvalidQuantity,
		},
		{
			name:    "negative utility",
			tx:      transaction.Transaction{{ID: "a", Quantity: 1, Utility: -1}},
			wantErr: transaction.ErrNegativeUtility,
		},
		{
			name: "valid single item",
			tx:   transaction.Transaction{{ID: "a", Quantity: 1, Utility: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.tx.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransaction_Items(t *testing.T) {
	t.Parallel()

	tx := transaction.Transaction{
		{ID: "b", Quantity: 1},
		{ID: "a", Quantity: 1},
		{ID: "b", Quantity: 2},
	}
	got := tx.Items()
	want := []string{"b", "a"}
	if len(got) != len(want) {
		t.Fatalf("Items() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Items()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUtilityTable_Fallback(t *testing.T) {
	t.Parallel()

	table := transaction.UtilityTable{"a": 10}
	if got := table.Utility("a"); got != 10 {
		t.Errorf("Utility(a) = %v, want 10", got)
	}
	if got := table.Utility("ghost"); got != transaction.DefaultFallbackUtility {
		t.Errorf("Utility(ghost) = %v, want fallback %v", got, transaction.DefaultFallbackUtility)
	}
	if table.Has("ghost") {
		t.Error("Has(ghost) = true, want false")
	}
}

func TestUtilityTable_Synthesize(t *testing.T) {
	t.Parallel()

	table := transaction.UtilityTable{"a": 10}
	txs := []transaction.Transaction{
		{{ID: "a", Quantity: 1}, {ID: "b", Quantity: 1}},
		{{ID: "c", Quantity: 2}},
	}
	added := table.Synthesize(txs)
	if added != 2 {
		t.Errorf("Synthesize() = %d entries added, want 2", added)
	}
	if table["a"] != 10 {
		t.Errorf("existing entry overwritten: a = %v", table["a"])
	}
	for _, id := range []string{"b", "c"} {
		if !table.Has(id) {
			t.Errorf("Has(%s) = false after Synthesize", id)
		}
	}
}
