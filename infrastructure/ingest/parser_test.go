package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
	"github.com/felixgeelhaar/upgrowth/infrastructure/ingest"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/memory"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    transaction.Transaction
		wantErr bool
	}{
		{
			name: "basic line",
			line: "milk bread:10 5:2 1",
			want: transaction.Transaction{
				{ID: "milk", Quantity: 2, Utility: 10},
				{ID: "bread", Quantity: 1, Utility: 5},
			},
		},
		{
			name: "quoted line",
			line: `"coffee:7.5:3"`,
			want: transaction.Transaction{
				{ID: "coffee", Quantity: 3, Utility: 7.5},
			},
		},
		{
			name: "padded sections",
			line: "  a b :  1 2 : 1 1  ",
			want: transaction.Transaction{
				{ID: "a", Quantity: 1, Utility: 1},
				{ID: "b", Quantity: 1, Utility: 2},
			},
		},
		{name: "missing sections", line: "milk bread", wantErr: true},
		{name: "too many sections", line: "a:1:1:extra", wantErr: true},
		{name: "length mismatch", line: "a b:1:1 1", wantErr: true},
		{name: "bad utility", line: "a:x:1", wantErr: true},
		{name: "bad quantity", line: "a:1:x", wantErr: true},
		{name: "zero quantity", line: "a:1:0", wantErr: true},
		{name: "empty items", line: ":1:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ingest.ParseLine(tt.line)
			if tt.wantErr {
				if !errors.Is(err, ingest.ErrMalformedLine) {
					t.Fatalf("ParseLine() error = %v, want ErrMalformedLine", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLine() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseLine() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"transaction",
		"milk bread:10 5:2 1",
		"",
		"broken line without colons",
		`"chips soda:4 3:1 2"`,
		"a b:1:1 1",
	}, "\n")

	store := memory.NewTransactionStore()
	report, err := ingest.Load(context.Background(), strings.NewReader(input), store)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if report.Loaded != 2 {
		t.Errorf("Loaded = %d, want 2", report.Loaded)
	}
	if report.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", report.Skipped)
	}

	n, err := store.Len(context.Background())
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if n != 2 {
		t.Errorf("store.Len() = %d, want 2", n)
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := ingest.LoadFile(context.Background(), "/nonexistent/dataset.txt", memory.NewTransactionStore())
	if !errors.Is(err, ingest.ErrDatasetNotFound) {
		t.Errorf("LoadFile() error = %v, want ErrDatasetNotFound", err)
	}
}
