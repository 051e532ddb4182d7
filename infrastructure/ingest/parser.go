// Package ingest loads transaction datasets: a parser for the foodmart
// line format, a synthetic dataset generator, and a directory watcher
// that feeds new files into a running tree.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
)

var (
	// ErrMalformedLine indicates a line that does not follow the
	// items:utilities:quantities format.
	ErrMalformedLine = errors.New("malformed transaction line")

	// ErrDatasetNotFound indicates the dataset file does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")
)

// LoadReport summarizes one dataset load.
type LoadReport struct {
	Loaded  int
	Skipped int
}

// ParseLine parses one foodmart-format line:
//
//	item1 item2 ... itemN:utility1 ... utilityN:quantity1 ... quantityN
//
// Surrounding quotes are tolerated. The three sections must agree on
// length.
func ParseLine(line string) (transaction.Transaction, error) {
	cleaned := strings.TrimSpace(line)
	cleaned = strings.Trim(cleaned, `"`)
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")

	parts := strings.Split(cleaned, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 sections, got %d", ErrMalformedLine, len(parts))
	}

	items := strings.Fields(parts[0])
	utilityFields := strings.Fields(parts[1])
	quantityFields := strings.Fields(parts[2])

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrMalformedLine)
	}
	if len(items) != len(utilityFields) || len(items) != len(quantityFields) {
		return nil, fmt.Errorf("%w: %d items, %d utilities, %d quantities",
			ErrMalformedLine, len(items), len(utilityFields), len(quantityFields))
	}

	tx := make(transaction.Transaction, 0, len(items))
	for i, id := range items {
		utility, err := strconv.ParseFloat(utilityFields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: utility %q", ErrMalformedLine, utilityFields[i])
		}
		quantity, err := strconv.Atoi(quantityFields[i])
		if err != nil {
			return nil, fmt.Errorf("%w: quantity %q", ErrMalformedLine, quantityFields[i])
		}
		tx = append(tx, transaction.Item{ID: id, Quantity: quantity, Utility: utility})
	}

	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	return tx, nil
}

// Load reads foodmart-format lines from r and appends the parsed
// transactions to store. Malformed lines are skipped and counted, never
// fatal; blank lines and a leading "transaction" CSV header are ignored.
func Load(ctx context.Context, r io.Reader, store transaction.Store) (LoadReport, error) {
	var report LoadReport

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if line == "transaction" {
				continue
			}
		}

		tx, err := ParseLine(line)
		if err != nil {
			report.Skipped++
			continue
		}
		if err := store.Append(ctx, tx); err != nil {
			return report, err
		}
		report.Loaded++
	}
	if err := scanner.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// LoadFile loads a foodmart-format dataset file into store.
func LoadFile(ctx context.Context, path string, store transaction.Store) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadReport{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return LoadReport{}, err
	}
	defer f.Close()

	return Load(ctx, f, store)
}
