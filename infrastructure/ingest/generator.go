package ingest

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// GeneratorConfig parameterizes synthetic dataset generation.
type GeneratorConfig struct {
	// Transactions is the number of lines to generate.
	Transactions int

	// MinItems and MaxItems bound the items per random transaction.
	MinItems int
	MaxItems int

	// FrequentShare is the fraction of transactions drawn from the
	// frequent itemset pool (0.0-1.0).
	FrequentShare float64

	// Seed makes the output reproducible.
	Seed int64

	// Header writes a "transaction" CSV header line first.
	Header bool
}

// DefaultGeneratorConfig returns the defaults used by the CLI.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Transactions:  1500,
		MinItems:      2,
		MaxItems:      6,
		FrequentShare: 0.3,
		Seed:          1,
	}
}

var itemPool = []string{
	"bread", "milk", "eggs", "cheese", "butter", "yogurt", "cereal", "pasta", "rice", "beans",
	"coffee", "tea", "juice", "soda", "water", "beer", "wine", "energy_drink",
	"chips", "cookies", "crackers", "nuts", "candy", "chocolate", "popcorn", "pretzels",
	"soap", "shampoo", "toothpaste", "paper_towels", "detergent",
	"batteries", "phone_charger", "headphones", "usb_cable",
	"socks", "t_shirt", "jeans", "shoes",
	"vitamins", "pain_reliever", "bandages", "sunscreen",
}

var frequentItemsets = [][]string{
	{"milk", "bread"},
	{"chips", "soda"},
	{"coffee", "cookies"},
	{"rice", "beans"},
	{"detergent", "paper_towels"},
	{"shampoo", "soap"},
	{"popcorn", "candy", "soda"},
	{"t_shirt", "jeans"},
	{"batteries", "phone_charger"},
}

// Generate writes cfg.Transactions foodmart-format lines to w. Roughly
// FrequentShare of them repeat itemsets from a fixed pool so that the
// dataset actually contains high-utility patterns.
func Generate(w io.Writer, cfg GeneratorConfig) error {
	if cfg.Transactions <= 0 {
		return fmt.Errorf("transactions must be positive, got %d", cfg.Transactions)
	}
	if cfg.MinItems < 1 || cfg.MaxItems < cfg.MinItems {
		return fmt.Errorf("invalid item bounds [%d, %d]", cfg.MinItems, cfg.MaxItems)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	bw := bufio.NewWriter(w)

	if cfg.Header {
		if _, err := bw.WriteString("transaction\n"); err != nil {
			return err
		}
	}

	frequent := int(float64(cfg.Transactions) * cfg.FrequentShare)
	for i := 0; i < cfg.Transactions; i++ {
		var items []string
		if i < frequent {
			items = frequentItemsets[rng.Intn(len(frequentItemsets))]
		} else {
			n := cfg.MinItems + rng.Intn(cfg.MaxItems-cfg.MinItems+1)
			items = sampleItems(rng, n)
		}

		if _, err := bw.WriteString(formatLine(rng, items)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// GenerateFile writes a synthetic dataset to path.
func GenerateFile(path string, cfg GeneratorConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Generate(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sampleItems(rng *rand.Rand, n int) []string {
	perm := rng.Perm(len(itemPool))
	items := make([]string, n)
	for i := 0; i < n; i++ {
		items[i] = itemPool[perm[i]]
	}
	return items
}

func formatLine(rng *rand.Rand, items []string) string {
	utilities := make([]string, len(items))
	quantities := make([]string, len(items))
	for i := range items {
		utilities[i] = fmt.Sprintf("%d", 10+rng.Intn(41))
		quantities[i] = fmt.Sprintf("%d", 1+rng.Intn(5))
	}
	return strings.Join(items, " ") + ":" +
		strings.Join(utilities, " ") + ":" +
		strings.Join(quantities, " ") + "\n"
}
