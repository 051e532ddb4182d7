package cli

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/upgrowth/infrastructure/ingest"
)

// generateOptions holds options for the generate command.
type generateOptions struct {
	transactions  int
	minItems      int
	maxItems      int
	frequentShare float64
	seed          int64
	header        bool
	outputPath    string
}

// newGenerateCmd creates the generate command.
func (a *App) newGenerateCmd() *cobra.Command {
	defaults := ingest.DefaultGeneratorConfig()
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic dataset",
		Long: `Generate a synthetic transaction dataset in the foodmart line format.

A fraction of the transactions repeat itemsets from a fixed frequent pool,
so the output actually contains high-utility patterns to find. The same
seed reproduces the same dataset.

Examples:
  # 1500 transactions to stdout
  upgrowth generate

  # A larger reproducible dataset to a file
  upgrowth generate --transactions 10000 --seed 7 -o retail.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ingest.GeneratorConfig{
				Transactions:  opts.transactions,
				MinItems:      opts.minItems,
				MaxItems:      opts.maxItems,
				FrequentShare: opts.frequentShare,
				Seed:          opts.seed,
				Header:        opts.header,
			}
			if opts.outputPath != "" {
				return ingest.GenerateFile(opts.outputPath, cfg)
			}
			return ingest.Generate(a.stdout, cfg)
		},
	}

	cmd.Flags().IntVar(&opts.transactions, "transactions", defaults.Transactions, "Number of transactions")
	cmd.Flags().IntVar(&opts.minItems, "min-items", defaults.MinItems, "Minimum items per transaction")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", defaults.MaxItems, "Maximum items per transaction")
	cmd.Flags().Float64Var(&opts.frequentShare, "frequent-share", defaults.FrequentShare, "Fraction drawn from the frequent itemset pool")
	cmd.Flags().Int64Var(&opts.seed, "seed", defaults.Seed, "Random seed")
	cmd.Flags().BoolVar(&opts.header, "header", false, "Write a CSV header line")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output file (default stdout)")

	return cmd
}
