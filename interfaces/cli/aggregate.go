package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/upgrowth/application"
	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/interfaces/api"
)

// aggregateOptions holds options for the aggregate command.
type aggregateOptions struct {
	minUtility float64
	output     string
}

// newAggregateCmd creates the aggregate command.
func (a *App) newAggregateCmd() *cobra.Command {
	opts := &aggregateOptions{}

	cmd := &cobra.Command{
		Use:   "aggregate [result.json...]",
		Short: "Aggregate local mining results across data holders",
		Long: `Run an in-process federated aggregation over local result files.

Each file is one data holder's mining output as produced by
'upgrowth mine -o json'. Itemsets with identical item content are unioned
with summed utilities and supports, and the global threshold is re-applied
after summation, so itemsets that only qualify jointly surface in the
global view.

Examples:
  upgrowth aggregate --min-utility 500 store_a.json store_b.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAggregate(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().Float64Var(&opts.minUtility, "min-utility", 0, "Global minimum-utility threshold")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format: text, json, or csv")

	return cmd
}

func (a *App) runAggregate(ctx context.Context, opts *aggregateOptions, paths []string) error {
	svc, err := api.NewAggregationService(application.AggregationConfig{
		Config: federation.Config{MinUtility: opts.minUtility},
	})
	if err != nil {
		return err
	}

	for _, path := range paths {
		rs, err := readResultFile(path)
		if err != nil {
			return err
		}

		clientID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		session, _, err := svc.Register(ctx, federation.Client{ID: clientID})
		if err != nil {
			return fmt.Errorf("register %s: %w", clientID, err)
		}
		err = svc.Submit(ctx, federation.LocalResult{
			ClientID:  clientID,
			SessionID: session.ID,
			Itemsets:  rs.Itemsets,
		})
		if err != nil {
			return fmt.Errorf("submit %s: %w", clientID, err)
		}
	}

	global, err := svc.Aggregate(ctx, 0)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stderr, "aggregated %d clients, %d global itemsets\n",
		global.ParticipatingClients, len(global.Itemsets))
	return a.render(mining.ResultSet{Itemsets: global.Itemsets}, opts.output)
}

func readResultFile(path string) (mining.ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mining.ResultSet{}, fmt.Errorf("read %s: %w", path, err)
	}
	var rs mining.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return mining.ResultSet{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return rs, nil
}
