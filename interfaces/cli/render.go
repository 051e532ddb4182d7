package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
)

func renderText(w io.Writer, rs mining.ResultSet) error {
	if rs.Len() == 0 {
		_, err := fmt.Fprintln(w, "no high-utility itemsets found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEMSET\tUTILITY\tSUPPORT")
	for _, s := range rs.Itemsets {
		fmt.Fprintf(tw, "%s\t%.2f\t%d\n", strings.Join(s.Items, " "), s.Utility, s.Support)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rs.Partial {
		_, err := fmt.Fprintf(w, "(partial: result cap reached, %d itemsets emitted)\n", rs.Len())
		return err
	}
	return nil
}

func renderJSON(w io.Writer, rs mining.ResultSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rs)
}

func renderCSV(w io.Writer, rs mining.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"itemset", "utility", "support"}); err != nil {
		return err
	}
	for _, s := range rs.Itemsets {
		record := []string{
			strings.Join(s.Items, " "),
			strconv.FormatFloat(s.Utility, 'f', -1, 64),
			strconv.Itoa(s.Support),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
