package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/launchdash/internal/domain/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSummaryCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count launches and successes per site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, _, err := openService(ctx, g)
			if err != nil {
				return err
			}
			defer svc.Stop()

			sum, err := svc.Summary(ctx)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), sum, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, yaml or json")
	return cmd
}

func writeSummary(out io.Writer, sum types.Summary, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(sum); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "SITE\tLAUNCHES\tSUCCESSES\n")
		fmt.Fprintf(w, "----\t--------\t---------\n")
		for _, s := range sum.Sites {
			fmt.Fprintf(w, "%s\t%d\t%d\n", s.Site, s.Launches, s.Successes)
		}
		fmt.Fprintf(w, "TOTAL\t%d\t%d\n", sum.Records, sum.Successes)
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nPayload: %g to %g kg\nBoosters: %s\n", sum.MinPayload, sum.MaxPayload, strings.Join(sum.Boosters, ", "))
		return nil
	default:
		return fmt.Errorf("unknown format %q: want table, yaml or json", format)
	}
}
