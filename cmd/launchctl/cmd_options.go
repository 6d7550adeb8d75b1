package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newOptionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the site selector options and the payload slider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, _, err := openService(ctx, g)
			if err != nil {
				return err
			}
			defer svc.Stop()

			opts, err := svc.SiteOptions(ctx)
			if err != nil {
				return err
			}
			sl, err := svc.Slider(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "VALUE\tLABEL\n")
			for _, o := range opts {
				fmt.Fprintf(w, "%s\t%s\n", o.Value, o.Label)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nPayload range: %d to %d kg, step %d, %d marks\n", sl.Min, sl.Max, sl.Step, len(sl.Marks))
			return nil
		},
	}
}
