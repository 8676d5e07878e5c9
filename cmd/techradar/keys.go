package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/tech_radar/pkg/collection"
)

func newKeyCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "key TECHNOLOGY",
		Short: "Print the cache collection names for a technology and date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := time.Now()
			if date != "" {
				parsed, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
				}
				d = parsed
			}
			fmt.Fprintln(cmd.OutOrStdout(), collection.Key(d, args[0]))
			fmt.Fprintln(cmd.OutOrStdout(), collection.PredictionKey(d, args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD, defaults to today")
	return cmd
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse COLLECTION",
		Short: "Split a cache collection name into date and technology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := collection.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "date: %s\ntechnology: %s\nprediction: %t\n",
				n.Date.Format(time.DateOnly), n.Slug, n.Prediction)
			return nil
		},
	}
}
