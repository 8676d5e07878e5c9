package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/tech_radar/pkg/catalog"
	"github.com/iWorld-y/tech_radar/pkg/engine"
	"github.com/iWorld-y/tech_radar/pkg/export"
	"github.com/iWorld-y/tech_radar/pkg/model"
	"github.com/iWorld-y/tech_radar/pkg/storage"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		category, subfield, date, csvPath string
		limit                             int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch articles, recognize organizations and print the company table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			sel, err := parseSelection(catalog.New(cfg.Technologies), category, subfield, date)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := storage.Open(ctx, cfg.Data)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(ctx) }()

			eng, err := engine.NewFromConfig(ctx, cfg, store)
			if err != nil {
				return err
			}

			res, err := eng.Run(ctx, sel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "There are %d articles on %s on %s.\nFound %d companies total.\n",
				res.ArticleCount, sel.Technology(), sel.Date.Format("2006/01/02"), len(res.Companies))
			printMentions(cmd, res.Companies, limit)

			if csvPath != "" {
				if csvPath == "-" {
					csvPath = export.Filename(sel.Date, sel.Technology())
				}
				f, err := os.Create(csvPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := export.WriteCSV(f, res.Companies); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved %s\n", csvPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "technology category")
	cmd.Flags().StringVar(&subfield, "subfield", "", "technology subfield")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD, defaults to today")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the table to a CSV file, '-' uses {date}_{technology}.csv")
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to print, 0 prints all")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func parseSelection(cat *catalog.Catalog, category, subfield, date string) (model.Selection, error) {
	d := time.Now()
	if date != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, date, time.Local)
		if err != nil {
			return model.Selection{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
		}
		d = parsed
	}
	if _, err := cat.Lookup(category, subfield); err != nil {
		return model.Selection{}, err
	}
	return model.Selection{
		Category: category,
		Subfield: subfield,
		Date:     time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()),
	}, nil
}

func printMentions(cmd *cobra.Command, mentions []model.Mention, limit int) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"#", "Name", "Count"})
	for i, m := range mentions {
		if limit > 0 && i >= limit {
			break
		}
		table.Append([]string{strconv.Itoa(i), m.Name, humanize.Comma(int64(m.Count))})
	}
	table.Render()
}
