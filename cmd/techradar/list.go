package main

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/tech_radar/pkg/catalog"
	"github.com/iWorld-y/tech_radar/pkg/collection"
	"github.com/iWorld-y/tech_radar/pkg/config"
	"github.com/iWorld-y/tech_radar/pkg/storage"
)

func newTechnologiesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "technologies",
		Short: "List the selectable technology categories and subfields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 配置文件不存在时使用内置列表
			var items []catalog.Technology
			if cfg, err := config.LoadConfig(opts.configPath); err == nil {
				items = cfg.Technologies
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Category", "Subfields"})
			table.SetAutoWrapText(false)
			for _, t := range catalog.New(items).Technologies() {
				table.Append([]string{t.Category, strings.Join(t.Subfields, "; ")})
			}
			table.Render()
			return nil
		},
	}
}

func newCollectionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List cached collections in the document store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := storage.Open(ctx, cfg.Data)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(ctx) }()

			names, err := store.CollectionNames(ctx)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Collection", "Date", "Technology", "Kind", "Documents"})
			for _, name := range names {
				n, err := collection.Parse(name)
				if err != nil {
					continue
				}
				count, err := store.CountArticles(ctx, name)
				if err != nil {
					return err
				}
				kind := "articles"
				if n.Prediction {
					kind = "prediction"
				}
				table.Append([]string{name, n.Date.Format("2006-01-02"), n.Slug, kind, strconv.FormatInt(count, 10)})
			}
			table.Render()
			return nil
		},
	}
}
