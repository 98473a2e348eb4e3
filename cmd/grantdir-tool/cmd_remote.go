package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/geo"
	"grantdir/internal/core/listing"

	"github.com/spf13/cobra"
)

func newSearchCmd(g *globals) *cobra.Command {
	var (
		f      filters.FilterState
		jur    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "search [keyword...]",
		Short: "Run one search against the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			if len(args) > 0 && f.Query == "" {
				f.Query = strings.Join(args, " ")
			}
			f.Jurisdiction = geo.Level(jur)

			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()
			page, err := c.Search(ctx, f)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), page)
			}
			printPage(cmd.OutOrStdout(), page)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.Query, "keyword", "", "keyword matched against title, summary, description")
	fl.StringVar(&f.Category, "category", "", "category slug, code, or label")
	fl.StringVar(&f.State, "state", "", "state code, name, or federal")
	fl.StringVar(&f.City, "city", "", "city substring")
	fl.StringVar(&f.Agency, "agency", "", "agency name, code, or slug")
	fl.BoolVar(&f.HasApplyLink, "has-apply-link", false, "only listings with an application link")
	fl.StringVar(&jur, "jurisdiction", "", "federal, state, or local")
	fl.IntVar(&f.Page, "page", 1, "page number")
	fl.IntVar(&f.PageSize, "page-size", filters.DefaultPageSize, "page size")
	fl.BoolVar(&asJSON, "json", false, "print the raw page as JSON")
	return cmd
}

func newFacetsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Print category, state, and agency filter options",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()
			fs, err := c.Facets(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), fs)
		},
	}
}

func printPage(w io.Writer, p listing.Page) {
	fmt.Fprintf(w, "%d %s, page %d of %d\n", p.Total, p.Kind.Plural(), p.Page, p.TotalPages)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range p.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Jurisdiction.Level, l.State, l.Title, l.Path)
	}
	_ = tw.Flush()
}
