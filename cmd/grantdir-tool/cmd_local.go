package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"grantdir/internal/core/geo"
	"grantdir/internal/core/listing"
	"grantdir/internal/core/paths"
	"grantdir/internal/core/slug"

	"github.com/spf13/cobra"
)

func newSlugCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "slug <text...>",
		Short: "Print the URL slug for a title, with the short id when --id is set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if id != "" {
				fmt.Fprintln(cmd.OutOrStdout(), slug.TitleSlug(text, id))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), slug.Slugify(text))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "listing id whose short form ends the slug")
	return cmd
}

func newPathCmd(r *geo.Resolver) *cobra.Command {
	var (
		kind string
		l    listing.Listing
	)
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the canonical path for a listing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, ok := listing.ParseKind(kind)
			if !ok {
				return fmt.Errorf("--kind must be grant or job, got %q", kind)
			}
			l.Kind = k
			fmt.Fprintln(cmd.OutOrStdout(), paths.NewBuilder(r).ListingPath(l))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "grant", "listing kind: grant or job")
	cmd.Flags().StringVar(&l.Title, "title", "", "listing title")
	cmd.Flags().StringVar(&l.ID, "id", "", "listing id")
	cmd.Flags().StringVar(&l.State, "state", "", "state text as stored")
	cmd.Flags().StringVar(&l.City, "city", "", "city text as stored")
	return cmd
}

func newJurisdictionCmd(r *geo.Resolver) *cobra.Command {
	return &cobra.Command{
		Use:   "jurisdiction <state> [city]",
		Short: "Classify a state and city pair as federal, state, or local",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			city := ""
			if len(args) == 2 {
				city = args[1]
			}
			return printJSON(cmd.OutOrStdout(), r.InferJurisdiction(args[0], city))
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
