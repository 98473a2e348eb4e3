package main

import (
	"fmt"
	"os"
	"time"

	"grantdir/internal/adapters/grantsapi"
	"grantdir/internal/core/geo"
	"grantdir/internal/core/listing"
	"grantdir/internal/platform/config"

	"github.com/spf13/cobra"
)

// CLI flags shared by the remote commands
type globals struct {
	api     string
	kind    string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.New().Prefix("GRANTDIR_")
	g := &globals{}

	root := &cobra.Command{
		Use:   "grantdir-tool",
		Short: "Inspect slugs, paths, and search results for the grant directory",
		Long: `grantdir-tool runs the directory's path and jurisdiction rules locally and
queries a running API for search, facets, and an interactive filter session.

The API root defaults to GRANTDIR_API or http://localhost:4000/api.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.api, "api", cfg.MayString("API", "http://localhost:4000/api"), "API root including /api")
	root.PersistentFlags().StringVar(&g.kind, "kind", "grant", "listing kind: grant or job")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 10*time.Second, "per request timeout")

	resolver := geo.NewResolver(geo.MustTable(geo.USStates()))
	root.AddCommand(
		newSlugCmd(),
		newPathCmd(resolver),
		newJurisdictionCmd(resolver),
		newSearchCmd(g),
		newFacetsCmd(g),
		newBrowseCmd(g),
	)
	return root
}

func (g *globals) listingKind() (listing.Kind, error) {
	k, ok := listing.ParseKind(g.kind)
	if !ok {
		return "", fmt.Errorf("--kind must be grant or job, got %q", g.kind)
	}
	return k, nil
}

func (g *globals) client() (*grantsapi.Client, error) {
	k, err := g.listingKind()
	if err != nil {
		return nil, err
	}
	return grantsapi.NewClient(grantsapi.Options{BaseURL: g.api, Kind: k, Timeout: g.timeout}), nil
}
