package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/filtersync"

	"github.com/spf13/cobra"
)

const browseHelp = `commands:
  k <text>          set the keyword (debounced)
  set <field> <v>   set category, state, city, agency, jurisdiction, has_apply_link
  page <n>          go to page n
  size <n>          set the page size
  reset             clear unlocked filters
  url               print the current address
  quit`

func newBrowseCmd(g *globals) *cobra.Command {
	var start string
	var lock []string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Drive a filter session interactively against the API",
		Long:  "browse keeps filters, the address query string, and results in sync the way the search page does.\n\n" + browseHelp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			loc, err := filtersync.NewMemoryLocation(start)
			if err != nil {
				return fmt.Errorf("bad --url: %w", err)
			}

			var fields []filters.Field
			for _, name := range lock {
				f, ok := filters.ParseField(name)
				if !ok {
					return fmt.Errorf("unknown field %q in --lock", name)
				}
				fields = append(fields, f)
			}
			locked, err := filters.Decode(loc.Query())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var (
				mu      sync.Mutex
				printed uint64
			)
			s := filtersync.New(filtersync.Options{
				Location:     loc,
				Searcher:     c,
				Locked:       locked,
				LockedFields: fields,
				OnUpdate: func(v filtersync.View) {
					if v.Loading {
						return
					}
					mu.Lock()
					defer mu.Unlock()
					// keyword echoes repeat the last results
					if v.Generation == printed {
						return
					}
					printed = v.Generation
					printView(out, v)
				},
			})
			s.Start(cmd.Context())
			s.Wait()
			return browseLoop(cmd.InOrStdin(), out, s, loc)
		},
	}
	cmd.Flags().StringVar(&start, "url", "/grants", "starting address, e.g. /grants?state=CA")
	cmd.Flags().StringSliceVar(&lock, "lock", nil, "fields pinned to their starting value")
	return cmd
}

func browseLoop(in io.Reader, out io.Writer, s *filtersync.Synchronizer, loc *filtersync.MemoryLocation) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "":
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Fprintln(out, browseHelp)
		case "k", "keyword":
			s.SetKeyword(rest)
		case "set":
			name, value, _ := strings.Cut(rest, " ")
			f, ok := filters.ParseField(name)
			if !ok {
				fmt.Fprintf(out, "unknown field %q\n", name)
				break
			}
			if !s.Set(f, strings.TrimSpace(value)) && s.Locked(f) {
				fmt.Fprintf(out, "%s is locked\n", f)
			}
		case "page", "size":
			n, err := strconv.Atoi(rest)
			if err != nil {
				fmt.Fprintf(out, "%s needs a number\n", cmd)
				break
			}
			if cmd == "page" {
				s.GoToPage(n)
			} else {
				s.SetPageSize(n)
			}
		case "reset":
			s.Reset()
		case "url":
			fmt.Fprintln(out, loc.String())
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
		}
		s.Wait()
		fmt.Fprint(out, "> ")
	}
	return sc.Err()
}

func printView(w io.Writer, v filtersync.View) {
	if v.Err != "" {
		fmt.Fprintln(w, v.Err)
		return
	}
	fmt.Fprintf(w, "\n[%s]\n", filters.EncodeString(v.Filters))
	printPage(w, v.Results)
}
