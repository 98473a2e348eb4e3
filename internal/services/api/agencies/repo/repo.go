// Package repo provides tabular access for agencies
package repo

import (
	"context"
	"encoding/json"
	"strings"

	"grantdir/internal/core/listing"
	"grantdir/internal/core/paths"
	"grantdir/internal/core/slug"
	"grantdir/internal/modkit/repokit"
	"grantdir/internal/platform/store/tabular"
	grantsrepo "grantdir/internal/services/api/grants/repo"
)

// Repo is the minimal persistence surface for agencies
type Repo interface {
	// List pages agencies by name, optionally filtered by q
	List(ctx context.Context, q string, offset, limit int) ([]listing.Agency, int, error)
	// Resolve finds an agency by slug, then code, then name; ok is false when nothing matches
	Resolve(ctx context.Context, s string) (listing.Agency, bool, error)
}

type (
	// Tabular is a binder that binds the repo to a tabular source
	Tabular struct{ table string }
	// queries implements the Repo interface
	queries struct {
		src   repokit.Source
		table string
	}
)

// NewTabular returns a binder over the agencies table
func NewTabular(table string) repokit.Binder[Repo] {
	if table == "" {
		table = "agencies"
	}
	return Tabular{table: table}
}

// Bind wires a Source to the repo
func (b Tabular) Bind(src repokit.Source) Repo { return &queries{src: src, table: b.table} }

func (r *queries) List(ctx context.Context, q string, offset, limit int) ([]listing.Agency, int, error) {
	query := tabular.Query{
		Table:  r.table,
		Order:  []tabular.Order{tabular.Asc("name"), tabular.Asc("id")},
		Offset: offset,
		Limit:  limit,
		Count:  true,
	}
	if q = strings.TrimSpace(q); q != "" {
		ps := []tabular.Pred{
			tabular.ILike("name", tabular.Contains(q)),
			tabular.ILike("code", tabular.Contains(q)),
		}
		if s := slug.Slugify(q); s != "" {
			ps = append(ps, tabular.ILike("slug", tabular.Contains(s)))
		}
		query.Where = []tabular.Pred{tabular.Or(ps...)}
	}
	res, err := r.src.Select(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	out := make([]listing.Agency, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, toAgency(row))
	}
	return out, res.Total, nil
}

func (r *queries) Resolve(ctx context.Context, s string) (listing.Agency, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return listing.Agency{}, false, nil
	}
	up := strings.ToUpper(s)
	var attempts []tabular.Pred
	// input without a single letter or digit slugifies to "" and would match slugless rows
	if sl := slug.Slugify(s); sl != "" {
		attempts = append(attempts, tabular.Eq("slug", sl))
	}
	attempts = append(attempts,
		tabular.InStrings("code", []string{s, up, strings.ReplaceAll(up, "-", ""), strings.ReplaceAll(up, "-", " ")}),
		tabular.ILike("name", tabular.EscapeLike(strings.ReplaceAll(s, "-", " "))),
	)
	for _, p := range attempts {
		row, ok, err := tabular.First(ctx, r.src, tabular.Query{
			Table: r.table,
			Where: []tabular.Pred{p},
			Order: []tabular.Order{tabular.Asc("id")},
		})
		if err != nil {
			return listing.Agency{}, false, err
		}
		if ok {
			return toAgency(row), true, nil
		}
	}
	return listing.Agency{}, false, nil
}

func toAgency(row repokit.Row) listing.Agency {
	a := listing.Agency{
		ID:          grantsrepo.Text(row["id"]),
		Name:        grantsrepo.Text(row["name"]),
		Code:        grantsrepo.Text(row["code"]),
		Description: grantsrepo.Text(row["description"]),
		Website:     grantsrepo.Text(row["website"]),
		Contact:     rawJSON(row["contact"]),
		CreatedAt:   grantsrepo.Time(row["created_at"]),
		UpdatedAt:   grantsrepo.Time(row["updated_at"]),
	}
	a.Slug = slug.DeriveAgencySlug(grantsrepo.Text(row["slug"]), a.Code, a.Name)
	a.Path = paths.AgencyPath(a.Slug)
	return a
}

// rawJSON keeps a jsonb column as raw JSON whatever shape the driver scanned it into
func rawJSON(v any) json.RawMessage {
	switch x := v.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return x
	case []byte:
		if json.Valid(x) {
			return json.RawMessage(x)
		}
	case string:
		if json.Valid([]byte(x)) {
			return json.RawMessage(x)
		}
	default:
		if b, err := json.Marshal(x); err == nil {
			return b
		}
	}
	return nil
}
