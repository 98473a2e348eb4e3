// Package slug derives URL-safe, lowercase, hyphenated tokens from free text
// Output only ever contains [a-z0-9-] with no leading, trailing, or doubled hyphens
package slug

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// fold chains are not safe for concurrent use so each caller borrows one
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)), // drop accents after decomposition
			width.Fold,
			norm.NFC,
		)
	},
}

// fold maps accented and fullwidth runes to their plain ASCII base where one exists
func fold(s string) string {
	tr := foldPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Slugify lowercases s, spells out "&" as "and", and collapses every run of
// non alphanumeric characters into a single hyphen
func Slugify(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	s = strings.ToLower(fold(s))
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteByte(c)
			continue
		}
		pending = true
	}
	return b.String()
}

// ShortID returns the first hyphen delimited segment of id, lowercased
// ids without a hyphen come back whole; leading empty segments are skipped
func ShortID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	for seg := range strings.SplitSeq(id, "-") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

// TitleSlug joins the slugified title with the short id
// an all symbol title collapses to the bare short id so the segment is never degenerate
// the short id is slugified too, which leaves hex ids untouched
func TitleSlug(title, id string) string {
	ts := Slugify(title)
	sid := Slugify(ShortID(id))
	switch {
	case ts == "":
		return sid
	case sid == "":
		return ts
	default:
		return ts + "-" + sid
	}
}

// DeriveAgencySlug slugifies the first candidate with content
// callers pass candidates in priority order: explicit slug, code, name, raw agency text
func DeriveAgencySlug(candidates ...string) string {
	for _, c := range candidates {
		if s := Slugify(c); s != "" {
			return s
		}
	}
	return ""
}

// ContainsToken reports whether the hyphen separated token sequence kw appears in
// the slug s on token boundaries, so "us" matches "us-grants" but not "missouri"
func ContainsToken(s, kw string) bool {
	if s == "" || kw == "" {
		return false
	}
	return strings.Contains("-"+s+"-", "-"+kw+"-")
}
