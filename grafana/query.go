package grafana

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidCommand means the command tail had no usable dashboard slug.
var ErrInvalidCommand = errors.New("invalid command: missing dashboard slug")

type SelectorKind int

const (
	SelectorNone SelectorKind = iota
	// SelectorByOrdinal matches a panel by its 1-based position in
	// flattened row order, not by the panel's own id field.
	SelectorByOrdinal
	SelectorByName
)

type Selector struct {
	Kind    SelectorKind
	Ordinal int
	Name    string // lowercased substring
}

type TimeRange struct {
	From string
	To   string
}

const (
	DefaultFrom = "now-6h"
	DefaultTo   = "now"
)

// Query is the parsed form of a "db ..." command tail. Immutable once built.
type Query struct {
	Slug      string
	Selector  Selector
	Range     TimeRange
	Variables []string // raw key=value tokens, input order, duplicates kept
}

// Parser turns a command tail into a Query. Defaults fills the time range
// when the command omits it; the zero value falls back to now-6h/now.
type Parser struct {
	Defaults TimeRange
}

// Parse consumes the text after the "db" keyword:
//
//	<slug>[:<selector>] [<from>] [<to>] [<key>=<value> ...]
//
// The first token splits on the first colon; an integer selector picks a
// panel by ordinal, anything else is a case-insensitive title substring.
// Among the remaining tokens, ones containing "=" become variables in input
// order; the first two others fill from and to. Extra positional tokens are
// ignored.
func (p Parser) Parse(tail string) (Query, error) {
	fields := strings.Fields(tail)
	if len(fields) == 0 {
		return Query{}, ErrInvalidCommand
	}

	slug, selRaw, _ := strings.Cut(fields[0], ":")
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Query{}, ErrInvalidCommand
	}

	q := Query{Slug: slug, Range: p.defaults()}
	if selRaw != "" {
		if n, err := strconv.Atoi(selRaw); err == nil {
			q.Selector = Selector{Kind: SelectorByOrdinal, Ordinal: n}
		} else {
			q.Selector = Selector{Kind: SelectorByName, Name: strings.ToLower(selRaw)}
		}
	}

	positional := 0
	for _, tok := range fields[1:] {
		if strings.Contains(tok, "=") {
			q.Variables = append(q.Variables, tok)
			continue
		}
		switch positional {
		case 0:
			q.Range.From = tok
		case 1:
			q.Range.To = tok
		}
		positional++
	}
	return q, nil
}

func (p Parser) defaults() TimeRange {
	tr := p.Defaults
	if strings.TrimSpace(tr.From) == "" {
		tr.From = DefaultFrom
	}
	if strings.TrimSpace(tr.To) == "" {
		tr.To = DefaultTo
	}
	return tr
}
