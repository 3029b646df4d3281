package catalog

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/options"
)

// Search filters items by a case-insensitive label match. Prefix matches come
// first; otherwise the collection's own order is kept, since option order is
// display order.
func Search(items []options.Option, query string, limit int, opts Options) []options.Option {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchNone {
			return nil
		}
		if len(items) <= limit {
			return append([]options.Option{}, items...)
		}
		return append([]options.Option{}, items[:limit]...)
	}

	q := strings.ToLower(query)
	matches := make([]matchedOption, 0, len(items))
	for _, item := range items {
		label := strings.ToLower(item.Label)
		if !strings.Contains(label, q) {
			continue
		}
		matches = append(matches, matchedOption{
			option:   item,
			isPrefix: strings.HasPrefix(label, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]options.Option, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.option)
	}
	return out
}

type matchedOption struct {
	option   options.Option
	isPrefix bool
}
