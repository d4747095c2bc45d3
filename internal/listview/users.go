package listview

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"anonq/internal/domain"
)

// UserPageSize is the fixed page size for the public directory (3x3 grid).
const UserPageSize = 9

// UserSort orders directory entries.
type UserSort string

// User sort orders. Name sorts compare the display name, falling back to the
// username when no display name is set.
const (
	UserSortNewest   UserSort = "newest"
	UserSortOldest   UserSort = "oldest"
	UserSortNameAsc  UserSort = "name-asc"
	UserSortNameDesc UserSort = "name-desc"
)

// ParseUserSort maps a query value to a sort order, defaulting to newest.
func ParseUserSort(s string) UserSort {
	switch UserSort(s) {
	case UserSortOldest, UserSortNameAsc, UserSortNameDesc:
		return UserSort(s)
	}
	return UserSortNewest
}

// Users runs the filter, sort, paginate pipeline over the directory. The
// query is a case-insensitive substring match against username and display
// name; an empty query matches everything. The input slice is not modified.
func Users(profiles []domain.Profile, query string, order UserSort, page int) Page[domain.Profile] {
	q := strings.ToLower(strings.TrimSpace(query))
	result := lo.Filter(profiles, func(p domain.Profile, _ int) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Username), q) ||
			strings.Contains(strings.ToLower(p.FullName), q)
	})

	// A fresh collator per call: collate.Collator is not safe for concurrent
	// use and Users may run from many request goroutines.
	coll := collate.New(language.Und, collate.IgnoreCase)

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch order {
		case UserSortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case UserSortNameAsc:
			return coll.CompareString(displayName(a), displayName(b)) < 0
		case UserSortNameDesc:
			return coll.CompareString(displayName(b), displayName(a)) < 0
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return paginate(result, page, UserPageSize)
}

func displayName(p domain.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}
