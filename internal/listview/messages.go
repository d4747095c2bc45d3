package listview

import (
	"sort"

	"github.com/samber/lo"

	"anonq/internal/domain"
)

// MessagePageSize is the fixed page size for message lists.
const MessagePageSize = 10

// MessageFilter selects which messages survive the filter step.
type MessageFilter string

// Message filters.
const (
	FilterAll    MessageFilter = "all"
	FilterUnread MessageFilter = "unread"
)

// MessageSort orders the filtered messages.
type MessageSort string

// Message sort orders. SortUnreadFirst and SortReadFirst group the matching
// read state first and break ties newest-first.
const (
	SortNewest      MessageSort = "newest"
	SortOldest      MessageSort = "oldest"
	SortUnreadFirst MessageSort = "unread"
	SortReadFirst   MessageSort = "read"
)

// ParseMessageFilter maps a query value to a filter, defaulting to all.
func ParseMessageFilter(s string) MessageFilter {
	if MessageFilter(s) == FilterUnread {
		return FilterUnread
	}
	return FilterAll
}

// ParseMessageSort maps a query value to a sort order, defaulting to newest.
func ParseMessageSort(s string) MessageSort {
	switch MessageSort(s) {
	case SortOldest, SortUnreadFirst, SortReadFirst:
		return MessageSort(s)
	}
	return SortNewest
}

// Messages runs the filter, sort, paginate pipeline over msgs. The input
// slice is not modified.
func Messages(msgs []domain.Message, filter MessageFilter, order MessageSort, page int) Page[domain.Message] {
	result := lo.Filter(msgs, func(m domain.Message, _ int) bool {
		return filter == FilterAll || !m.IsRead
	})

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch order {
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortUnreadFirst:
			if a.IsRead != b.IsRead {
				return !a.IsRead
			}
		case SortReadFirst:
			if a.IsRead != b.IsRead {
				return a.IsRead
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return paginate(result, page, MessagePageSize)
}
