package fssync

import (
	"github.com/vault-md/scriptvault/internal/script"
)

// Merge folds incoming into existing. An incoming item replaces the
// existing item with the same FilePath in place; unmatched incoming items
// are appended. Existing items without a FilePath are kept untouched. The
// freshly scanned value always wins and there is no field-level merge.
//
// Incoming items without a FilePath are appended last, and only when no
// item with the same ID is present, so Merge(Merge(a, b), b) equals
// Merge(a, b).
func Merge(existing, incoming []script.Item) []script.Item {
	result := make([]script.Item, len(existing), len(existing)+len(incoming))
	copy(result, existing)

	byPath := make(map[string]int, len(result))
	for i, item := range result {
		if item.FilePath == "" {
			continue
		}
		if _, seen := byPath[item.FilePath]; !seen {
			byPath[item.FilePath] = i
		}
	}

	var unsynced []script.Item
	for _, inc := range incoming {
		if inc.FilePath == "" {
			unsynced = append(unsynced, inc)
			continue
		}
		if idx, ok := byPath[inc.FilePath]; ok {
			result[idx] = inc
			continue
		}
		byPath[inc.FilePath] = len(result)
		result = append(result, inc)
	}

	if len(unsynced) == 0 {
		return result
	}
	ids := make(map[string]struct{}, len(result))
	for _, item := range result {
		ids[item.ID] = struct{}{}
	}
	for _, inc := range unsynced {
		if _, present := ids[inc.ID]; present {
			continue
		}
		ids[inc.ID] = struct{}{}
		result = append(result, inc)
	}
	return result
}
