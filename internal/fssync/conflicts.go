package fssync

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/vault-md/scriptvault/internal/script"
)

// ErrNameConflict is matched by errors reporting colliding filenames.
var ErrNameConflict = errors.New("fssync: filename conflict")

// NameConflict is a filename that more than one item would be written to.
type NameConflict struct {
	Filename string   `json:"filename"`
	IDs      []string `json:"ids"`
	// Reserved is set when an item derives the metadata side-car name.
	Reserved bool `json:"reserved,omitempty"`
}

// NameConflictError refuses a write-back whose batch contains conflicts.
type NameConflictError struct {
	Conflicts []NameConflict
}

func (e *NameConflictError) Error() string {
	names := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		names = append(names, c.Filename)
	}
	return fmt.Sprintf("filename conflict: %s", strings.Join(names, ", "))
}

func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// DetectConflicts reports derived filenames shared by items with distinct
// ids. Names are compared case-insensitively because the linked folder may
// live on a case-insensitive filesystem. An item whose derived name is the
// metadata side-car is always a conflict. Results are sorted by filename.
func DetectConflicts(items []script.Item) []NameConflict {
	type group struct {
		filename string
		ids      []string
	}
	groups := make(map[string]*group)
	var order []string

	for _, item := range items {
		filename := script.FilenameFor(item)
		key := strings.ToLower(filename)
		g, ok := groups[key]
		if !ok {
			g = &group{filename: filename}
			groups[key] = g
			order = append(order, key)
		}
		if !slices.Contains(g.ids, item.ID) {
			g.ids = append(g.ids, item.ID)
		}
	}

	var conflicts []NameConflict
	for _, key := range order {
		g := groups[key]
		reserved := isMetadataName(g.filename)
		if len(g.ids) < 2 && !reserved {
			continue
		}
		conflicts = append(conflicts, NameConflict{Filename: g.filename, IDs: g.ids, Reserved: reserved})
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return strings.ToLower(conflicts[i].Filename) < strings.ToLower(conflicts[j].Filename)
	})
	return conflicts
}
