package types

import (
	"path/filepath"
	"strings"
)

// OriginalPath pairs a normalized compilation unit name with the path the caller supplied for it.
type OriginalPath struct {
	UnitName string `json:"unitName"`
	Path     string `json:"path"`
}

// OriginalPaths is an insertion-ordered map from unit name to the caller's original file path. Order matters because
// substring based filename reconciliation picks the first matching entry.
type OriginalPaths struct {
	entries []OriginalPath
	index   map[string]int
}

// NewOriginalPaths returns an empty OriginalPaths.
func NewOriginalPaths() *OriginalPaths {
	return &OriginalPaths{index: make(map[string]int)}
}

// Add records the original path for a unit. Re-adding a unit replaces its path but keeps its position.
func (o *OriginalPaths) Add(unitName string, path string) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[unitName]; ok {
		o.entries[i].Path = path
		return
	}
	o.index[unitName] = len(o.entries)
	o.entries = append(o.entries, OriginalPath{UnitName: unitName, Path: path})
}

// Get returns the original path recorded for a unit.
func (o *OriginalPaths) Get(unitName string) (string, bool) {
	if o == nil {
		return "", false
	}
	i, ok := o.index[unitName]
	if !ok {
		return "", false
	}
	return o.entries[i].Path, true
}

// Len returns the number of recorded units.
func (o *OriginalPaths) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Entries returns a copy of the recorded pairs in insertion order.
func (o *OriginalPaths) Entries() []OriginalPath {
	if o == nil {
		return nil
	}
	return append([]OriginalPath(nil), o.entries...)
}

// Resolve maps a compiler-reported source filename back to the caller's original path. An entry whose unit name is the
// filename itself wins. Otherwise entries are tried in insertion order and the first whose original path is a substring
// of the normalized filename is chosen.
func (o *OriginalPaths) Resolve(sourceFilename string) (string, bool) {
	if o == nil {
		return "", false
	}
	normalized := filepath.Clean(sourceFilename)
	if i, ok := o.index[filepath.ToSlash(normalized)]; ok {
		return o.entries[i].Path, true
	}
	for _, entry := range o.entries {
		if entry.Path != "" && strings.Contains(normalized, entry.Path) {
			return entry.Path, true
		}
	}
	return "", false
}
