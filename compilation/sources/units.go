package sources

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// SourceUnit describes one compilation unit handed to the Assembler. How and where its content lives is up to the
// implementation.
type SourceUnit interface {
	// Path returns the caller's path for the unit. It is recorded as the unit's original path.
	Path() string

	// PrepareContent materializes the unit's source. isCoverage requests the source be prepared for coverage
	// instrumentation.
	PrepareContent(ctx context.Context, isCoverage bool) (string, error)
}

// FileUnit is a SourceUnit backed by a file on disk.
type FileUnit struct {
	path string
}

// NewFileUnit returns a SourceUnit reading the file at path.
func NewFileUnit(path string) *FileUnit {
	return &FileUnit{path: path}
}

// Path returns the file path.
func (f *FileUnit) Path() string {
	return f.path
}

// PrepareContent reads the file. For coverage runs the pure and view modifiers are stripped, so instrumented
// functions may write state.
func (f *FileUnit) PrepareContent(ctx context.Context, isCoverage bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	content := string(b)
	if isCoverage {
		content = ReplacePureView(content)
	}
	return content, nil
}

// StringUnit is a SourceUnit whose content is already in memory, such as injected library code.
type StringUnit struct {
	Name    string
	Content string
}

// Path returns the unit name.
func (s *StringUnit) Path() string {
	return s.Name
}

// PrepareContent returns the content, applying the same coverage transform as FileUnit.
func (s *StringUnit) PrepareContent(ctx context.Context, isCoverage bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if isCoverage {
		return ReplacePureView(s.Content), nil
	}
	return s.Content, nil
}

// pureViewExp matches the pure and view state mutability keywords.
var pureViewExp = regexp.MustCompile(`\b(pure|view)\b`)

// ReplacePureView removes every pure and view keyword from Solidity source.
func ReplacePureView(source string) string {
	return pureViewExp.ReplaceAllString(source, "")
}

// NormalizeLineEndings converts CRLF line endings to LF.
func NormalizeLineEndings(source string) string {
	return strings.ReplaceAll(source, "\r\n", "\n")
}

// DiscoverUnits walks the given directories for Solidity files and returns a FileUnit for each, sorted by path.
// A path found under more than one directory is returned once.
func DiscoverUnits(directories []string) ([]SourceUnit, error) {
	var paths []string
	for _, directory := range directories {
		err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".sol" {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not search contract directory '%s'", directory)
		}
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	units := make([]SourceUnit, len(paths))
	for i, path := range paths {
		units[i] = NewFileUnit(path)
	}
	return units, nil
}
