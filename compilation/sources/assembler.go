package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging"
	"github.com/crytic/solcpipe/logging/colors"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ReadError describes a unit whose content could not be materialized. The Assembler logs and skips such units.
type ReadError struct {
	UnitName string
	Path     string
	Cause    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read source unit '%s' (%s): %v", e.UnitName, e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// UnitNameConflictError is returned by Assemble when different paths reduce to the same unit name once their contract
// directory is stripped. Compiling either one alone would silently drop the other.
type UnitNameConflictError struct {
	UnitName string
	Paths    []string
}

func (e *UnitNameConflictError) Error() string {
	return fmt.Sprintf("source units %s all map to unit name '%s'", strings.Join(e.Paths, ", "), e.UnitName)
}

// Assembly is the Assembler's output for one pipeline run.
type Assembly struct {
	// Sources maps unit name to content, for every unit that could be read.
	Sources map[string]types.SourceContent

	// OriginalPaths maps each unit name back to the path the caller supplied, in input order.
	OriginalPaths *types.OriginalPaths

	// Skipped lists the unit names that failed to materialize, in input order.
	Skipped []string
}

// Assembler turns SourceUnits into compiler sources keyed by directory-independent unit names.
type Assembler struct {
	directories []string
	logger      *logging.Logger
}

// NewAssembler creates an Assembler which strips the given contract directories from unit paths. Directories are tried
// in order and the first match wins.
func NewAssembler(contractDirectories []string, logger *logging.Logger) *Assembler {
	if logger == nil {
		logger = logging.GlobalLogger
	}

	directories := make([]string, 0, len(contractDirectories))
	for _, directory := range contractDirectories {
		directory = toSlash(directory)
		if directory == "" {
			continue
		}
		if !strings.HasSuffix(directory, "/") {
			directory += "/"
		}
		directories = append(directories, directory)
	}

	return &Assembler{
		directories: directories,
		logger:      logger.NewSubLogger("module", logging.SOURCES_SERVICE),
	}
}

// UnitName returns the compilation unit name for a path: separators become forward slashes and the first matching
// contract directory prefix is removed.
func (a *Assembler) UnitName(path string) string {
	name := toSlash(path)
	for _, directory := range a.directories {
		if strings.HasPrefix(name, directory) {
			return strings.TrimPrefix(name, directory)
		}
	}
	return name
}

// Assemble materializes every unit concurrently and keys the results by unit name. A unit that fails to materialize is
// logged and skipped rather than failing the batch. Errors are returned only when two different paths share a unit name
// (*UnitNameConflictError) or when the context was cancelled.
func (a *Assembler) Assemble(ctx context.Context, units []SourceUnit, isCoverage bool) (*Assembly, error) {
	assembly := &Assembly{
		Sources:       make(map[string]types.SourceContent, len(units)),
		OriginalPaths: types.NewOriginalPaths(),
	}

	// The same path given twice is compiled once. Different paths sharing a unit name cannot both be compiled.
	names := make([]string, 0, len(units))
	unique := make([]SourceUnit, 0, len(units))
	for _, unit := range units {
		name := a.UnitName(unit.Path())
		if path, ok := assembly.OriginalPaths.Get(name); ok {
			if path != unit.Path() {
				return nil, errors.WithStack(&UnitNameConflictError{UnitName: name, Paths: []string{path, unit.Path()}})
			}
			a.logger.Debug("Ignoring duplicate source unit ", unit.Path())
			continue
		}
		assembly.OriginalPaths.Add(name, unit.Path())
		names = append(names, name)
		unique = append(unique, unit)
	}
	units = unique

	contents := make([]string, len(units))
	readErrs := make([]error, len(units))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, unit := range units {
		group.Go(func() error {
			content, err := unit.PrepareContent(groupCtx, isCoverage)
			if err != nil {
				readErrs[i] = &ReadError{UnitName: names[i], Path: unit.Path(), Cause: err}
				return nil
			}
			contents[i] = NormalizeLineEndings(content)
			return nil
		})
	}
	// Workers never fail the group
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	for i := range units {
		if readErrs[i] != nil {
			a.logger.Error("Error while loading source unit ", colors.Bold, names[i])
			a.logger.Debug("Source unit read failure", readErrs[i])
			assembly.Skipped = append(assembly.Skipped, names[i])
			continue
		}
		assembly.Sources[names[i]] = types.SourceContent{Content: contents[i]}
	}
	return assembly, nil
}

// toSlash converts every backslash to a forward slash, whatever the host platform.
func toSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
