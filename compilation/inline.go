package compilation

import (
	"github.com/crytic/solcpipe/compilation/sources"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/pkg/errors"
)

// InlineResult is what CompileInline hands back to an editor.
type InlineResult struct {
	// Diagnostics is every diagnostic the compiler emitted, in emission order.
	Diagnostics []types.Diagnostic `json:"errors"`

	// Artifacts holds whatever contracts compiled, possibly alongside diagnostics.
	Artifacts map[string]*types.CompiledArtifact `json:"result"`

	// Err is set when the run failed for a reason other than diagnostics.
	Err error `json:"-"`
}

// CompileInline compiles a single in-memory source in ReturnAll mode. Diagnostics do not fail the call: they are
// returned together with any contracts present in the compiler output.
func (p *Pipeline) CompileInline(name string, code string) *InlineResult {
	srcs := map[string]types.SourceContent{
		name: {Content: sources.NormalizeLineEndings(code)},
	}

	inline := &InlineResult{Artifacts: make(map[string]*types.CompiledArtifact)}
	result, err := p.CompileSources(srcs, nil, ReturnAll, Options{})

	var diagnosticsErr *DiagnosticsError
	switch {
	case err == nil:
		inline.Artifacts = result.Artifacts
	case errors.As(err, &diagnosticsErr):
		inline.Diagnostics = diagnosticsErr.Diagnostics
		if result.Output != nil && len(result.Output.Contracts) > 0 {
			if artifacts, extractErr := ExtractArtifacts(result.Output, nil); extractErr == nil {
				inline.Artifacts = artifacts
			}
		}
	default:
		inline.Err = err
	}
	return inline
}
