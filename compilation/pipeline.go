package compilation

import (
	"context"

	"github.com/crytic/solcpipe/compilation/sources"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/configs"
	"github.com/crytic/solcpipe/events"
	"github.com/crytic/solcpipe/logging"
	"github.com/crytic/solcpipe/logging/colors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CompilerBinding is the compiler a Pipeline drives. platforms.Binding implements it.
type CompilerBinding interface {
	// EnsureLoaded loads the compiler if needed. It is a no-op once a load has succeeded.
	EnsureLoaded() error

	// Compile dispatches one request to the compiler.
	Compile(request *types.CompilationRequest) (*types.RawCompilerOutput, error)
}

// RequestBuiltEvent is published once a run's compiler request is ready to dispatch.
type RequestBuiltEvent struct {
	RunID   string
	Request *types.CompilationRequest
}

// CompiledEvent is published after the compiler returned output for a run.
type CompiledEvent struct {
	RunID  string
	Output *types.RawCompilerOutput
}

// PipelineEvents groups the emitters a Pipeline publishes to. Subscribing is optional.
type PipelineEvents struct {
	RequestBuilt events.EventEmitter[RequestBuiltEvent]
	Compiled     events.EventEmitter[CompiledEvent]
}

// Options adjusts a single pipeline run.
type Options struct {
	// IsCoverage prepares sources for coverage instrumentation and disables the optimizer.
	IsCoverage bool
}

// Result is the outcome of CompileSources.
type Result struct {
	// RunID identifies the run in logs and events.
	RunID string

	// Output is the raw compiler output, or nil if the compiler was never reached or failed.
	Output *types.RawCompilerOutput

	// Artifacts holds one artifact per compiled contract. It is nil if the run failed.
	Artifacts map[string]*types.CompiledArtifact
}

// Pipeline runs source units through the compiler and flattens its output into artifacts.
type Pipeline struct {
	// Events is published to as the run progresses.
	Events PipelineEvents

	binding   CompilerBinding
	config    configs.CompilationConfig
	assembler *sources.Assembler
	logger    *logging.Logger
}

// NewPipeline creates a Pipeline over a compiler binding. The configuration is read, never modified.
func NewPipeline(binding CompilerBinding, config configs.CompilationConfig, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GlobalLogger
	}
	return &Pipeline{
		binding:   binding,
		config:    config,
		assembler: sources.NewAssembler(config.ContractDirectories, logger),
		logger:    logger.NewSubLogger("module", logging.COMPILATION_SERVICE),
	}
}

// Assembler returns the source assembler used to name units.
func (p *Pipeline) Assembler() *sources.Assembler {
	return p.assembler
}

// CompileUnits assembles the given units and compiles them in FailFast mode. With no units it returns an empty map
// without touching the compiler. Units that cannot be read are skipped; if none can be read, ErrNoSources is returned.
func (p *Pipeline) CompileUnits(ctx context.Context, units []sources.SourceUnit, opts Options) (map[string]*types.CompiledArtifact, error) {
	if len(units) == 0 {
		return make(map[string]*types.CompiledArtifact), nil
	}

	assembly, err := p.assembler.Assemble(ctx, units, opts.IsCoverage)
	if err != nil {
		return nil, err
	}
	if len(assembly.Skipped) > 0 {
		p.logger.Warn("Skipped ", len(assembly.Skipped), " unreadable source unit(s)")
	}

	result, err := p.CompileSources(assembly.Sources, assembly.OriginalPaths, FailFast, opts)
	if err != nil {
		return nil, err
	}
	return result.Artifacts, nil
}

// CompileSources runs the compiler stages over sources that are already in memory. Each stage's failure aborts the
// rest. When the compiler produced output but diagnostics aborted the run, the returned Result still carries that
// output alongside the error.
func (p *Pipeline) CompileSources(srcs map[string]types.SourceContent, originalPaths *types.OriginalPaths, mode DiagnosticMode, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := p.logger.NewSubLogger("run", result.RunID)

	if len(srcs) == 0 {
		return result, errors.WithStack(ErrNoSources)
	}

	if err := p.binding.EnsureLoaded(); err != nil {
		return result, err
	}

	request := p.buildRequest(srcs, opts)
	if err := p.Events.RequestBuilt.Publish(RequestBuiltEvent{RunID: result.RunID, Request: request}); err != nil {
		logger.Debug("Request built subscriber failed", err)
	}

	logger.Info("Compiling ", colors.Bold, len(srcs), colors.Reset, " source unit(s)")
	output, err := p.binding.Compile(request)
	if err != nil {
		return result, err
	}
	result.Output = output
	if err = p.Events.Compiled.Publish(CompiledEvent{RunID: result.RunID, Output: output}); err != nil {
		logger.Debug("Compiled subscriber failed", err)
	}

	if err = classifyDiagnostics(output.Errors, mode, logger); err != nil {
		return result, err
	}

	artifacts, err := ExtractArtifacts(output, originalPaths)
	if err != nil {
		return result, err
	}
	result.Artifacts = artifacts
	logger.Info("Compiled ", colors.Bold, len(artifacts), colors.Reset, " contract(s)")
	return result, nil
}

// buildRequest creates the standard JSON request for a run. Coverage runs are never optimized.
func (p *Pipeline) buildRequest(srcs map[string]types.SourceContent, opts Options) *types.CompilationRequest {
	return &types.CompilationRequest{
		Language: types.LanguageSolidity,
		Sources:  srcs,
		Settings: types.CompilerSettings{
			Optimizer: types.OptimizerSettings{
				Enabled: p.config.Optimize && !opts.IsCoverage,
				Runs:    p.config.OptimizeRuns,
			},
			OutputSelection: types.DefaultOutputSelection(),
		},
	}
}
