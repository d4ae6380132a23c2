package platforms

import (
	"encoding/json"
	"sync"

	"github.com/Masterminds/semver"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/configs"
	"github.com/crytic/solcpipe/events"
	"github.com/crytic/solcpipe/logging"
	"github.com/pkg/errors"
)

// CompilerInvokedEvent is published by a Binding every time it dispatches a request, whether or not the call
// succeeded.
type CompilerInvokedEvent struct {
	// Request is the request that was dispatched.
	Request *types.CompilationRequest

	// Err is the error the call failed with, or nil.
	Err error
}

// Binding wraps a Backend so it is loaded once, on first use. A failed load leaves the binding unloaded so the next
// EnsureLoaded call tries again.
type Binding struct {
	// Invocations emits a CompilerInvokedEvent for every Compile call.
	Invocations events.EventEmitter[CompilerInvokedEvent]

	backend Backend
	storage *configs.StorageConfig
	logger  *logging.Logger

	// providerURL is captured from storage on the first successful load.
	providerURL string
	version     *semver.Version
	loaded      bool
	loadLock    sync.Mutex
}

// NewBinding creates a Binding over the given backend. storage may be nil if no storage provider is configured.
func NewBinding(backend Backend, storage *configs.StorageConfig, logger *logging.Logger) *Binding {
	if logger == nil {
		logger = logging.GlobalLogger
	}
	return &Binding{
		backend: backend,
		storage: storage,
		logger:  logger.NewSubLogger("module", logging.SOLC_SERVICE),
	}
}

// EnsureLoaded loads the backend if it has not been loaded successfully yet. Returns a *LoadError on failure.
func (b *Binding) EnsureLoaded() error {
	b.loadLock.Lock()
	defer b.loadLock.Unlock()

	if b.loaded {
		return nil
	}

	providerURL := ""
	if b.storage != nil {
		providerURL = b.storage.Upload.GetURL
	}

	version, err := b.backend.Load(providerURL)
	if err != nil {
		b.logger.Debug("Compiler failed to load", err)
		return &LoadError{Cause: err}
	}

	b.providerURL = providerURL
	b.version = version
	b.loaded = true
	if version != nil {
		b.logger.Debug("Loaded solc ", version.String())
	}
	return nil
}

// Loaded returns true once the backend has been loaded successfully.
func (b *Binding) Loaded() bool {
	b.loadLock.Lock()
	defer b.loadLock.Unlock()
	return b.loaded
}

// Version returns the version reported by the backend at load time, or nil if not loaded.
func (b *Binding) Version() *semver.Version {
	b.loadLock.Lock()
	defer b.loadLock.Unlock()
	return b.version
}

// ProviderURL returns the storage provider URL captured at load time.
func (b *Binding) ProviderURL() string {
	b.loadLock.Lock()
	defer b.loadLock.Unlock()
	return b.providerURL
}

// Compile dispatches a request to the backend and decodes its output. A CompilerInvokedEvent is published before
// returning. Returns a *LoadError if the binding is not loaded, or an *InvocationError if the call failed or produced
// output that could not be decoded.
func (b *Binding) Compile(request *types.CompilationRequest) (*types.RawCompilerOutput, error) {
	output, err := b.compile(request)

	if pubErr := b.Invocations.Publish(CompilerInvokedEvent{Request: request, Err: err}); pubErr != nil {
		b.logger.Debug("Compiler invocation subscriber failed", pubErr)
	}
	return output, err
}

func (b *Binding) compile(request *types.CompilationRequest) (*types.RawCompilerOutput, error) {
	if !b.Loaded() {
		return nil, &LoadError{Cause: errors.New("compiler has not been loaded")}
	}

	input, err := json.Marshal(request)
	if err != nil {
		return nil, &InvocationError{Cause: errors.WithStack(err)}
	}

	raw, err := b.backend.Invoke(input)
	if err != nil {
		var invocationErr *InvocationError
		if errors.As(err, &invocationErr) {
			return nil, invocationErr
		}
		return nil, &InvocationError{Cause: err}
	}

	var output types.RawCompilerOutput
	if err = json.Unmarshal(raw, &output); err != nil {
		return nil, &InvocationError{Cause: errors.Wrap(err, "could not decode compiler output"), Output: string(raw)}
	}
	return &output, nil
}
