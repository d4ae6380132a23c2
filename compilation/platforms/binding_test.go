package platforms

import (
	"encoding/json"
	"testing"

	"github.com/Masterminds/semver"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/configs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend counts loads and returns canned results.
type fakeBackend struct {
	loads        int
	failLoads    int
	providerURLs []string
	output       []byte
	invokeErr    error
	inputs       [][]byte
}

func (f *fakeBackend) Load(providerURL string) (*semver.Version, error) {
	f.loads++
	f.providerURLs = append(f.providerURLs, providerURL)
	if f.loads <= f.failLoads {
		return nil, errors.New("load failed")
	}
	return semver.MustParse("0.8.19"), nil
}

func (f *fakeBackend) Invoke(input []byte) ([]byte, error) {
	f.inputs = append(f.inputs, input)
	return f.output, f.invokeErr
}

func testRequest() *types.CompilationRequest {
	return &types.CompilationRequest{
		Language: types.LanguageSolidity,
		Sources:  map[string]types.SourceContent{"A.sol": {Content: "contract A {}"}},
	}
}

// TestEnsureLoadedIsIdempotent verifies the backend is loaded once no matter how often EnsureLoaded is called.
func TestEnsureLoadedIsIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	binding := NewBinding(backend, nil, nil)
	assert.False(t, binding.Loaded())

	require.NoError(t, binding.EnsureLoaded())
	require.NoError(t, binding.EnsureLoaded())
	assert.Equal(t, 1, backend.loads)
	assert.True(t, binding.Loaded())
	assert.Equal(t, "0.8.19", binding.Version().String())
}

// TestEnsureLoadedRetriesAfterFailure verifies a failed load leaves the binding unloaded and is retried.
func TestEnsureLoadedRetriesAfterFailure(t *testing.T) {
	backend := &fakeBackend{failLoads: 1}
	binding := NewBinding(backend, nil, nil)

	err := binding.EnsureLoaded()
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.False(t, binding.Loaded())

	require.NoError(t, binding.EnsureLoaded())
	assert.Equal(t, 2, backend.loads)
	assert.True(t, binding.Loaded())
}

// TestEnsureLoadedCapturesProviderURL verifies the storage provider URL is passed to the backend.
func TestEnsureLoadedCapturesProviderURL(t *testing.T) {
	backend := &fakeBackend{}
	storage := &configs.StorageConfig{Upload: configs.UploadConfig{GetURL: "https://ipfs.example.org"}}
	binding := NewBinding(backend, storage, nil)

	require.NoError(t, binding.EnsureLoaded())
	assert.Equal(t, []string{"https://ipfs.example.org"}, backend.providerURLs)
	assert.Equal(t, "https://ipfs.example.org", binding.ProviderURL())
}

// TestCompileBeforeLoad verifies Compile refuses to run on an unloaded binding.
func TestCompileBeforeLoad(t *testing.T) {
	backend := &fakeBackend{}
	binding := NewBinding(backend, nil, nil)

	_, err := binding.Compile(testRequest())
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Empty(t, backend.inputs)
}

// TestCompileDecodesOutputAndPublishes verifies the request is marshalled for the backend, the output is decoded,
// and an event is published.
func TestCompileDecodesOutputAndPublishes(t *testing.T) {
	backend := &fakeBackend{output: []byte(`{"contracts": {"A.sol": {"A": {"abi": []}}}, "sourceList": ["A.sol"]}`)}
	binding := NewBinding(backend, nil, nil)
	require.NoError(t, binding.EnsureLoaded())

	var published []CompilerInvokedEvent
	binding.Invocations.Subscribe(func(event CompilerInvokedEvent) error {
		published = append(published, event)
		return nil
	})

	request := testRequest()
	output, err := binding.Compile(request)
	require.NoError(t, err)
	assert.True(t, output.HasContracts())

	require.Len(t, backend.inputs, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(backend.inputs[0], &sent))
	assert.Equal(t, "Solidity", sent["language"])

	require.Len(t, published, 1)
	assert.Same(t, request, published[0].Request)
	assert.NoError(t, published[0].Err)
}

// TestCompilePublishesOnFailure verifies the event is published even when the invocation fails.
func TestCompilePublishesOnFailure(t *testing.T) {
	backend := &fakeBackend{invokeErr: errors.New("process died")}
	binding := NewBinding(backend, nil, nil)
	require.NoError(t, binding.EnsureLoaded())

	var published []CompilerInvokedEvent
	binding.Invocations.Subscribe(func(event CompilerInvokedEvent) error {
		published = append(published, event)
		return nil
	})

	_, err := binding.Compile(testRequest())
	var invocationErr *InvocationError
	require.ErrorAs(t, err, &invocationErr)
	require.Len(t, published, 1)
	assert.Equal(t, err, published[0].Err)
}

// TestCompileUndecodableOutput verifies garbage output becomes an InvocationError.
func TestCompileUndecodableOutput(t *testing.T) {
	backend := &fakeBackend{output: []byte("Segmentation fault")}
	binding := NewBinding(backend, nil, nil)
	require.NoError(t, binding.EnsureLoaded())

	_, err := binding.Compile(testRequest())
	var invocationErr *InvocationError
	require.ErrorAs(t, err, &invocationErr)
	assert.Equal(t, "Segmentation fault", invocationErr.Output)
}

// TestBindingsAreIndependent verifies loaded state is owned by each binding.
func TestBindingsAreIndependent(t *testing.T) {
	first := NewBinding(&fakeBackend{}, nil, nil)
	second := NewBinding(&fakeBackend{}, nil, nil)

	require.NoError(t, first.EnsureLoaded())
	assert.True(t, first.Loaded())
	assert.False(t, second.Loaded())
}
