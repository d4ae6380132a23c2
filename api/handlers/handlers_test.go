package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crytic/solcpipe/compilation"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompiler records calls and returns a canned result.
type fakeCompiler struct {
	names  []string
	codes  []string
	result *compilation.InlineResult
}

func (f *fakeCompiler) CompileInline(name string, code string) *compilation.InlineResult {
	f.names = append(f.names, name)
	f.codes = append(f.codes, code)
	return f.result
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestCompileRejectsNonStringCode verifies the structured error for bad code parameters.
func TestCompileRejectsNonStringCode(t *testing.T) {
	compiler := &fakeCompiler{}
	h := CompileHandler(compiler, logging.GlobalLogger)

	for _, body := range []string{`{"name": "A.sol", "code": 42}`, `{"name": "A.sol"}`, `{"code": null}`} {
		rec := post(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error": "Body parameter 'code' must be a string"}`, rec.Body.String())
	}
	assert.Empty(t, compiler.codes)

	rec := post(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, `{"name": "", "code": "contract A {}"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Body parameter 'name' must be a non-empty string"}`, rec.Body.String())
}

// TestCompileReturnsErrorsAndResult verifies diagnostics and artifacts are returned together.
func TestCompileReturnsErrorsAndResult(t *testing.T) {
	compiler := &fakeCompiler{result: &compilation.InlineResult{
		Diagnostics: []types.Diagnostic{{Type: "Warning", Severity: "warning", FormattedMessage: "Warning: unused"}},
		Artifacts:   map[string]*types.CompiledArtifact{"A": {Name: "A", AbiDefinition: json.RawMessage("[]")}},
	}}
	h := CompileHandler(compiler, logging.GlobalLogger)

	rec := post(t, h, `{"name": "A.sol", "code": "contract A {}"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"A.sol"}, compiler.names)
	assert.Equal(t, []string{"contract A {}"}, compiler.codes)

	var response struct {
		Errors []types.Diagnostic                 `json:"errors"`
		Result map[string]*types.CompiledArtifact `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "Warning: unused", response.Errors[0].FormattedMessage)
	assert.Contains(t, response.Result, "A")
}

// TestCompileDefaultsNameAndEmptyErrors verifies a missing name is defaulted and no diagnostics is an empty list.
func TestCompileDefaultsNameAndEmptyErrors(t *testing.T) {
	compiler := &fakeCompiler{result: &compilation.InlineResult{Artifacts: map[string]*types.CompiledArtifact{}}}
	h := CompileHandler(compiler, logging.GlobalLogger)

	rec := post(t, h, `{"code": "contract A {}"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{DefaultUnitName}, compiler.names)
	assert.JSONEq(t, `{"errors": [], "result": {}}`, rec.Body.String())
}

// TestCompileFailure verifies internal failures are reported as a message.
func TestCompileFailure(t *testing.T) {
	compiler := &fakeCompiler{result: &compilation.InlineResult{Err: errors.New("solc missing")}}
	h := CompileHandler(compiler, logging.GlobalLogger)

	rec := post(t, h, `{"code": "contract A {}"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"errors": "solc missing", "result": null}`, rec.Body.String())
}

// TestNotFoundHandler verifies unknown routes get a JSON error.
func TestNotFoundHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFoundHandler(logging.GlobalLogger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Not Found"}`, rec.Body.String())
}
