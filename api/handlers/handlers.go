package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crytic/solcpipe/compilation"
	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging"
	"github.com/gorilla/websocket"
)

// DefaultUnitName is the unit name used when a request does not name its source.
const DefaultUnitName = "contract.sol"

// maxBodyBytes caps the size of a compile request body or websocket message.
const maxBodyBytes = 4 << 20

// InlineCompiler compiles a single in-memory source. compilation.Pipeline implements it.
type InlineCompiler interface {
	CompileInline(name string, code string) *compilation.InlineResult
}

// CompileResponse is the body returned for a compile request. Errors is the diagnostic list, or a message when the
// compile failed for another reason.
type CompileResponse struct {
	Errors any                                `json:"errors"`
	Result map[string]*types.CompiledArtifact `json:"result"`
}

// ErrorResponse is the body returned for a malformed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// requestError is a malformed compile request, reported to the client as an ErrorResponse.
type requestError string

func (e requestError) Error() string {
	return string(e)
}

// decodeCompileRequest validates a {name, code} compile request.
func decodeCompileRequest(body map[string]json.RawMessage) (string, string, error) {
	var code string
	raw, ok := body["code"]
	if !ok || string(raw) == "null" || json.Unmarshal(raw, &code) != nil {
		return "", "", requestError("Body parameter 'code' must be a string")
	}

	name := DefaultUnitName
	if raw, ok = body["name"]; ok {
		if err := json.Unmarshal(raw, &name); err != nil || name == "" {
			return "", "", requestError("Body parameter 'name' must be a non-empty string")
		}
	}
	return name, code, nil
}

// compile runs an inline compile and builds the response for it, along with the HTTP status it maps to.
func compile(compiler InlineCompiler, logger *logging.Logger, name string, code string) (int, CompileResponse) {
	logger.Debug("Compiling inline source ", name)
	result := compiler.CompileInline(name, code)
	if result.Err != nil {
		logger.Error("Inline compilation failed", result.Err)
		return http.StatusInternalServerError, CompileResponse{Errors: result.Err.Error(), Result: result.Artifacts}
	}

	diagnostics := result.Diagnostics
	if diagnostics == nil {
		diagnostics = []types.Diagnostic{}
	}
	return http.StatusOK, CompileResponse{Errors: diagnostics, Result: result.Artifacts}
}

// CompileHandler handles POST requests carrying a {name, code} body.
func CompileHandler(compiler InlineCompiler, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "Request body must be a JSON object"})
			return
		}

		name, code, err := decodeCompileRequest(body)
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		status, response := compile(compiler, logger, name, code)
		writeJSON(w, logger, status, response)
	}
}

// WebsocketCompileHandler upgrades the connection and answers every {name, code} message with a compile response,
// until the client disconnects. checkOrigin decides which browser origins may connect; nil allows same origin only.
func WebsocketCompileHandler(compiler InlineCompiler, logger *logging.Logger, checkOrigin func(r *http.Request) bool) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debug("Failed to upgrade websocket connection", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxBodyBytes)

		for {
			var body map[string]json.RawMessage
			if err = conn.ReadJSON(&body); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Debug("Websocket connection closed", err)
				}
				return
			}

			var response any
			if name, code, err := decodeCompileRequest(body); err != nil {
				response = ErrorResponse{Error: err.Error()}
			} else {
				_, response = compile(compiler, logger, name, code)
			}

			if err = conn.WriteJSON(response); err != nil {
				logger.Debug("Failed to write websocket response", err)
				return
			}
		}
	}
}

// NotFoundHandler answers unknown routes with a JSON error.
func NotFoundHandler(logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusNotFound, ErrorResponse{Error: "Not Found"})
	}
}

// writeJSON writes value as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, logger *logging.Logger, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		logger.Debug("Failed to write response", err)
	}
}
