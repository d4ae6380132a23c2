package routes

import (
	"net/http"

	"github.com/crytic/solcpipe/api/handlers"
	"github.com/crytic/solcpipe/logging"
	"github.com/gorilla/mux"
)

// CompileRoute is the route inline compilation requests are served on.
const CompileRoute = "/api/contract/compile"

// WebsocketCompileRoute is the route editor sessions connect to for repeated inline compiles.
const WebsocketCompileRoute = "/ws/compile"

func attachCompileRoutes(router *mux.Router, compiler handlers.InlineCompiler, logger *logging.Logger) {
	router.HandleFunc(CompileRoute, handlers.CompileHandler(compiler, logger)).Methods(http.MethodPost)
}

func attachWebsocketRoutes(router *mux.Router, compiler handlers.InlineCompiler, logger *logging.Logger, checkOrigin func(r *http.Request) bool) {
	router.HandleFunc(WebsocketCompileRoute, handlers.WebsocketCompileHandler(compiler, logger, checkOrigin)).Methods(http.MethodGet)
}

// AttachRoutes registers every route on router.
func AttachRoutes(router *mux.Router, compiler handlers.InlineCompiler, logger *logging.Logger, checkOrigin func(r *http.Request) bool) {
	attachCompileRoutes(router, compiler, logger)
	attachWebsocketRoutes(router, compiler, logger, checkOrigin)

	// Catch-all 404 handler
	router.NotFoundHandler = handlers.NotFoundHandler(logger)
}
