package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/crytic/solcpipe/api/handlers"
	"github.com/crytic/solcpipe/api/middleware"
	"github.com/crytic/solcpipe/api/routes"
	"github.com/crytic/solcpipe/logging"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/net/netutil"
)

// listenAttempts is how many consecutive ports Serve tries before giving up.
const listenAttempts = 10

// ServeConfig describes where and how Serve listens.
type ServeConfig struct {
	// Address is the host:port to listen on. If the port is taken, the following ports are tried.
	Address string

	// MaxConnections caps the number of connections served at once. Zero means no limit.
	MaxConnections int

	// OnListen, if not nil, receives the address actually bound.
	OnListen func(addr string)
}

// NewRouter builds the HTTP handler serving inline compilation through compiler. allowedOrigins lists the browser
// origins allowed to call the API; with none, only same origin requests work from a browser.
func NewRouter(compiler handlers.InlineCompiler, logger *logging.Logger, allowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.GlobalLogger
	}
	logger = logger.NewSubLogger("module", logging.API_SERVICE)

	router := mux.NewRouter()
	middleware.AttachMiddleware(router, logger)
	routes.AttachRoutes(router, compiler, logger, middleware.OriginChecker(allowedOrigins))
	return middleware.WithCors(router, allowedOrigins)
}

// Serve serves h as described by config until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, config ServeConfig, h http.Handler, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.GlobalLogger
	}
	logger = logger.NewSubLogger("module", logging.API_SERVICE)

	listener, err := listen(config.Address, logger)
	if err != nil {
		return err
	}
	if config.OnListen != nil {
		config.OnListen(listener.Addr().String())
	}
	if config.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, config.MaxConnections)
	}

	server := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrorChan := make(chan error, 1)
	go func() {
		serverErrorChan <- server.Serve(listener)
	}()

	select {
	case err = <-serverErrorChan:
		return errors.WithStack(err)
	case <-ctx.Done():
		logger.Info("Shutting down server due to context cancellation")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.WithStack(server.Shutdown(shutdownCtx))
	}
}

// listen binds addr, moving on to the next port while the current one is unavailable.
func listen(addr string, logger *logging.Logger) (net.Listener, error) {
	host, portString, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid listen address '%s'", addr)
	}
	port, err := strconv.Atoi(portString)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid port in listen address '%s'", addr)
	}

	// Port zero asks the kernel for any free port, so there is nothing to retry
	attempts := listenAttempts
	if port == 0 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		candidate := net.JoinHostPort(host, strconv.Itoa(port+i))
		listener, listenErr := net.Listen("tcp", candidate)
		if listenErr == nil {
			return listener, nil
		}
		logger.Info("Server failed to start on ", candidate)
		err = listenErr
	}
	return nil, errors.Wrapf(err, "could not listen on '%s' or the %d ports after it", addr, attempts-1)
}
