package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"
)

// ShutdownTimeout bounds how long a graceful drain may take.
var ShutdownTimeout = 10 * time.Second

// Server wraps http.Server with the timeouts the API needs. No ReadTimeout
// is set; multipart video uploads can take longer than any sane fixed cap.
type Server struct {
	srv *http.Server
}

// New builds a server bound to the given port.
func New(port int, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(port)),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start blocks serving HTTP traffic until the server stops.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
