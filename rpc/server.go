package rpc

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wkalt/fbc/http/mw"
	"github.com/wkalt/fbc/util/httputil"
	"github.com/wkalt/fbc/util/log"
)

// UnaryHandler services one request buffer with one response buffer.
type UnaryHandler func(ctx context.Context, req []byte) ([]byte, error)

// StreamHandler services a request by emitting response buffers through send.
// Returning nil ends the stream cleanly. A send failure usually means the
// client went away; handlers should return the error and stop.
type StreamHandler func(ctx context.Context, req []byte, send func([]byte) error) error

// Server routes RPC requests to registered method handlers. Generated service
// registration wires each schema method to the right handler kind.
type Server struct {
	router *mux.Router
}

// NewServer returns a server with no methods registered. Requests outside
// the registered methods get the shared error envelope rather than the mux
// default.
func NewServer() *Server {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.NotFound(r.Context(), w, "no method at %s", r.URL.Path)
	})
	return &Server{router: router}
}

// Unary registers a unary method handler.
func (s *Server) Unary(service, method string, h UnaryHandler) {
	s.router.HandleFunc(methodPath(service, method), newUnaryHandler(h)).Methods("POST")
}

// Stream registers a streaming method handler.
func (s *Server) Stream(service, method string, h StreamHandler) {
	s.router.HandleFunc(methodPath(service, method), newStreamHandler(h)).Methods("POST")
}

// Handler returns the wired http.Handler.
func (s *Server) Handler() http.Handler {
	return mw.WithRequestID(s.router)
}

func methodPath(service, method string) string {
	return fmt.Sprintf("/rpc/%s/%s", service, method)
}

func newUnaryHandler(h UnaryHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req, err := io.ReadAll(r.Body)
		if err != nil {
			httputil.BadRequest(ctx, w, "error reading request: %s", err)
			return
		}
		resp, err := h(ctx, req)
		if err != nil {
			httputil.InternalServerError(ctx, w, "handler error: %s", err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(resp); err != nil {
			log.Errorw(ctx, "error writing response", "error", err)
		}
	}
}

func newStreamHandler(h StreamHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req, err := io.ReadAll(r.Body)
		if err != nil {
			httputil.BadRequest(ctx, w, "error reading request: %s", err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		flusher, _ := w.(http.Flusher)
		send := func(msg []byte) error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("stream canceled: %w", err)
			}
			if err := WriteFrame(w, msg); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}
			return nil
		}
		if err := h(ctx, req, send); err != nil {
			// Headers are gone; all we can do is log and drop the
			// connection.
			log.Errorw(ctx, "stream handler error", "error", err)
		}
	}
}
