package debug

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type serverImpl struct {
	mu *sync.Mutex

	hub          Hub
	addr         string
	listenAddr   string
	logger       logrus.FieldLogger
	pingInterval time.Duration
	writeTimeout time.Duration
	readTimeout  time.Duration
	upgrader     websocket.Upgrader
	mux          *http.ServeMux
}

// Server exposes a Hub over HTTP:
//
//	GET /state  latest snapshot as JSON, 204 before the first publish
//	GET /ws     websocket stream of snapshots, latest first
type Server interface {
	// Handler returns the HTTP handler serving both endpoints.
	Handler() http.Handler

	// ListenAndServe serves until ctx is done, then shuts down gracefully.
	//
	// Parameters:
	//   - ctx: cancelling it stops the server
	//
	// Returns:
	//   - error: a listen or serve error; nil after a clean shutdown
	ListenAndServe(ctx context.Context) error

	// Addr returns the bound address once listening, otherwise the configured one.
	Addr() string
}

var _ Server = &serverImpl{}

// NewServer creates a debug Server publishing hub.
//
// Parameters:
//   - hub: the snapshot source
//   - options: variadic list of ServerBuilderOption functions to configure the server
//
// Returns:
//   - Server: the new server
func NewServer(hub Hub, options ...ServerBuilderOption) Server {
	s := &serverImpl{
		mu:           &sync.Mutex{},
		hub:          hub,
		addr:         "127.0.0.1:7070",
		logger:       logrus.StandardLogger(),
		pingInterval: 25 * time.Second,
		writeTimeout: 10 * time.Second,
		readTimeout:  60 * time.Second,
	}
	for _, option := range options {
		option(s)
	}
	s.upgrader = websocket.Upgrader{
		// The feed is read-only and bound to a local address by default.
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

func (s *serverImpl) Handler() http.Handler {
	return s.mux
}

func (s *serverImpl) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listenAddr != "" {
		return s.listenAddr
	}
	return s.addr
}

func (s *serverImpl) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listenAddr = ln.Addr().String()
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.WithField("addr", ln.Addr().String()).Info("debug server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("debug server stopped")
		return nil
	}
}

func (s *serverImpl) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, ok := s.hub.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.WithError(err).Debug("state write failed")
	}
}

func (s *serverImpl) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub.ID)
	log := s.logger.WithField("subscriber", sub.ID.String())
	log.Debug("debug subscriber connected")

	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	})

	// The feed is one-way; reading only services control frames and detects close.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if snap, ok := s.hub.Latest(); ok {
		if err := s.write(conn, snap); err != nil {
			return
		}
	}

	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				return
			}
			if err := s.write(conn, snap); err != nil {
				log.WithError(err).Debug("debug subscriber write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readerDone:
			log.Debug("debug subscriber disconnected")
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *serverImpl) write(conn *websocket.Conn, snap Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return conn.WriteJSON(snap)
}
