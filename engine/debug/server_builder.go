package debug

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ServerBuilderOption is a functional option applied to a server during construction via NewServer.
type ServerBuilderOption func(*serverImpl)

// WithAddr sets the TCP address ListenAndServe binds, e.g. "127.0.0.1:7070" or ":0".
func WithAddr(addr string) ServerBuilderOption {
	return func(s *serverImpl) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLogger sets the logger for connection events.
func WithLogger(logger logrus.FieldLogger) ServerBuilderOption {
	return func(s *serverImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPingInterval sets how often websocket subscribers are pinged.
//
// Parameters:
//   - d: the ping interval; the read deadline is extended on every pong
//
// Returns:
//   - ServerBuilderOption: a function that applies the ping option to a server
func WithPingInterval(d time.Duration) ServerBuilderOption {
	return func(s *serverImpl) {
		if d > 0 {
			s.pingInterval = d
			if s.readTimeout < 2*d {
				s.readTimeout = 2 * d
			}
		}
	}
}

// WithWriteTimeout bounds every websocket write.
func WithWriteTimeout(d time.Duration) ServerBuilderOption {
	return func(s *serverImpl) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}
