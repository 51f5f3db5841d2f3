package bridge

import (
	"github.com/grovetools/sessionsync/logging"
	"github.com/sirupsen/logrus"
)

// Option configures an in-process endpoint pair.
type Option func(*pairConfig)

type pairConfig struct {
	logger *logrus.Entry
}

// WithLogger sets the logger used by both endpoints.
func WithLogger(logger *logrus.Entry) Option {
	return func(c *pairConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewPair returns two connected in-process endpoints. Messages sent on the
// embedded side reach the host's handlers and vice versa. Every message goes
// through the wire encoding, so receivers never share memory with senders.
func NewPair(opts ...Option) (host, embedded Endpoint) {
	cfg := pairConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewLogger("bridge")
	}

	h := &localEndpoint{side: "host", logger: cfg.logger.WithField("side", "host")}
	e := &localEndpoint{side: "embedded", logger: cfg.logger.WithField("side", "embedded")}
	h.peer, e.peer = e, h
	return h, e
}

type localEndpoint struct {
	side     string
	peer     *localEndpoint
	handlers Handlers
	logger   *logrus.Entry
}

func (l *localEndpoint) Notify(m Message) {
	data, err := Encode(m)
	if err != nil {
		l.logger.WithError(err).Warn("Dropping message that cannot be encoded")
		return
	}
	l.peer.receive(data)
}

func (l *localEndpoint) OnMessage(h Handler) func() {
	return l.handlers.Add(h)
}

func (l *localEndpoint) receive(data []byte) {
	m, err := Decode(data)
	if err != nil {
		if IsUnknownType(err) {
			l.logger.WithError(err).Debug("Ignoring message of unknown type")
		} else {
			l.logger.WithError(err).Warn("Ignoring malformed message")
		}
		return
	}
	if n := l.handlers.Dispatch(m); n == 0 {
		l.logger.WithField("type", m.Type()).Debug("No listener; message dropped")
	}
}
