package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"garden/internal/engine"
	"garden/internal/logfields"
)

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher forwards garden events to NATS as JSON, one subject per event kind
// (<subject>.<kind>). Publishing is fire-and-forget: failures are logged and never
// reach the state manager.
type NATSPublisher struct {
	conn    Conn
	subject string
	logger  *slog.Logger
	close   func()
}

// Connect dials servers, a comma-separated NATS URL list, and returns a
// publisher for subject.
func Connect(servers, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(servers,
		nats.Name("garden"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", serverHosts(servers), err)
	}
	p := NewNATSPublisher(nc, subject, logger)
	p.close = func() {
		_ = nc.Flush()
		nc.Close()
	}
	if logger != nil {
		logger.Info("NATS event publisher connected", "servers", serverHosts(servers), "subject", subject)
	}
	return p, nil
}

// serverHosts reduces a NATS URL list to host:port pairs so credentials and
// tokens never reach logs or errors.
func serverHosts(servers string) string {
	var hosts []string
	for _, raw := range strings.Split(servers, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "://") {
			raw = "nats://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			hosts = append(hosts, "<invalid>")
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return strings.Join(hosts, ",")
}

func NewNATSPublisher(conn Conn, subject string, logger *slog.Logger) *NATSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{conn: conn, subject: subject, logger: logger}
}

// Subject returns the subject an event kind is published on.
func (p *NATSPublisher) Subject(kind engine.EventKind) string {
	return p.subject + "." + string(kind)
}

func (p *NATSPublisher) Publish(_ context.Context, e engine.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		p.logger.Warn("encode garden event", logfields.Event(string(e.Kind)), logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.Subject(e.Kind), data); err != nil {
		p.logger.Warn("publish garden event", logfields.Event(string(e.Kind)), logfields.Error(err))
	}
}

// Close flushes pending messages and closes the connection opened by Connect.
func (p *NATSPublisher) Close() {
	if p.close != nil {
		p.close()
	}
}
