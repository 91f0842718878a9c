// Package session binds the wire-level framer and interpreter to live
// connections: it is the "session shell" that turns bytes arriving on a
// socket into ParseMessage calls, tracks the once-per-connection
// role-flip and the responder address needed for skip-filter lookups and
// the port-137 NetBIOS label exception, and expires idle UDP flows.
package session

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hydravigil/dnsvigil/internal/dnsproto"
	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/policy"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

// Session tracks the state ParseMessage itself is deliberately stateless
// about: which side is the responder, whether the role-flip heuristic has
// already fired once, and a correlation ID threaded through every event
// and log line this session produces.
type Session struct {
	ID string

	mu             sync.Mutex
	originatorAddr string
	originatorPort uint16
	responderAddr  string
	responderPort  uint16
	firstMessage   bool
}

// New creates a Session assuming origAddr:origPort is the querying side
// and respAddr:respPort is the DNS server, matching the connection's
// initial orientation. ObserveFirstMessage reverses this exactly once,
// mirroring DNS_Interpreter's first_message guard.
func New(origAddr string, origPort uint16, respAddr string, respPort uint16) *Session {
	return &Session{
		ID:             uuid.NewString(),
		originatorAddr: origAddr,
		originatorPort: origPort,
		responderAddr:  respAddr,
		responderPort:  respPort,
		firstMessage:   true,
	}
}

// ObserveFirstMessage applies the role-flip heuristic at most once per
// session: if the first message seen on the connection is itself a
// response (QR=1) rather than a query, the assumed originator/responder
// roles were backward and must be swapped for every subsequent message.
// The flip is skipped when the assumed responder address is multicast,
// since a multicast responder can never be the side answering the
// question. Grounded on DNS_Interpreter::ParseMessage's
// first_message/FlipRoles handling.
func (s *Session) ObserveFirstMessage(isResponse bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.firstMessage {
		return
	}
	s.firstMessage = false
	if !isResponse {
		return
	}
	if ip := net.ParseIP(s.responderAddr); ip != nil && ip.IsMulticast() {
		return
	}
	s.originatorAddr, s.responderAddr = s.responderAddr, s.originatorAddr
	s.originatorPort, s.responderPort = s.responderPort, s.originatorPort
}

func (s *Session) responder() (string, uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responderAddr, s.responderPort
}

// Handle parses one complete DNS message (a UDP datagram payload or one
// TCP-framed message) and drives it through dnsproto.ParseMessage with
// this session's responder context and policy-derived skip filters.
func (s *Session) Handle(msg []byte, cfg *policy.Config, sink events.Sink, wsink weird.Sink) {
	respAddr, respPort := s.responder()
	filters := dnsproto.SkipFilters{
		SkipAllAuth: cfg.SkipAllAuth,
		SkipAllAddl: cfg.SkipAllAddl,
		SkipAuth:    cfg.SkipAuthResponder,
		SkipAddl:    cfg.SkipAddlResponder,
	}
	info, err := dnsproto.ParseMessage(msg, respPort, respAddr, s.ID, cfg.MaxQueries, filters, sink, wsink)
	if err != nil {
		wsink.Weird(weird.Notice{Name: "non_dns_request", SessionID: s.ID, Detail: err.Error()})
		return
	}
	s.ObserveFirstMessage(!info.IsQuery)
}

// idleWatch re-arms itself on every Touch call and invokes onExpire once
// the session has been idle for timeout, less the one-second grace period
// the wire analyzer's ExpireTimer applies before actually tearing a
// session down.
type idleWatch struct {
	mu       sync.Mutex
	timer    *time.Timer
	timeout  time.Duration
	onExpire func()
	logger   *slog.Logger
}

func newIdleWatch(timeout time.Duration, onExpire func(), logger *slog.Logger) *idleWatch {
	grace := timeout - time.Second
	if grace <= 0 {
		grace = timeout
	}
	w := &idleWatch{timeout: grace, onExpire: onExpire, logger: logger}
	w.timer = time.AfterFunc(grace, w.fire)
	return w
}

func (w *idleWatch) fire() {
	if w.logger != nil {
		w.logger.Debug("dns session idle timeout")
	}
	w.onExpire()
}

// Touch resets the idle deadline; called on every datagram/message seen
// on the flow.
func (w *idleWatch) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timer.Reset(w.timeout)
}

func (w *idleWatch) Stop() {
	w.timer.Stop()
}

// splitHostPort is a small helper used by both tcp.go and udp.go to
// derive a bare address string (no port) for skip-filter lookups, which
// are keyed by responder host rather than host:port.
func splitHostPort(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
