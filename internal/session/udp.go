package session

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/policy"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

const maxUDPDatagram = 4096

// UDPShell routes UDP datagrams directly to dnsproto.ParseMessage: DNS
// over UDP is not a stream, so there is no framing to do, only per-flow
// session tracking and idle expiry. Grounded on the teacher's
// server.UDPServer receive-loop shape (one reused read buffer here, no
// buffer pool); the
// EDNS-aware-truncation response logic in that file is resolver-only and
// not carried over.
type UDPShell struct {
	Logger *slog.Logger
	Policy *policy.Config
	Sink   events.Sink
	Weird  weird.Sink

	mu       sync.Mutex
	sessions map[string]*udpFlow
}

type udpFlow struct {
	sess  *Session
	watch *idleWatch
}

// Run listens on addr and dispatches each datagram to a per-flow Session,
// expiring flows after the configured idle timeout.
func (u *UDPShell) Run(ctx context.Context, addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	u.mu.Lock()
	u.sessions = map[string]*udpFlow{}
	u.mu.Unlock()

	buf := make([]byte, maxUDPDatagram)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	respAddr := splitHostPort(conn.LocalAddr())
	respPort := portOf(conn.LocalAddr())

	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		msg := make([]byte, n)
		copy(msg, buf[:n])

		origAddr := splitHostPort(from)
		origPort := portOf(from)
		flow := u.flowFor(from.String(), origAddr, origPort, respAddr, respPort)
		flow.watch.Touch()
		flow.sess.Handle(msg, u.Policy, u.Sink, u.Weird)
	}
}

func (u *UDPShell) flowFor(key, origAddr string, origPort uint16, respAddr string, respPort uint16) *udpFlow {
	u.mu.Lock()
	defer u.mu.Unlock()

	if f, ok := u.sessions[key]; ok {
		return f
	}
	sess := New(origAddr, origPort, respAddr, respPort)
	f := &udpFlow{sess: sess}
	timeout := u.Policy.SessionTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	f.watch = newIdleWatch(timeout, func() {
		u.mu.Lock()
		delete(u.sessions, key)
		u.mu.Unlock()
	}, u.Logger)
	u.sessions[key] = f
	return f
}
