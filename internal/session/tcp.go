package session

import (
	"context"
	"log/slog"
	"net"
	"runtime"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/framer"
	"github.com/hydravigil/dnsvigil/internal/policy"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

// TCPShell accepts TCP connections carrying DNS-over-TCP traffic and
// drives each one through a pair of framers (one per direction) bound to
// a Session. Grounded on the teacher's server.TCPServer: SO_REUSEPORT
// multi-listener fan-out for multi-core scalability, one goroutine per
// accepted connection, and the same graceful-shutdown shape — but the
// per-message framing itself is delegated to internal/framer's explicit
// state machine instead of the teacher's single-shot readMessage.
type TCPShell struct {
	Logger  *slog.Logger
	Policy  *policy.Config
	Sink    events.Sink
	Weird   weird.Sink

	listeners []net.Listener
	wg        sync.WaitGroup
}

// Run starts one TCP listener per CPU core, all bound to addr with
// SO_REUSEPORT, and blocks until ctx is cancelled.
func (t *TCPShell) Run(ctx context.Context, addr string) error {
	n := runtime.NumCPU()
	t.listeners = make([]net.Listener, 0, n)

	for range n {
		ln, err := listenTCPReusePort(ctx, addr)
		if err != nil {
			for _, l := range t.listeners {
				_ = l.Close()
			}
			return err
		}
		t.listeners = append(t.listeners, ln)
		listener := ln
		t.wg.Go(func() {
			t.acceptLoop(ctx, listener)
		})
	}

	<-ctx.Done()
	return t.Stop(5 * time.Second)
}

func (t *TCPShell) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			return
		}
		t.wg.Go(func() {
			t.handleConn(ctx, conn)
		})
	}
}

// handleConn drives one accepted connection through a pair of Framers,
// one per direction: orig decodes bytes arriving from the connecting
// peer, resp decodes bytes returned by the upstream DNS server when
// TCPUpstreamAddr relaying is configured. Grounded on the teacher's
// TCPServer.handleConnection read/write loop, generalized from
// read-query/write-response into relay both legs through their own
// framer instead of terminating the protocol itself.
func (t *TCPShell) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	local := conn.LocalAddr()
	remote := conn.RemoteAddr()
	respAddr := splitHostPort(local)
	respPort := portOf(local)
	origAddr := splitHostPort(remote)
	origPort := portOf(remote)
	sess := New(origAddr, origPort, respAddr, respPort)

	deliver := func(msg []byte) {
		buf := make([]byte, len(msg))
		copy(buf, msg)
		sess.Handle(buf, t.Policy, t.Sink, t.Weird)
	}
	orig := framer.New(deliver)
	resp := framer.New(deliver)

	deadline := t.Policy.SessionTimeout()
	if deadline <= 0 {
		deadline = 30 * time.Second
	}

	upstreamAddr := t.Policy.Listen.TCPUpstreamAddr
	if upstreamAddr == "" {
		t.relayDirection(ctx, conn, nil, orig, deadline)
		t.flushBoth(sess, orig, resp)
		return
	}

	upstream, err := net.Dial("tcp", upstreamAddr)
	if err != nil {
		if t.Logger != nil {
			t.Logger.Warn("dns tcp upstream dial failed", "addr", upstreamAddr, "error", err)
		}
		t.relayDirection(ctx, conn, nil, orig, deadline)
		t.flushBoth(sess, orig, resp)
		return
	}
	defer upstream.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		t.relayDirection(ctx, conn, upstream, orig, deadline)
	}()
	go func() {
		defer wg.Done()
		t.relayDirection(ctx, upstream, conn, resp, deadline)
	}()
	wg.Wait()

	t.flushBoth(sess, orig, resp)
}

// relayDirection reads from src, feeding every chunk to f, and forwards
// the same bytes to dst when dst is non-nil (the relay case). With dst
// nil, this only observes src's bytes without proxying them anywhere,
// which is what happens when no upstream address is configured.
func (t *TCPShell) relayDirection(ctx context.Context, src, dst net.Conn, f *framer.Framer, deadline time.Duration) {
	buf := make([]byte, 4096)
	for {
		_ = src.SetReadDeadline(time.Now().Add(deadline))
		n, err := src.Read(buf)
		if n > 0 {
			f.Deliver(buf[:n])
			if dst != nil {
				_, _ = dst.Write(buf[:n])
			}
		}
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (t *TCPShell) flushBoth(sess *Session, orig, resp *framer.Framer) {
	if partial, had := orig.Flush(); had {
		t.Weird.Weird(weird.Notice{Name: weird.StateMismatchInReassembly, SessionID: sess.ID, Detail: "connection closed mid-frame (orig)"})
		_ = partial
	}
	if partial, had := resp.Flush(); had {
		t.Weird.Weird(weird.Notice{Name: weird.StateMismatchInReassembly, SessionID: sess.ID, Detail: "connection closed mid-frame (resp)"})
		_ = partial
	}
}

// Stop closes all listeners and waits up to timeout for in-flight
// connections to finish.
func (t *TCPShell) Stop(timeout time.Duration) error {
	for _, l := range t.listeners {
		_ = l.Close()
	}
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
	return nil
}

func listenTCPReusePort(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
		},
	}
	return lc.Listen(ctx, "tcp", addr)
}

func portOf(addr net.Addr) uint16 {
	if addr == nil {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0
	}
	var p int
	for _, c := range portStr {
		if c < '0' || c > '9' {
			return 0
		}
		p = p*10 + int(c-'0')
	}
	if p < 0 || p > 65535 {
		return 0
	}
	return uint16(p)
}
