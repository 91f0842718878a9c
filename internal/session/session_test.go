package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/policy"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

type collectingSink struct {
	events []events.Event
}

func (c *collectingSink) Emit(e events.Event) { c.events = append(c.events, e) }

type collectingWeird struct {
	notices []weird.Notice
}

func (c *collectingWeird) Weird(n weird.Notice) { c.notices = append(c.notices, n) }

func buildAQuery(name string) []byte {
	put16 := func(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
	msg := put16(0xBEEF)
	msg = append(msg, put16(0x0100)...) // RD
	msg = append(msg, put16(1)...)      // QDCOUNT
	msg = append(msg, put16(0)...)
	msg = append(msg, put16(0)...)
	msg = append(msg, put16(0)...)
	for _, label := range []string{"www", "example", "com"} {
		msg = append(msg, byte(len(label)))
		msg = append(msg, label...)
	}
	msg = append(msg, 0)
	msg = append(msg, put16(1)...) // A
	msg = append(msg, put16(1)...) // IN
	return msg
}

func TestSession_New_AssignsID(t *testing.T) {
	s := New("10.0.0.1", 5353, "127.0.0.1", 53)
	assert.NotEmpty(t, s.ID)
	s2 := New("10.0.0.1", 5353, "127.0.0.1", 53)
	assert.NotEqual(t, s.ID, s2.ID)
}

func TestSession_Handle_EmitsRequestEvent(t *testing.T) {
	s := New("10.0.0.1", 5353, "127.0.0.1", 53)
	cfg := policy.Default()
	require.NoError(t, cfg.Validate())

	sink := &collectingSink{}
	wsink := &collectingWeird{}
	s.Handle(buildAQuery("www.example.com"), &cfg, sink, wsink)

	require.GreaterOrEqual(t, len(sink.events), 2)
	assert.Equal(t, events.KindMessage, sink.events[0].Kind)
	assert.Equal(t, events.KindRequest, sink.events[1].Kind)
	assert.Equal(t, s.ID, sink.events[1].Hdr.SessionID)
	assert.Empty(t, wsink.notices)
}

func TestSession_Handle_MalformedMessageReportsWeird(t *testing.T) {
	s := New("10.0.0.1", 5353, "127.0.0.1", 53)
	cfg := policy.Default()
	require.NoError(t, cfg.Validate())

	sink := &collectingSink{}
	wsink := &collectingWeird{}
	s.Handle([]byte{0x01, 0x02}, &cfg, sink, wsink)

	require.Len(t, wsink.notices, 1)
	assert.Equal(t, "non_dns_request", wsink.notices[0].Name)
	assert.Equal(t, s.ID, wsink.notices[0].SessionID)
}

func TestSession_Handle_RespectsMaxQueriesCeiling(t *testing.T) {
	s := New("10.0.0.1", 5353, "127.0.0.1", 53)
	cfg := policy.Default()
	require.NoError(t, cfg.Validate())
	cfg.MaxQueries = 1

	sink := &collectingSink{}
	wsink := &collectingWeird{}
	s.Handle(buildAQuery("www.example.com"), &cfg, sink, wsink)

	require.GreaterOrEqual(t, len(sink.events), 2)
	assert.Equal(t, events.KindMessage, sink.events[0].Kind)
	assert.Equal(t, events.KindRequest, sink.events[1].Kind)
}

func TestSession_ObserveFirstMessage_FlipsRolesOnLeadingResponse(t *testing.T) {
	s := New("10.0.0.1", 5353, "127.0.0.1", 53)
	s.ObserveFirstMessage(true)

	addr, port := s.responder()
	assert.Equal(t, "10.0.0.1", addr)
	assert.Equal(t, uint16(5353), port)
}

func TestSession_ObserveFirstMessage_NoFlipOnLeadingQuery(t *testing.T) {
	s := New("10.0.0.1", 5353, "127.0.0.1", 53)
	s.ObserveFirstMessage(false)

	addr, port := s.responder()
	assert.Equal(t, "127.0.0.1", addr)
	assert.Equal(t, uint16(53), port)
}

func TestSession_ObserveFirstMessage_OnlyFlipsOnce(t *testing.T) {
	s := New("10.0.0.1", 5353, "127.0.0.1", 53)
	s.ObserveFirstMessage(true)
	s.ObserveFirstMessage(true)

	addr, port := s.responder()
	assert.Equal(t, "10.0.0.1", addr)
	assert.Equal(t, uint16(5353), port)
}

func TestSession_ObserveFirstMessage_SkipsFlipForMulticastResponder(t *testing.T) {
	s := New("10.0.0.1", 5353, "224.0.0.251", 5353)
	s.ObserveFirstMessage(true)

	addr, port := s.responder()
	assert.Equal(t, "224.0.0.251", addr)
	assert.Equal(t, uint16(5353), port)
}

func TestIdleWatch_FiresAfterGracePeriod(t *testing.T) {
	var fired atomic.Bool
	w := newIdleWatch(20*time.Millisecond, func() { fired.Store(true) }, nil)
	defer w.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.True(t, fired.Load())
}

func TestIdleWatch_TouchPostponesExpiry(t *testing.T) {
	var fired atomic.Bool
	w := newIdleWatch(40*time.Millisecond, func() { fired.Store(true) }, nil)
	defer w.Stop()

	time.Sleep(15 * time.Millisecond)
	w.Touch()
	time.Sleep(15 * time.Millisecond)
	w.Touch()
	time.Sleep(15 * time.Millisecond)
	assert.False(t, fired.Load(), "touching should have postponed expiry")

	time.Sleep(60 * time.Millisecond)
	assert.True(t, fired.Load())
}

func TestIdleWatch_StopPreventsFiring(t *testing.T) {
	var fired atomic.Bool
	w := newIdleWatch(15*time.Millisecond, func() { fired.Store(true) }, nil)
	w.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.False(t, fired.Load())
}
