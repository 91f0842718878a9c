package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_AppliesSchemaAndIsHealthy(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.Health())
}

func TestEventSink_Emit_PersistsRow(t *testing.T) {
	db := openTestDB(t)
	sink := EventSink{DB: db}

	sink.Emit(events.Event{
		Kind: events.KindAReply,
		Ans: &events.Answer{
			Header:  events.Header{SessionID: "sess-1"},
			Query:   "www.example.com",
			Section: "answer",
		},
	})

	counts, err := db.EventCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[int(events.KindAReply)])
}

func TestWeirdSink_Weird_PersistsRowAndRecentWeirdsReturnsIt(t *testing.T) {
	db := openTestDB(t)
	sink := WeirdSink{DB: db}

	sink.Weird(weird.Notice{SessionID: "sess-2", Name: weird.LabelTooLong, Detail: "label"})

	recent, err := db.RecentWeirds(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, weird.LabelTooLong, recent[0].Name)
	assert.Equal(t, "sess-2", recent[0].SessionID)
}

func TestEventCounts_GroupsByKind(t *testing.T) {
	db := openTestDB(t)
	sink := EventSink{DB: db}

	sink.Emit(events.Event{Kind: events.KindAReply, Hdr: &events.Header{SessionID: "s"}})
	sink.Emit(events.Event{Kind: events.KindAReply, Hdr: &events.Header{SessionID: "s"}})
	sink.Emit(events.Event{Kind: events.KindEnd, Hdr: &events.Header{SessionID: "s"}})

	counts, err := db.EventCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[int(events.KindAReply)])
	assert.Equal(t, int64(1), counts[int(events.KindEnd)])
}
