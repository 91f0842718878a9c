// Command bench replays synthetic DNS messages through
// internal/dnsproto.ParseMessage at volume. Adapted from a UDP
// query-throughput benchmark against a live resolver into a
// parse-throughput benchmark: this repository is a passive interpreter,
// not a resolver, so there is no live server to send queries to.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hydravigil/dnsvigil/internal/dnsproto"
	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

func main() {
	var (
		name        = flag.String("name", "www.example.com", "Query name to encode")
		concurrency = flag.Int("concurrency", 200, "Number of concurrent workers")
		messages    = flag.Int("messages", 200000, "Total number of messages to parse")
		mutate      = flag.Bool("mutate", true, "Flip a byte per message to exercise malformed-input paths")
	)
	flag.Parse()

	base := buildQuery(*name)

	conc := *concurrency
	if conc < 1 {
		conc = 1
	}
	total := *messages
	if total < 1 {
		total = 1
	}
	per := total / conc
	rem := total % conc

	lat := make([]float64, 0, total)
	var latMu sync.Mutex

	t0 := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < conc; i++ {
		n := per
		if i < rem {
			n++
		}
		if n <= 0 {
			continue
		}
		wg.Add(1)
		go func(num, seed int) {
			defer wg.Done()
			sink := events.NopSink{}
			wsink := weird.NopSink{}
			msg := make([]byte, len(base))
			for j := 0; j < num; j++ {
				copy(msg, base)
				if *mutate {
					mutateOne(msg, seed*num+j)
				}
				start := time.Now()
				_, _ = dnsproto.ParseMessage(msg, 53, "127.0.0.1", "bench", 25, dnsproto.SkipFilters{}, sink, wsink)
				us := float64(time.Since(start).Microseconds())
				latMu.Lock()
				lat = append(lat, us)
				latMu.Unlock()
			}
		}(n, i+1)
	}
	wg.Wait()
	elapsed := time.Since(t0).Seconds()

	if len(lat) == 0 {
		fmt.Printf("no messages parsed\n")
		return
	}
	sort.Float64s(lat)
	fmt.Printf("messages=%d elapsed_s=%.3f rate=%.0f/s\n", len(lat), elapsed, float64(len(lat))/elapsed)
	fmt.Printf("latency_us p50=%.2f p95=%.2f p99=%.2f min=%.2f max=%.2f\n",
		percentile(lat, 50), percentile(lat, 95), percentile(lat, 99), lat[0], lat[len(lat)-1])
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted))*float64(p)/100.0) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// mutateOne flips one byte of msg deterministically from seed, churning
// through malformed variants of an otherwise well-formed message without
// a real fuzzing harness.
func mutateOne(msg []byte, seed int) {
	if len(msg) == 0 {
		return
	}
	idx := seed % len(msg)
	msg[idx] ^= byte(seed*2654435761 + 1)
}

// buildQuery hand-encodes a single-question A query for name. There is no
// Marshal method to call: encoding DNS messages is out of scope for an
// interpreter that only ever observes traffic passively.
func buildQuery(name string) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint16(buf[0:2], 0xBEEF)
	binary.BigEndian.PutUint16(buf[2:4], 0x0100) // RD
	binary.BigEndian.PutUint16(buf[4:6], 1)      // QDCOUNT

	for _, label := range splitLabels(name) {
		buf = append(buf, byte(len(label)))
		buf = append(buf, label...)
	}
	buf = append(buf, 0)
	qtype := make([]byte, 4)
	binary.BigEndian.PutUint16(qtype[0:2], 1) // A
	binary.BigEndian.PutUint16(qtype[2:4], 1) // IN
	buf = append(buf, qtype...)
	return buf
}

func splitLabels(name string) []string {
	var labels []string
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '.' {
			if i > start {
				labels = append(labels, name[start:i])
			}
			start = i + 1
		}
	}
	return labels
}
