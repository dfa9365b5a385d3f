// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham_test

import (
	"bytes"
	"math/rand"
	"sync"
	"testing"

	"github.com/pierricgimmig/sham"
)

// TestByteQueueBasic covers scenario S3.
func TestByteQueueBasic(t *testing.T) {
	q := sham.NewByteQueue(4096)

	if !q.TryPush([]byte{1, 2, 3, 4, 5}) {
		t.Fatal("TryPush failed")
	}

	buf := make([]byte, 16)
	n, ok := q.TryPop(buf)
	if !ok {
		t.Fatal("TryPop failed")
	}
	if !bytes.Equal(buf[:n], []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("got %v, want [1 2 3 4 5]", buf[:n])
	}
	if !q.Empty() {
		t.Fatal("queue should be empty after drain")
	}
}

func TestByteQueueEmptyPayload(t *testing.T) {
	q := sham.NewByteQueue(4096)
	if !q.TryPush(nil) {
		t.Fatal("TryPush of zero-length payload should succeed")
	}
	buf := make([]byte, 1)
	n, ok := q.TryPop(buf)
	if !ok || n != 0 {
		t.Fatalf("TryPop: got (%d, %v), want (0, true)", n, ok)
	}
}

func TestByteQueuePanicsOnSmallBuffer(t *testing.T) {
	q := sham.NewByteQueue(4096)
	if !q.TryPush([]byte{1, 2, 3, 4}) {
		t.Fatal("TryPush failed")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("TryPop into an undersized buffer should panic")
		}
	}()
	q.TryPop(make([]byte, 1))
}

// TestByteQueueInvalidCapacity covers the constructor's static rejection
// of non-power-of-two or under-minimum capacities.
func TestByteQueueInvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1, 100, 127} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("NewByteQueue(%d): want panic", c)
				}
			}()
			sham.NewByteQueue(c)
		}()
	}
}

// TestByteQueueExhaustion covers scenario S4.
func TestByteQueueExhaustion(t *testing.T) {
	const (
		ringCapacity = 128 << 10
		payloadSize  = 128
	)
	q := sham.NewByteQueue(ringCapacity)
	payload := make([]byte, payloadSize)

	pushed := 0
	for q.TryPush(payload) {
		pushed++
	}
	if pushed == 0 {
		t.Fatal("expected at least one successful push before exhaustion")
	}

	buf := make([]byte, payloadSize)
	if _, ok := q.TryPop(buf); !ok {
		t.Fatal("TryPop should succeed after exhaustion, draining a published block")
	}
	if !q.TryPush(payload) {
		t.Fatal("TryPush should succeed after a pop plus shrink frees a block")
	}
}

// TestByteQueueReassembly covers property 7 and scenario S5 at a reduced
// scale: a byte sequence split into random chunks from several producers
// reassembles, when placed at each chunk's recorded offset, into the
// original sequence.
func TestByteQueueReassembly(t *testing.T) {
	const totalBytes = 256 << 10
	src := make([]byte, totalBytes)
	rnd := rand.New(rand.NewSource(1))
	rnd.Read(src)

	type chunk struct {
		offset int
		data   []byte
	}
	var chunks []chunk
	for off := 0; off < totalBytes; {
		n := 1 + rnd.Intn(1001)
		if off+n > totalBytes {
			n = totalBytes - off
		}
		chunks = append(chunks, chunk{offset: off, data: src[off : off+n]})
		off += n
	}

	q := sham.NewByteQueue(1 << 20)

	const numProducers = 8
	var wg sync.WaitGroup
	perProducer := (len(chunks) + numProducers - 1) / numProducers
	for p := range numProducers {
		start := p * perProducer
		end := start + perProducer
		if end > len(chunks) {
			end = len(chunks)
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(cs []chunk) {
			defer wg.Done()
			for _, c := range cs {
				payload := make([]byte, 4+len(c.data))
				payload[0] = byte(c.offset)
				payload[1] = byte(c.offset >> 8)
				payload[2] = byte(c.offset >> 16)
				payload[3] = byte(c.offset >> 24)
				copy(payload[4:], c.data)
				for !q.TryPush(payload) {
					q.Shrink()
				}
			}
		}(chunks[start:end])
	}

	got := make([]byte, totalBytes)
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		buf := make([]byte, 1024+4)
		collected := 0
		for collected < len(chunks) {
			n, ok := q.TryPop(buf)
			if !ok {
				continue
			}
			off := int(buf[0]) | int(buf[1])<<8 | int(buf[2])<<16 | int(buf[3])<<24
			copy(got[off:], buf[4:n])
			collected++
		}
	}()

	wg.Wait()
	collectWg.Wait()

	if !bytes.Equal(got, src) {
		t.Fatal("reassembled buffer does not match source")
	}
}

// TestByteQueueReassemblyMultiConsumer covers scenario S6 at a reduced
// scale: the same reassembly as S5, but with several consumers draining
// concurrently, and the negative check that a one-byte mutation on either
// side of the comparison breaks equality.
func TestByteQueueReassemblyMultiConsumer(t *testing.T) {
	const totalBytes = 256 << 10
	src := make([]byte, totalBytes)
	rnd := rand.New(rand.NewSource(2))
	rnd.Read(src)

	type chunk struct {
		offset int
		data   []byte
	}
	var chunks []chunk
	for off := 0; off < totalBytes; {
		n := 1 + rnd.Intn(1001)
		if off+n > totalBytes {
			n = totalBytes - off
		}
		chunks = append(chunks, chunk{offset: off, data: src[off : off+n]})
		off += n
	}

	q := sham.NewByteQueue(1 << 20)

	const numProducers = 8
	var wg sync.WaitGroup
	perProducer := (len(chunks) + numProducers - 1) / numProducers
	for p := range numProducers {
		start := p * perProducer
		end := start + perProducer
		if end > len(chunks) {
			end = len(chunks)
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(cs []chunk) {
			defer wg.Done()
			for _, c := range cs {
				payload := make([]byte, 4+len(c.data))
				payload[0] = byte(c.offset)
				payload[1] = byte(c.offset >> 8)
				payload[2] = byte(c.offset >> 16)
				payload[3] = byte(c.offset >> 24)
				copy(payload[4:], c.data)
				for !q.TryPush(payload) {
					q.Shrink()
				}
			}
		}(chunks[start:end])
	}

	got := make([]byte, totalBytes)
	var mu sync.Mutex
	var collected int
	const numConsumers = 8
	var collectWg sync.WaitGroup
	for range numConsumers {
		collectWg.Add(1)
		go func() {
			defer collectWg.Done()
			buf := make([]byte, 1024+4)
			for {
				mu.Lock()
				if collected >= len(chunks) {
					mu.Unlock()
					return
				}
				mu.Unlock()
				n, ok := q.TryPop(buf)
				if !ok {
					continue
				}
				off := int(buf[0]) | int(buf[1])<<8 | int(buf[2])<<16 | int(buf[3])<<24
				copy(got[off:], buf[4:n])
				mu.Lock()
				collected++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	collectWg.Wait()

	if !bytes.Equal(got, src) {
		t.Fatal("reassembled buffer does not match source")
	}

	mutated := append([]byte{}, got...)
	mutated[0] ^= 0xff
	if bytes.Equal(got, mutated) {
		t.Fatal("mutated copy should no longer compare equal to reassembled buffer")
	}
}

// TestByteQueueInvariantTailReadHead covers property 8.
func TestByteQueueInvariantTailReadHead(t *testing.T) {
	q := sham.NewByteQueue(64 << 10)
	payload := make([]byte, 64)
	for range 32 {
		q.TryPush(payload)
	}
	buf := make([]byte, 64)
	for range 16 {
		q.TryPop(buf)
	}
	if q.Size() < 0 {
		t.Fatalf("Size() = %d, want >= 0 with no outstanding consumers", q.Size())
	}
	if q.Size() > q.Cap() {
		t.Fatalf("Size() = %d exceeds Cap() = %d", q.Size(), q.Cap())
	}
}

// TestByteQueueShrinkIdempotent covers property 9. TryPop already runs
// reclamation after each pop, so once the queue is drained there is
// nothing left for an explicit Shrink to reclaim.
func TestByteQueueShrinkIdempotent(t *testing.T) {
	q := sham.NewByteQueue(4096)
	payload := make([]byte, 32)
	for range 4 {
		q.TryPush(payload)
	}
	buf := make([]byte, 32)
	for range 4 {
		q.TryPop(buf)
	}
	if got := q.Shrink(); got != 0 {
		t.Fatalf("first Shrink after draining: got %d, want 0 (TryPop already reclaimed)", got)
	}
	if q.Shrink() != 0 {
		t.Fatal("Shrink should be idempotent with no intervening pops")
	}
}

func TestByteQueueMutationBreaksEquality(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3}
	if !bytes.Equal(a, b) {
		t.Fatal("expected equal slices")
	}
	b[1] = 9
	if bytes.Equal(a, b) {
		t.Fatal("mutated slice should no longer compare equal")
	}
}
