package mqtt

import (
	"fmt"
	"testing"
)

func msg(n int) bufferedMsg {
	return bufferedMsg{topic: Topic, payload: []byte(fmt.Sprintf("m%d", n)), qos: 0}
}

func TestRingBufferEmptyDrain(t *testing.T) {
	r := newRingBuffer(4)
	if got := r.drainAll(); got != nil {
		t.Errorf("drain of empty buffer: got %v, want nil", got)
	}
	if r.len() != 0 {
		t.Errorf("len: got %d, want 0", r.len())
	}
}

func TestRingBufferFIFOOrder(t *testing.T) {
	r := newRingBuffer(4)
	for i := 0; i < 3; i++ {
		r.push(msg(i))
	}
	if r.len() != 3 {
		t.Fatalf("len: got %d, want 3", r.len())
	}

	drained := r.drainAll()
	if len(drained) != 3 {
		t.Fatalf("drained %d messages, want 3", len(drained))
	}
	for i, m := range drained {
		want := fmt.Sprintf("m%d", i)
		if string(m.payload) != want {
			t.Errorf("message %d: got %s, want %s", i, m.payload, want)
		}
	}
	if r.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)
	for i := 0; i < 5; i++ {
		r.push(msg(i))
	}
	if r.len() != 3 {
		t.Fatalf("len: got %d, want 3", r.len())
	}

	drained := r.drainAll()
	want := []string{"m2", "m3", "m4"}
	for i, m := range drained {
		if string(m.payload) != want[i] {
			t.Errorf("message %d: got %s, want %s", i, m.payload, want[i])
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	r := newRingBuffer(2)
	r.push(msg(0))
	r.push(msg(1))
	r.push(msg(2)) // overflow
	r.drainAll()

	r.push(msg(7))
	drained := r.drainAll()
	if len(drained) != 1 || string(drained[0].payload) != "m7" {
		t.Errorf("after drain: got %v", drained)
	}
}

func TestRingBufferPreservesMessageFields(t *testing.T) {
	r := newRingBuffer(2)
	r.push(bufferedMsg{topic: TopicSystem, payload: []byte("x"), qos: 1, retained: true})

	drained := r.drainAll()
	if len(drained) != 1 {
		t.Fatalf("drained %d messages, want 1", len(drained))
	}
	m := drained[0]
	if m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("fields not preserved: %+v", m)
	}
}
