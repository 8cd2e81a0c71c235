package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO holding messages while the broker
// connection is down. When full, the oldest message is dropped so the most
// recent signal state wins. Not safe for concurrent use — the publisher
// synchronizes around it.
type ringBuffer struct {
	buf      []bufferedMsg
	tail     int // oldest message position
	count    int
	overflow bool // a drop happened since the last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	capacity := len(r.buf)
	if r.count == capacity {
		if !r.overflow {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", capacity)
			r.overflow = true
		}
		// Overwrite the oldest and move the tail past it.
		r.buf[r.tail] = msg
		r.tail = (r.tail + 1) % capacity
		return
	}
	r.buf[(r.tail+r.count)%capacity] = msg
	r.count++
}

func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}

	result := make([]bufferedMsg, r.count)
	for i := range result {
		result[i] = r.buf[(r.tail+i)%len(r.buf)]
	}

	r.tail = 0
	r.count = 0
	r.overflow = false
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}
