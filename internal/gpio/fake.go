package gpio

import "errors"

// FakeReader is a test double that returns scripted input samples.
type FakeReader struct {
	// Samples contains scripted readings. Each call to Read() consumes the
	// next sample; when exhausted, the last sample repeats.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (Sample, error) {
	if f.ReadError != nil {
		return Sample{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return Sample{}, errors.New("no samples configured")
	}
	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakePanel records rendered frames for test assertions.
type FakePanel struct {
	// Frames contains every frame passed to Render, in order.
	Frames []Frame

	// RenderError, if set, will be returned by Render.
	RenderError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePanel creates a FakePanel for testing.
func NewFakePanel() *FakePanel {
	return &FakePanel{}
}

// Render records the frame.
func (f *FakePanel) Render(frame Frame) error {
	if f.RenderError != nil {
		return f.RenderError
	}
	f.Frames = append(f.Frames, frame)
	return nil
}

// Close marks the panel as closed.
func (f *FakePanel) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently rendered frame.
func (f *FakePanel) Last() (Frame, bool) {
	if len(f.Frames) == 0 {
		return Frame{}, false
	}
	return f.Frames[len(f.Frames)-1], true
}
