//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/signal-sequencer/internal/logic"
)

// inputPins fixes the request order of the operator lines.
var inputPins = [5]int{PinEnable, PinMode, PinPause, PinStep, PinReset}

// RealReader reads the operator panel from actual hardware using the Linux
// GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [5]*gpiocdev.Line
}

// NewRealReader requests the five input lines as pulled-down inputs, so an
// open switch reads inactive and matches Pi boot defaults.
func NewRealReader() (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	for i, pin := range inputPins {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request input pin %d: %w", pin, err)
		}
		r.lines[i] = line
	}
	return r, nil
}

// Read returns the current levels of the five input lines.
func (r *RealReader) Read() (Sample, error) {
	var raw [5]bool
	for i, line := range r.lines {
		v, err := line.Value()
		if err != nil {
			return Sample{}, fmt.Errorf("read pin %d: %w", inputPins[i], err)
		}
		raw[i] = v != 0
	}
	return Sample{
		Enable:     raw[0],
		ModeManual: raw[1],
		Pause:      raw[2],
		Step:       raw[3],
		Reset:      raw[4],
	}, nil
}

// Close releases the input lines. Lines are reconfigured to input with
// pull-down first, matching Pi boot defaults so a restart starts clean.
func (r *RealReader) Close() error {
	var errs []error
	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", inputPins[i], err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", inputPins[i], err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealPanel drives the signal head LEDs and the seven-segment digit.
type RealPanel struct {
	chip     *gpiocdev.Chip
	ns       [3]*gpiocdev.Line
	ew       [3]*gpiocdev.Line
	segments [7]*gpiocdev.Line
}

// NewRealPanel requests the thirteen output lines, all initially low
// (everything dark until the first frame is rendered).
func NewRealPanel() (*RealPanel, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	p := &RealPanel{chip: chip}
	request := func(pin int) (*gpiocdev.Line, error) {
		return chip.RequestLine(pin, gpiocdev.AsOutput(0))
	}

	for i, pin := range PinsNS {
		if p.ns[i], err = request(pin); err != nil {
			p.Close()
			return nil, fmt.Errorf("request NS pin %d: %w", pin, err)
		}
	}
	for i, pin := range PinsEW {
		if p.ew[i], err = request(pin); err != nil {
			p.Close()
			return nil, fmt.Errorf("request EW pin %d: %w", pin, err)
		}
	}
	for i, pin := range PinsSegments {
		if p.segments[i], err = request(pin); err != nil {
			p.Close()
			return nil, fmt.Errorf("request segment pin %d: %w", pin, err)
		}
	}
	return p, nil
}

// Render applies the frame to the output lines.
func (p *RealPanel) Render(f Frame) error {
	if err := setGroup(p.ns, f.NS); err != nil {
		return fmt.Errorf("render NS: %w", err)
	}
	if err := setGroup(p.ew, f.EW); err != nil {
		return fmt.Errorf("render EW: %w", err)
	}
	for i, line := range p.segments {
		if err := line.SetValue(boolValue(f.Segments[i])); err != nil {
			return fmt.Errorf("render segment %d: %w", i, err)
		}
	}
	return nil
}

// setGroup lights exactly one lamp of a red/yellow/green group.
func setGroup(lines [3]*gpiocdev.Line, color logic.Light) error {
	values := [3]bool{
		color == logic.LightRed,
		color == logic.LightYellow,
		color == logic.LightGreen,
	}
	for i, line := range lines {
		if err := line.SetValue(boolValue(values[i])); err != nil {
			return err
		}
	}
	return nil
}

func boolValue(on bool) int {
	if on {
		return 1
	}
	return 0
}

// Close blanks the head, reconfigures the lines to pulled-down inputs to
// match Pi boot defaults, and releases them.
func (p *RealPanel) Close() error {
	var errs []error
	closeLine := func(line *gpiocdev.Line) {
		if line == nil {
			return
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("blank line: %w", err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	for _, line := range p.ns {
		closeLine(line)
	}
	for _, line := range p.ew {
		closeLine(line)
	}
	for _, line := range p.segments {
		closeLine(line)
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
