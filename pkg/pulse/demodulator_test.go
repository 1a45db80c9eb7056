package pulse

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"Lasernet/pkg/device"
)

func TestDemodulate(t *testing.T) {
	d := &Demodulator{
		Input: device.Durations(
			100*us, // idle before the frame
			40*us,  // not an initiation
			500*us,
			10*us, 50*us,
			25*us, 0,
			45*us,
			10*us, 50*us,
			1000*us,
		),
		Bands: DefaultTiming().Bands(),
	}

	bits, err := d.Demodulate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []bool{false, true, false}
	if !reflect.DeepEqual(bits, expected) {
		t.Errorf("Expected %v, but got %v", expected, bits)
	}
	if d.Dropped != 4 {
		t.Errorf("expected 4 dropped edges, got %d", d.Dropped)
	}
}

func TestDemodulateCount(t *testing.T) {
	durations := []time.Duration{500 * us}
	for i := 0; i < 100; i++ {
		durations = append(durations, 25*us, 50*us)
	}
	durations = append(durations, 1000*us)

	d := &Demodulator{Input: device.Durations(durations...), Bands: DefaultTiming().Bands()}
	bits, err := d.Demodulate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bits) != 100 {
		t.Fatalf("expected 100 bits, got %d", len(bits))
	}
	for i, bit := range bits {
		if !bit {
			t.Fatalf("bit %d: expected 1", i)
		}
	}
}

func TestDemodulateSkipsErrors(t *testing.T) {
	edges := make(device.EdgeChan, 8)
	bad := errors.New("bad reading")
	edges <- device.Edge{Err: bad}
	edges <- device.Edge{Duration: 500 * us}
	edges <- device.Edge{Duration: 10 * us}
	edges <- device.Edge{Duration: 700 * us, Err: bad}
	edges <- device.Edge{Duration: 25 * us}
	edges <- device.Edge{Duration: 1000 * us}
	close(edges)

	d := &Demodulator{Input: edges, Bands: DefaultTiming().Bands()}
	bits, err := d.Demodulate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(bits, []bool{false, true}) {
		t.Errorf("Expected [false true], but got %v", bits)
	}
	if d.Errors != 1 {
		t.Errorf("expected 1 error edge counted, got %d", d.Errors)
	}
}

func TestDemodulateEmptyFrame(t *testing.T) {
	d := &Demodulator{Input: device.Durations(500*us, 50*us, 1000*us), Bands: DefaultTiming().Bands()}
	bits, err := d.Demodulate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bits) != 0 {
		t.Errorf("expected no bits, got %v", bits)
	}
}

func TestDemodulateLineClosed(t *testing.T) {
	d := &Demodulator{Input: device.Durations(), Bands: DefaultTiming().Bands()}
	if _, err := d.Demodulate(); !errors.Is(err, ErrLineClosed) {
		t.Errorf("expected ErrLineClosed waiting for a frame, got %v", err)
	}

	d = &Demodulator{Input: device.Durations(500*us, 10*us, 50*us, 25*us), Bands: DefaultTiming().Bands()}
	bits, err := d.Demodulate()
	if !errors.Is(err, ErrLineClosed) {
		t.Errorf("expected ErrLineClosed inside a frame, got %v", err)
	}
	if !reflect.DeepEqual(bits, []bool{false, true}) {
		t.Errorf("expected the partial frame, got %v", bits)
	}
}

func TestDemodulateConsecutiveFrames(t *testing.T) {
	d := &Demodulator{
		Input: device.Durations(
			500*us, 10*us, 1000*us,
			2*time.Millisecond, // idle between frames
			500*us, 25*us, 1000*us,
		),
		Bands: DefaultTiming().Bands(),
	}

	for i, expected := range [][]bool{{false}, {true}} {
		bits, err := d.Demodulate()
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		if !reflect.DeepEqual(bits, expected) {
			t.Errorf("frame %d: expected %v, got %v", i, expected, bits)
		}
	}
}
