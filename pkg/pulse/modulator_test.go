package pulse

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"Lasernet/pkg/async"
	"Lasernet/pkg/device"
)

type recordingLine struct {
	m      *Modulator
	levels []device.Level
	holds  []time.Duration
	states []ModulateStateEnum
	failAt int
}

var errBroken = errors.New("broken line")

func (r *recordingLine) SetLevel(level device.Level) error {
	if r.failAt > 0 && len(r.levels)+1 == r.failAt {
		return errBroken
	}
	r.levels = append(r.levels, level)
	r.states = append(r.states, r.m.State())
	return nil
}

func (r *recordingLine) Sleep(d time.Duration) {
	r.holds = append(r.holds, d)
}

func TestModulatorSequence(t *testing.T) {
	line := &recordingLine{}
	m := &Modulator{Output: line, Clock: line, Timing: DefaultTiming()}
	line.m = m

	if err := m.Modulate([]bool{true, false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	L, H := device.Low, device.High
	expectedLevels := []device.Level{L, H, L, H, L, H, L, H, L}
	if !reflect.DeepEqual(line.levels, expectedLevels) {
		t.Errorf("Expected levels %v, but got %v", expectedLevels, line.levels)
	}
	expectedHolds := []time.Duration{50 * us, 500 * us, 50 * us, 25 * us, 50 * us, 10 * us, 50 * us, 1000 * us}
	if !reflect.DeepEqual(line.holds, expectedHolds) {
		t.Errorf("Expected holds %v, but got %v", expectedHolds, line.holds)
	}
	expectedStates := []ModulateStateEnum{
		Initiating, Initiating, Initiating,
		Transmitting, Transmitting, Transmitting, Transmitting,
		Terminating, Terminating,
	}
	if !reflect.DeepEqual(line.states, expectedStates) {
		t.Errorf("Expected states %v, but got %v", expectedStates, line.states)
	}
	if m.State() != Idle {
		t.Errorf("expected the modulator to return to idle, got %v", m.State())
	}
}

func TestModulatorOutputError(t *testing.T) {
	line := &recordingLine{failAt: 4}
	m := &Modulator{Output: line, Clock: line, Timing: DefaultTiming()}
	line.m = m

	err := m.Modulate([]bool{true})
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected the line error, got %v", err)
	}
	if m.State() != Idle {
		t.Errorf("expected the modulator to return to idle, got %v", m.State())
	}
}

func TestWireRoundTrip(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, false, true, false, true}
	for i := 0; i < 6; i++ {
		bits = append(bits, bits...)
	}

	type testRow struct {
		Name   string
		Jitter time.Duration
	}

	testData := []testRow{
		{"clean", 0},
		{"jitter", 1 * us},
	}

	for _, row := range testData {
		t.Run(row.Name, func(t *testing.T) {
			wire := &device.Wire{Jitter: row.Jitter, Seed: 3, BufferSize: 2*len(bits) + 8}
			m := &Modulator{Output: wire, Clock: wire, Timing: DefaultTiming()}
			d := &Demodulator{Input: wire, Bands: DefaultTiming().Bands()}

			if err := m.Modulate(bits); err != nil {
				t.Fatalf("modulate: %v", err)
			}
			wire.Close()

			got, err := d.Demodulate()
			if err != nil {
				t.Fatalf("demodulate: %v", err)
			}
			if !reflect.DeepEqual(got, bits) {
				t.Errorf("expected %d bits back unchanged, got %d bits", len(bits), len(got))
			}
			if wire.Now() != DefaultTiming().FrameDuration(bits) {
				t.Errorf("expected the frame to take %v, took %v", DefaultTiming().FrameDuration(bits), wire.Now())
			}
		})
	}
}

func TestSampleLineRoundTrip(t *testing.T) {
	line := &device.SampleLine{
		Device:     &device.Loopback{BufferSize: 64},
		SampleRate: 1e6,
	}
	line.Open()
	defer line.Close()

	bits := []bool{false, true, true, false, true, false, false, true}
	m := &Modulator{Output: line, Clock: line, Timing: DefaultTiming()}
	d := &Demodulator{Input: line, Bands: DefaultTiming().Bands()}

	result := async.Try(d.Demodulate)
	if err := m.Modulate(bits); err != nil {
		t.Fatalf("modulate: %v", err)
	}

	var got []bool
	select {
	case r := <-result:
		if r.Err != nil {
			t.Fatalf("demodulate: %v", r.Err)
		}
		got = r.Value
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the frame")
	}
	if !reflect.DeepEqual(got, bits) {
		t.Errorf("Expected %v, but got %v", bits, got)
	}
}
