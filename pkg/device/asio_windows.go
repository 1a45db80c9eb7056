//go:build windows

package device

import (
	"github.com/rs/zerolog/log"
	"github.com/xsjk/go-asio"
)

// ASIOMono is one input and one output channel of an ASIO sound card.
type ASIOMono struct {
	DeviceName string
	SampleRate float64
	InChannel  int
	OutChannel int
	device     asio.Device
}

func (a *ASIOMono) Start(callback func([]int32, []int32)) {
	log.Info().Str("component", "asio").Str("device", a.DeviceName).Float64("sample_rate", a.SampleRate).Msg("opening device")
	a.device.Load(a.DeviceName)
	a.device.SetSampleRate(a.SampleRate)
	a.device.Open()
	a.device.Start(func(in, out [][]int32) {
		callback(in[a.InChannel], out[a.OutChannel])
	})
}

func (a *ASIOMono) Stop() {
	a.device.Stop()
	a.device.Close()
	a.device.Unload()
}

// NewASIOMono returns the ASIO channel pair as a sample device.
func NewASIOMono(name string, sampleRate float64, in, out int) (Device, error) {
	return &ASIOMono{DeviceName: name, SampleRate: sampleRate, InChannel: in, OutChannel: out}, nil
}
