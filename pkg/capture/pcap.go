// Package capture records received frames in pcap files so that they can be
// inspected with the usual packet tools.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// LinkType marks captured frames as private data.
const LinkType = layers.LinkType(147) // LINKTYPE_USER0

const SnapLen = 65536

var ErrFrameTooLarge = errors.New("capture: frame too large")

// PCAP appends one packet per frame: the frame's bits packed by Pack.  It is
// safe for concurrent use.
type PCAP struct {
	mu     sync.Mutex
	w      *pcapgo.Writer
	closer io.Closer
	frames int
}

// Create creates or truncates the file at path and writes the pcap header.
func Create(path string) (*PCAP, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	p, err := NewPCAP(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.closer = f
	return p, nil
}

// NewPCAP writes the pcap header to w.
func NewPCAP(w io.Writer) (*PCAP, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(SnapLen, LinkType); err != nil {
		return nil, fmt.Errorf("capture: write header: %w", err)
	}
	return &PCAP{w: pw}, nil
}

func (p *PCAP) WriteFrame(at time.Time, bits []bool) error {
	data := Pack(bits)
	if len(data) > SnapLen {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(data))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	ci := gopacket.CaptureInfo{
		Timestamp:     at,
		CaptureLength: len(data),
		Length:        len(data),
	}
	if err := p.w.WritePacket(ci, data); err != nil {
		return fmt.Errorf("capture: write frame: %w", err)
	}
	p.frames++
	return nil
}

// Frames is the number of frames written so far.
func (p *PCAP) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

func (p *PCAP) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
