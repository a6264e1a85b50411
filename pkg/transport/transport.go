// Package transport reads one complete PPTP/UPTB/UPTB_NOSTX frame at a time
// off an io.Reader, byte by byte, and writes pre-built frames to an
// io.Writer. It knows nothing about record layout or command semantics;
// it only tracks enough of the DLE-stuffing and length-prefix rules to
// find frame boundaries in a live byte stream, the way the reference link
// layer's state machine does.
package transport

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aesysnet/mepcodec/pkg/frame"
	"github.com/aesysnet/mepcodec/pkg/octet"
	"github.com/aesysnet/mepcodec/pkg/proto"
	"github.com/tarm/serial"
)

const headerSize = 7 // address(2) | payloadLen(2) | tranId(2) | cmd(1), UPTB body

// phase tracks which part of the unstuffed body the reader is accumulating.
type phase int

const (
	phaseHeader phase = iota
	phasePayload
	phaseCRC
)

// Transport delivers whole frames from a byte stream and writes whole
// frames back out. It is safe to use from a single goroutine at a time.
type Transport struct {
	r    io.Reader
	w    io.Writer
	kind proto.FrameKind
	c    io.Closer
}

// Open dials devicePath as a serial line (8N1 at baud) the way the
// teacher's usock.New does, and wraps it for kind framing.
func Open(devicePath string, baud int, kind proto.FrameKind) (*Transport, error) {
	cfg := &serial.Config{
		Name:        devicePath,
		Baud:        baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: 0,
	}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("transport: failed to open serial port: %w", err)
	}
	return New(port, port, kind, port), nil
}

// New wraps an already-open reader/writer pair (a serial.Port, a net.Conn,
// or anything else) for kind framing. closer may be nil.
func New(r io.Reader, w io.Writer, kind proto.FrameKind, closer io.Closer) *Transport {
	return &Transport{r: r, w: w, kind: kind, c: closer}
}

// Close releases the underlying connection, if one was supplied.
func (t *Transport) Close() error {
	if t.c == nil {
		return nil
	}
	return t.c.Close()
}

// WriteFrame writes a complete, already-framed buffer (as produced by
// pkg/frame.Build) to the wire.
func (t *Transport) WriteFrame(raw []byte) error {
	_, err := t.w.Write(raw)
	if err != nil {
		return fmt.Errorf("transport: write failed: %w", err)
	}
	return nil
}

// ReadFrame blocks until one complete frame of t.kind has been read off the
// wire, then hands the raw bytes to pkg/frame for validation and decode.
// Bytes are consumed one at a time. For UPTB, bytes before the STX are
// logged and skipped. For PPTP, a 5-byte header whose declared payload
// length exceeds the ceiling is logged and discarded and the next five
// bytes are read as a header; other garbage before a PPTP frame is not
// detected. UPTB_NOSTX has no resynchronization.
func (t *Transport) ReadFrame() (cmd proto.Command, payload []byte, tranId proto.TransactionId, err error) {
	raw, err := t.readRawFrame()
	if err != nil {
		return 0, nil, 0, err
	}

	switch t.kind {
	case proto.PPTP:
		f, err := frame.ParsePPTP(raw)
		if err != nil {
			return 0, nil, 0, err
		}
		return f.Cmd, f.Payload, f.TranId, nil
	case proto.UPTB:
		f, err := frame.ParseUPTB(raw)
		if err != nil {
			return 0, nil, 0, err
		}
		return f.Cmd, f.Payload, f.TranId, nil
	default:
		f, err := frame.ParseUPTBNoSTX(raw)
		if err != nil {
			return 0, nil, 0, err
		}
		return f.Cmd, f.Payload, f.TranId, nil
	}
}

func (t *Transport) readByte() (byte, error) {
	buf := make([]byte, 1)
	for {
		n, err := t.r.Read(buf)
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return buf[0], nil
		}
		time.Sleep(time.Millisecond)
	}
}

// readRawFrame accumulates the smallest byte run that pkg/frame can parse
// as one frame of t.kind: for PPTP that's the fixed 5-byte header plus the
// declared payload length; for UPTB/UPTB_NOSTX it's the STX (if present),
// the DLE-stuffed header/payload/CRC body, and the trailing ETX (if
// present). Only the 7-byte header is unstuffed here, to learn the payload
// length; the rest of the body is counted, not unstuffed — full unstuffing
// and CRC verification stay pkg/frame's and pkg/escape's job.
func (t *Transport) readRawFrame() ([]byte, error) {
	if t.kind == proto.PPTP {
		return t.readPPTPFrame()
	}
	return t.readUPTBFrame()
}

func (t *Transport) readPPTPFrame() ([]byte, error) {
	header := make([]byte, 5)
	for i := range header {
		b, err := t.readByte()
		if err != nil {
			return nil, err
		}
		header[i] = b
	}

	payloadLen, _ := octet.GetUint16BE(header, 0)
	if int(payloadLen) > proto.MaxPayloadLen {
		log.Printf("transport: rejecting oversized pptp payload length %d, resyncing", payloadLen)
		return t.readPPTPFrame()
	}

	raw := append([]byte(nil), header...)
	for i := uint16(0); i < payloadLen; i++ {
		b, err := t.readByte()
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return raw, nil
}

func (t *Transport) readUPTBFrame() ([]byte, error) {
	var raw []byte

	if t.kind == proto.UPTB {
		for {
			b, err := t.readByte()
			if err != nil {
				return nil, err
			}
			if b == proto.STX {
				break
			}
			log.Printf("transport: discarding byte 0x%02x before uptb sync", b)
		}
		raw = append(raw, proto.STX)
	}

	// Consume the stuffed header to learn the payload length, then the
	// stuffed payload, then the stuffed 2-byte CRC. pendingDLE marks that
	// the previous raw byte introduced an escape pair, so the byte in
	// hand completes it rather than terminating the frame.
	var headerStuffed []byte
	pendingDLE := false
	unstuffed := 0
	for unstuffed < headerSize {
		b, err := t.readByte()
		if err != nil {
			return nil, err
		}
		headerStuffed = append(headerStuffed, b)
		if pendingDLE {
			pendingDLE = false
			unstuffed++
		} else if b == proto.DLE {
			pendingDLE = true
		} else {
			unstuffed++
		}
	}
	raw = append(raw, headerStuffed...)

	header, _, err := unstuffFixed(headerStuffed, headerSize)
	if err != nil {
		return nil, err
	}
	payloadLen, _ := octet.GetUint16BE(header, 2)
	if int(payloadLen) > proto.MaxPayloadLen {
		return nil, fmt.Errorf("transport: uptb payload length %d exceeds ceiling: %w", payloadLen, proto.ErrBadFrame)
	}

	remaining := int(payloadLen) + 2 // payload + crc
	unstuffed = 0
	pendingDLE = false
	for unstuffed < remaining {
		b, err := t.readByte()
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
		if pendingDLE {
			pendingDLE = false
			unstuffed++
		} else if b == proto.DLE {
			pendingDLE = true
		} else {
			unstuffed++
		}
	}

	if t.kind == proto.UPTB {
		b, err := t.readByte()
		if err != nil {
			return nil, err
		}
		if b != proto.ETX {
			return nil, fmt.Errorf("transport: expected trailing etx, got 0x%02x: %w", b, proto.ErrMalformedSequence)
		}
		raw = append(raw, proto.ETX)
	}

	return raw, nil
}

// unstuffFixed is a minimal local unstuffer that readUPTBFrame uses to learn
// the header's length field. It does not check that an escaped byte is one
// of the three stuffed values; pkg/frame's parse does.
func unstuffFixed(stuffed []byte, n int) ([]byte, int, error) {
	out := make([]byte, 0, n)
	i := 0
	for len(out) < n && i < len(stuffed) {
		b := stuffed[i]
		if b == proto.DLE {
			if i+1 >= len(stuffed) {
				return nil, 0, fmt.Errorf("transport: truncated escape in header: %w", proto.ErrMalformedSequence)
			}
			out = append(out, stuffed[i+1]-proto.EscapeIncrement)
			i += 2
		} else {
			out = append(out, b)
			i++
		}
	}
	if len(out) != n {
		return nil, 0, fmt.Errorf("transport: short header: %w", proto.ErrMalformedSequence)
	}
	return out, i, nil
}
