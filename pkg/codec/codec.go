// Package codec frames insulator buffers as length-prefixed raw bytes for
// storage and transport.
//
// The frame format is deliberately minimal:
//
//	[1 flag byte][uvarint payload length][payload]
//
// The payload is the buffer's raw content, original case intact. Frames at
// or above a configurable threshold are S2-compressed (flag bit 0), in
// which case the uvarint counts compressed bytes. Versioning beyond the
// flag byte is left to the caller.
package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/valyala/bytebufferpool"

	"github.com/watt-toolkit/insulator/pkg/insulator"
)

// Frame flag bits.
const (
	flagCompressed = 1 << 0

	flagKnown = flagCompressed
)

// DefaultMaxPayload caps the declared payload length a decoder will
// allocate for. Guards against corrupt or hostile length prefixes.
const DefaultMaxPayload = 64 << 20

// Sentinel errors for frame encoding and decoding.
var (
	// ErrCorruptFrame indicates a frame that cannot be decoded: unknown
	// flags, a truncated payload, or an undecompressible body.
	ErrCorruptFrame = errors.New("corrupt frame")

	// ErrFrameTooLarge indicates a declared payload length above the
	// decoder's limit. The frame is not decoded.
	ErrFrameTooLarge = errors.New("frame exceeds payload limit")
)

// Options configures frame encoding.
type Options struct {
	// CompressMin is the content length in bytes at or above which the
	// payload is S2-compressed. 0 disables compression. Compression is
	// skipped when it would not shrink the payload.
	CompressMin int
}

// AppendFrame appends a frame holding b's content to dst and returns the
// extended slice.
func AppendFrame(dst []byte, b *insulator.Buf, opts Options) []byte {
	content := b.Bytes()

	if opts.CompressMin > 0 && len(content) >= opts.CompressMin {
		bb := bytebufferpool.Get()
		defer bytebufferpool.Put(bb)

		bb.B = s2.Encode(bb.B[:0], content)
		if len(bb.B) < len(content) {
			dst = append(dst, flagCompressed)
			dst = binary.AppendUvarint(dst, uint64(len(bb.B)))
			return append(dst, bb.B...)
		}
	}

	dst = append(dst, 0)
	dst = binary.AppendUvarint(dst, uint64(len(content)))
	return append(dst, content...)
}

// DecodeFrame decodes one frame from the front of src, returning the
// reconstructed buffer and the number of bytes consumed. The declared
// length is validated against DefaultMaxPayload and the available bytes
// before any content is trusted.
func DecodeFrame(src []byte) (insulator.Buf, int, error) {
	var zero insulator.Buf

	if len(src) < 2 {
		return zero, 0, fmt.Errorf("frame of %d bytes: %w", len(src), ErrCorruptFrame)
	}

	flags := src[0]
	if flags&^byte(flagKnown) != 0 {
		return zero, 0, fmt.Errorf("unknown frame flags %#02x: %w", flags, ErrCorruptFrame)
	}

	n, varlen := binary.Uvarint(src[1:])
	if varlen <= 0 {
		return zero, 0, fmt.Errorf("bad length prefix: %w", ErrCorruptFrame)
	}
	if n > DefaultMaxPayload {
		return zero, 0, fmt.Errorf("declared payload of %d bytes: %w", n, ErrFrameTooLarge)
	}

	header := 1 + varlen
	if uint64(len(src)-header) < n {
		return zero, 0, fmt.Errorf("truncated payload: %w", ErrCorruptFrame)
	}
	payload := src[header : header+int(n)]

	if flags&flagCompressed != 0 {
		decoded, err := s2.Decode(nil, payload)
		if err != nil {
			return zero, 0, fmt.Errorf("decompress payload: %w", ErrCorruptFrame)
		}
		return insulator.New(decoded), header + int(n), nil
	}

	return insulator.New(payload), header + int(n), nil
}

// Encoder writes frames to an underlying io.Writer.
type Encoder struct {
	w    io.Writer
	opts Options
	buf  []byte
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(w io.Writer, opts Options) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes one frame holding b's content.
func (e *Encoder) Encode(b *insulator.Buf) error {
	e.buf = AppendFrame(e.buf[:0], b, e.opts)
	if _, err := e.w.Write(e.buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Decoder reads frames from an underlying io.Reader.
type Decoder struct {
	r          *bufio.Reader
	maxPayload uint64
	buf        []byte
}

// NewDecoder creates a Decoder reading from r with the default payload
// limit.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r), maxPayload: DefaultMaxPayload}
}

// SetMaxPayload overrides the decoder's payload limit.
func (d *Decoder) SetMaxPayload(n int) {
	d.maxPayload = uint64(n)
}

// Decode reads and reconstructs the next frame. It returns io.EOF when the
// stream is cleanly exhausted.
func (d *Decoder) Decode() (insulator.Buf, error) {
	var zero insulator.Buf

	flags, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return zero, io.EOF
		}
		return zero, fmt.Errorf("read frame flags: %w", err)
	}
	if flags&^byte(flagKnown) != 0 {
		return zero, fmt.Errorf("unknown frame flags %#02x: %w", flags, ErrCorruptFrame)
	}

	n, err := binary.ReadUvarint(d.r)
	if err != nil {
		return zero, fmt.Errorf("read length prefix: %w", ErrCorruptFrame)
	}
	if n > d.maxPayload {
		return zero, fmt.Errorf("declared payload of %d bytes: %w", n, ErrFrameTooLarge)
	}

	if uint64(cap(d.buf)) < n {
		d.buf = make([]byte, n)
	}
	d.buf = d.buf[:n]
	if _, err := io.ReadFull(d.r, d.buf); err != nil {
		return zero, fmt.Errorf("truncated payload: %w", ErrCorruptFrame)
	}

	if flags&flagCompressed != 0 {
		decoded, err := s2.Decode(nil, d.buf)
		if err != nil {
			return zero, fmt.Errorf("decompress payload: %w", ErrCorruptFrame)
		}
		return insulator.New(decoded), nil
	}

	return insulator.New(d.buf), nil
}
