// Package bundle stores the five descriptor streams of a module in a single
// file.
//
// Layout:
//
//	magic   "RTTB"
//	format  1 byte
//	flags   1 byte, bit 0 set when the payload is xz-compressed
//	digest  32 bytes, blake3 of the uncompressed payload
//	payload functions, types, type aliases, namespace aliases, usings;
//	        each a LEB128 length followed by the stream bytes
package bundle

import (
	"bytes"
	"encoding/hex"
	"io"
	"os"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/internal/binary"
	"github.com/wippyai/rtti-runtime/stream"
)

const (
	Magic  = "RTTB"
	Format = 1

	FlagXZ = 1 << 0

	headerSize = len(Magic) + 2 + DigestSize
)

// DigestSize is the length of a bundle fingerprint.
const DigestSize = 32

// Digest identifies a bundle's uncompressed payload.
type Digest [DigestSize]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Header is the fixed-size prefix of a bundle.
type Header struct {
	Format     byte
	Compressed bool
	Digest     Digest
}

type options struct {
	compress bool
}

// Option configures Write.
type Option func(*options)

// WithCompression selects xz compression of the payload.
func WithCompression(on bool) Option {
	return func(o *options) { o.compress = on }
}

func sections(s stream.Streams) [][]byte {
	return [][]byte{s.Functions, s.Types, s.TypeAliases, s.NamespaceAliases, s.Usings}
}

var sectionNames = [...]string{"functions", "types", "type aliases", "namespace aliases", "usings"}

func payload(s stream.Streams) []byte {
	w := binary.NewWriter()
	for _, sec := range sections(s) {
		w.WriteU32(uint32(len(sec)))
		w.WriteBytes(sec)
	}
	return w.Bytes()
}

// Fingerprint returns the digest a bundle of s carries, independent of
// compression.
func Fingerprint(s stream.Streams) Digest {
	return blake3.Sum256(payload(s))
}

// Encode serializes s into bundle bytes.
func Encode(s stream.Streams, opts ...Option) ([]byte, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	body := payload(s)
	digest := Digest(blake3.Sum256(body))

	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(Format)
	var flags byte
	if o.compress {
		flags |= FlagXZ
	}
	buf.WriteByte(flags)
	buf.Write(digest[:])

	if !o.compress {
		buf.Write(body)
		return buf.Bytes(), nil
	}
	zw, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, rtterrors.Wrap(rtterrors.PhaseBundle, rtterrors.KindInvalidData, err, "create xz writer")
	}
	if _, err := zw.Write(body); err != nil {
		return nil, rtterrors.Wrap(rtterrors.PhaseBundle, rtterrors.KindInvalidData, err, "compress payload")
	}
	if err := zw.Close(); err != nil {
		return nil, rtterrors.Wrap(rtterrors.PhaseBundle, rtterrors.KindInvalidData, err, "compress payload")
	}
	return buf.Bytes(), nil
}

// ReadHeader parses the fixed prefix of a bundle.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < headerSize {
		return h, rtterrors.InvalidData(rtterrors.PhaseBundle, nil, "truncated header")
	}
	if string(data[:len(Magic)]) != Magic {
		return h, rtterrors.InvalidData(rtterrors.PhaseBundle, nil, "bad magic")
	}
	h.Format = data[len(Magic)]
	if h.Format != Format {
		return h, rtterrors.New(rtterrors.PhaseBundle, rtterrors.KindInvalidData).
			Value(h.Format).
			Detail("unsupported format %d", h.Format).
			Build()
	}
	flags := data[len(Magic)+1]
	if flags&^FlagXZ != 0 {
		return h, rtterrors.New(rtterrors.PhaseBundle, rtterrors.KindInvalidData).
			Value(flags).
			Detail("unknown flags %#x", flags).
			Build()
	}
	h.Compressed = flags&FlagXZ != 0
	copy(h.Digest[:], data[len(Magic)+2:headerSize])
	return h, nil
}

// Decode parses bundle bytes and verifies the payload digest.
func Decode(data []byte) (stream.Streams, Header, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return stream.Streams{}, h, err
	}

	body := data[headerSize:]
	if h.Compressed {
		zr, err := xz.NewReader(bytes.NewReader(body))
		if err != nil {
			return stream.Streams{}, h, rtterrors.Wrap(rtterrors.PhaseBundle, rtterrors.KindInvalidData, err, "open xz payload")
		}
		if body, err = io.ReadAll(zr); err != nil {
			return stream.Streams{}, h, rtterrors.Wrap(rtterrors.PhaseBundle, rtterrors.KindInvalidData, err, "decompress payload")
		}
	}

	if got := Digest(blake3.Sum256(body)); got != h.Digest {
		return stream.Streams{}, h, rtterrors.New(rtterrors.PhaseBundle, rtterrors.KindInvalidData).
			Detail("digest mismatch: header %s, payload %s", h.Digest, got).
			Build()
	}

	r := binary.NewReader(body)
	var out [len(sectionNames)][]byte
	for i, name := range sectionNames {
		n, err := r.ReadCount()
		if err != nil {
			return stream.Streams{}, h, rtterrors.Wrap(rtterrors.PhaseBundle, rtterrors.KindInvalidData, r.WrapError(name, err), name+" section")
		}
		sec, err := r.ReadBytes(n)
		if err != nil {
			return stream.Streams{}, h, rtterrors.Wrap(rtterrors.PhaseBundle, rtterrors.KindInvalidData, r.WrapError(name, err), name+" section")
		}
		out[i] = sec
	}
	if r.Len() != 0 {
		return stream.Streams{}, h, rtterrors.InvalidData(rtterrors.PhaseBundle, nil, "trailing bytes after usings section")
	}

	return stream.Streams{
		Functions:        out[0],
		Types:            out[1],
		TypeAliases:      out[2],
		NamespaceAliases: out[3],
		Usings:           out[4],
	}, h, nil
}

// Write encodes s to w.
func Write(w io.Writer, s stream.Streams, opts ...Option) error {
	data, err := Encode(s, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read decodes a whole bundle from r.
func Read(r io.Reader) (stream.Streams, Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return stream.Streams{}, Header{}, err
	}
	return Decode(data)
}

// WriteFile writes a bundle of s to path.
func WriteFile(path string, s stream.Streams, opts ...Option) error {
	data, err := Encode(s, opts...)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads and verifies the bundle at path.
func ReadFile(path string) (stream.Streams, Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return stream.Streams{}, Header{}, err
	}
	return Decode(data)
}
