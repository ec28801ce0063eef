package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/sparsekit/internal/hash"
	"github.com/hupe1980/sparsekit/sparsemap"
	"github.com/hupe1980/sparsekit/vector"
)

// Snapshot wire format:
//
//	magic    [4]byte "SKS1"
//	kind     byte (1 = vector, 2 = map)
//	compress byte (CompressionType)
//	codec    uvarint-prefixed name
//	count    uvarint element (or pair) count
//	payload  uvarint-prefixed block, compressed per compress
//	crc      uint32 LE, CRC32C of the payload block as written
//
// The uncompressed payload is a sequence of uvarint-prefixed element
// encodings; map payloads alternate key and value per pair.
var magic = [4]byte{'S', 'K', 'S', '1'}

const (
	kindVector byte = 1
	kindMap    byte = 2
)

var (
	// ErrBadSnapshot is returned when the stream is not a sparsekit
	// snapshot or holds a container of a different kind.
	ErrBadSnapshot = errors.New("bad snapshot")

	// ErrChecksum is returned when the payload fails CRC verification.
	ErrChecksum = errors.New("snapshot checksum mismatch")

	// ErrUnknownCodec is returned when the codec named in the header is not
	// built in and no matching codec was configured.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Options configures snapshot encoding and decoding.
type Options struct {
	// Codec encodes/decodes elements. Defaults to Default. On decode a
	// configured codec is used when its name matches the header.
	Codec Codec

	// Compression selects the payload compression mode for encoding.
	Compression CompressionType
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := Options{Codec: Default}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = Default
	}
	return opts
}

// EncodeVector writes a snapshot of v to w.
func EncodeVector[T any](w io.Writer, v *vector.Vector[T], optFns ...func(o *Options)) error {
	if v == nil {
		return fmt.Errorf("%w: nil vector", ErrBadSnapshot)
	}
	opts := applyOptions(optFns)

	var payload []byte
	var encodeErr error
	v.Each(func(pos int, val T) {
		if encodeErr != nil {
			return
		}
		b, err := opts.Codec.Marshal(val)
		if err != nil {
			encodeErr = err
			return
		}
		payload = appendBlob(payload, b)
	})
	if encodeErr != nil {
		return encodeErr
	}

	return writeSnapshot(w, kindVector, uint64(v.Len()), payload, opts)
}

// DecodeVectorInto reads a vector snapshot from r and appends every element
// onto v via PushBack, so v's lifecycle policy applies to the decoded
// values.
func DecodeVectorInto[T any](r io.Reader, v *vector.Vector[T], optFns ...func(o *Options)) error {
	if v == nil {
		return fmt.Errorf("%w: nil vector", ErrBadSnapshot)
	}
	opts := applyOptions(optFns)

	c, count, payload, err := readSnapshot(r, kindVector, opts)
	if err != nil {
		return err
	}

	for i := uint64(0); i < count; i++ {
		var blob []byte
		blob, payload, err = nextBlob(payload)
		if err != nil {
			return err
		}
		var val T
		if err := c.Unmarshal(blob, &val); err != nil {
			return err
		}
		if err := v.PushBack(val); err != nil {
			return err
		}
	}
	return nil
}

// DecodeVector reads a vector snapshot from r into a freshly created vector
// with default options.
func DecodeVector[T any](r io.Reader, optFns ...func(o *Options)) (*vector.Vector[T], error) {
	v, err := vector.New[T]()
	if err != nil {
		return nil, err
	}
	if err := DecodeVectorInto(r, v, optFns...); err != nil {
		v.Destroy()
		return nil, err
	}
	return v, nil
}

// EncodeMap writes a snapshot of m to w. Pairs are written in bucket order.
func EncodeMap[K, V any](w io.Writer, m *sparsemap.SparseMap[K, V], optFns ...func(o *Options)) error {
	if m == nil {
		return fmt.Errorf("%w: nil map", ErrBadSnapshot)
	}
	opts := applyOptions(optFns)

	var payload []byte
	var encodeErr error
	m.Each(func(item *sparsemap.Item[K, V]) bool {
		kb, err := opts.Codec.Marshal(item.Key)
		if err != nil {
			encodeErr = err
			return false
		}
		vb, err := opts.Codec.Marshal(item.Data)
		if err != nil {
			encodeErr = err
			return false
		}
		payload = appendBlob(payload, kb)
		payload = appendBlob(payload, vb)
		return true
	})
	if encodeErr != nil {
		return encodeErr
	}

	return writeSnapshot(w, kindMap, uint64(m.Len()), payload, opts)
}

// DecodeMapInto reads a map snapshot from r and inserts every pair into m,
// so m's lifecycle policies and multimap mode apply to the decoded pairs.
func DecodeMapInto[K, V any](r io.Reader, m *sparsemap.SparseMap[K, V], optFns ...func(o *Options)) error {
	if m == nil {
		return fmt.Errorf("%w: nil map", ErrBadSnapshot)
	}
	opts := applyOptions(optFns)

	c, count, payload, err := readSnapshot(r, kindMap, opts)
	if err != nil {
		return err
	}

	for i := uint64(0); i < count; i++ {
		var kb, vb []byte
		kb, payload, err = nextBlob(payload)
		if err != nil {
			return err
		}
		vb, payload, err = nextBlob(payload)
		if err != nil {
			return err
		}

		var key K
		var val V
		if err := c.Unmarshal(kb, &key); err != nil {
			return err
		}
		if err := c.Unmarshal(vb, &val); err != nil {
			return err
		}
		if _, err := m.Insert(key, val); err != nil {
			return err
		}
	}
	return nil
}

func appendBlob(dst, blob []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(blob)))
	return append(dst, blob...)
}

func nextBlob(payload []byte) ([]byte, []byte, error) {
	size, n := binary.Uvarint(payload)
	if n <= 0 || uint64(len(payload[n:])) < size {
		return nil, nil, fmt.Errorf("%w: truncated payload", ErrBadSnapshot)
	}
	return payload[n : n+int(size)], payload[n+int(size):], nil
}

func writeSnapshot(w io.Writer, kind byte, count uint64, payload []byte, opts Options) error {
	block, err := compressBlock(payload, opts.Compression)
	if err != nil {
		return err
	}

	var buf []byte
	buf = append(buf, magic[:]...)
	buf = append(buf, kind, byte(opts.Compression))
	buf = appendBlob(buf, []byte(opts.Codec.Name()))
	buf = binary.AppendUvarint(buf, count)
	buf = appendBlob(buf, block)
	buf = binary.LittleEndian.AppendUint32(buf, hash.CRC32C(block))

	_, err = w.Write(buf)
	return err
}

func readSnapshot(r io.Reader, wantKind byte, opts Options) (Codec, uint64, []byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, nil, err
	}
	if len(raw) < len(magic)+2 || [4]byte(raw[:4]) != magic {
		return nil, 0, nil, fmt.Errorf("%w: bad magic", ErrBadSnapshot)
	}
	kind, compression := raw[4], CompressionType(raw[5])
	if kind != wantKind {
		return nil, 0, nil, fmt.Errorf("%w: wrong container kind %d", ErrBadSnapshot, kind)
	}
	rest := raw[6:]

	name, rest, err := nextBlob(rest)
	if err != nil {
		return nil, 0, nil, err
	}
	c := opts.Codec
	if c == nil || c.Name() != string(name) {
		var ok bool
		if c, ok = ByName(string(name)); !ok {
			return nil, 0, nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
		}
	}

	count, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, 0, nil, fmt.Errorf("%w: truncated header", ErrBadSnapshot)
	}
	rest = rest[n:]

	block, rest, err := nextBlob(rest)
	if err != nil {
		return nil, 0, nil, err
	}
	if len(rest) < 4 {
		return nil, 0, nil, fmt.Errorf("%w: missing checksum", ErrBadSnapshot)
	}
	if binary.LittleEndian.Uint32(rest) != hash.CRC32C(block) {
		return nil, 0, nil, ErrChecksum
	}

	payload, err := decompressBlock(block, compression)
	if err != nil {
		return nil, 0, nil, err
	}
	return c, count, payload, nil
}
