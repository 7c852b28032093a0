// Package snapshot serializes fitted model state to a blob store.
//
// Snapshots are self-describing: a small header records the codec name and
// compression scheme, so a reader needs no out-of-band configuration. The
// payload is the codec-encoded State, optionally block-compressed.
package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/grassgo/blobstore"
	"github.com/hupe1980/grassgo/codec"
)

// Compression identifies the block compression applied to the payload.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = iota
	// CompressionLZ4 applies LZ4 block compression (fast, modest ratio).
	CompressionLZ4
	// CompressionZSTD applies Zstandard compression (slower, better ratio).
	CompressionZSTD
)

// magic identifies snapshot blobs.
var magic = [4]byte{'G', 'R', 'S', 'S'}

const formatVersion = 1

var (
	// ErrBadMagic is returned when a blob is not a snapshot.
	ErrBadMagic = errors.New("snapshot: bad magic")
	// ErrUnsupportedVersion is returned for snapshots written by a newer
	// format revision.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported format version")
)

// Matrix is a row-major dense matrix in serializable form.
type Matrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// State is the complete serializable state of a fitted model. It carries
// everything needed to rebuild predictions except the interpolation
// strategy itself, which is supplied again at restore time.
type State struct {
	CoordDim    int  `json:"coord_dim"`
	Rows        int  `json:"rows"`
	Cols        int  `json:"cols"`
	Rank        int  `json:"rank"`
	ElementWise bool `json:"element_wise"`

	Coords  [][]float64 `json:"coords"`
	AnchorU Matrix      `json:"anchor_u"`
	AnchorV Matrix      `json:"anchor_v"`

	TangentsU []Matrix    `json:"tangents_u"`
	TangentsV []Matrix    `json:"tangents_v"`
	Sigmas    [][]float64 `json:"sigmas"`

	ConvergedU bool `json:"converged_u"`
	ConvergedV bool `json:"converged_v"`
}

// Options configures Save.
type Options struct {
	// Codec encodes the state payload. Defaults to codec.Default.
	Codec codec.Codec
	// Compression selects the payload compression. Defaults to
	// CompressionNone.
	Compression Compression
}

// Save encodes the state and writes it to the store under name.
func Save(ctx context.Context, store blobstore.BlobStore, name string, state *State, optFns ...func(o *Options)) error {
	opts := Options{
		Codec:       codec.Default,
		Compression: CompressionNone,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	payload, err := opts.Codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshot: encode state: %w", err)
	}

	compression := opts.Compression
	compressed, err := compress(payload, compression)
	if err != nil {
		return err
	}
	if compressed == nil {
		// Incompressible payload, store raw.
		compression = CompressionNone
		compressed = payload
	}

	codecName := opts.Codec.Name()
	buf := make([]byte, 0, 4+1+1+len(codecName)+1+4+len(compressed))
	buf = append(buf, magic[:]...)
	buf = append(buf, formatVersion)
	buf = append(buf, byte(len(codecName)))
	buf = append(buf, codecName...)
	buf = append(buf, byte(compression))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, compressed...)

	return store.Put(ctx, name, buf)
}

// Load reads a snapshot from the store and decodes its state.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*State, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	raw, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read blob: %w", err)
	}

	if len(raw) < 6 || [4]byte(raw[:4]) != magic {
		return nil, ErrBadMagic
	}
	if raw[4] != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, raw[4])
	}

	nameLen := int(raw[5])
	rest := raw[6:]
	if len(rest) < nameLen+5 {
		return nil, errors.New("snapshot: truncated header")
	}
	codecName := string(rest[:nameLen])
	rest = rest[nameLen:]

	compression := Compression(rest[0])
	payloadLen := binary.LittleEndian.Uint32(rest[1:5])
	body := rest[5:]

	payload, err := decompress(body, compression, int(payloadLen))
	if err != nil {
		return nil, err
	}
	if len(payload) != int(payloadLen) {
		return nil, fmt.Errorf("snapshot: payload size mismatch: got %d, want %d", len(payload), payloadLen)
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown codec %q", codecName)
	}

	var state State
	if err := c.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("snapshot: decode state: %w", err)
	}
	return &state, nil
}

// compress applies the selected block compression. A nil result with nil
// error signals an incompressible payload.
func compress(payload []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return payload, nil

	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: lz4 compress: %w", err)
		}
		if n == 0 || n >= len(payload) {
			return nil, nil
		}
		return dst[:n], nil

	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd encoder: %w", err)
		}
		defer enc.Close()
		dst := enc.EncodeAll(payload, make([]byte, 0, len(payload)))
		if len(dst) >= len(payload) {
			return nil, nil
		}
		return dst, nil

	default:
		return nil, fmt.Errorf("snapshot: unknown compression %d", compression)
	}
}

func decompress(body []byte, compression Compression, payloadLen int) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return body, nil

	case CompressionLZ4:
		dst := make([]byte, payloadLen)
		n, err := lz4.UncompressBlock(body, dst)
		if err != nil {
			return nil, fmt.Errorf("snapshot: lz4 decompress: %w", err)
		}
		return dst[:n], nil

	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd decoder: %w", err)
		}
		defer dec.Close()
		dst, err := dec.DecodeAll(body, make([]byte, 0, payloadLen))
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd decompress: %w", err)
		}
		return dst, nil

	default:
		return nil, fmt.Errorf("snapshot: unknown compression %d", compression)
	}
}
