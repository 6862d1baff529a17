// Package compress frames index artifacts with optional block compression.
//
// Format: [UncompressedSize uint32][CompressedSize uint32][Data...], little
// endian. CompressedSize == 0 marks a block stored uncompressed, which is the
// fallback when compression does not pay for itself. Type None skips framing
// entirely so raw artifacts stay mmap-readable.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used for an artifact.
type Type uint8

const (
	// None stores the artifact raw, without framing.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast, good for hot artifacts).
	LZ4 Type = 1
	// Zstd uses zstd block compression (better ratio, good for cold artifacts).
	Zstd Type = 2
)

// String returns the stable name recorded in manifests.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// TypeByName resolves a manifest compression name.
func TypeByName(name string) (Type, bool) {
	switch name {
	case "none", "":
		return None, true
	case "lz4":
		return LZ4, true
	case "zstd":
		return Zstd, true
	default:
		return None, false
	}
}

const headerSize = 8

// Zstd encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Compress frames data for the given type. None and empty input pass through
// unchanged.
func Compress(data []byte, typ Type) ([]byte, error) {
	if typ == None || len(data) == 0 {
		return data, nil
	}

	if len(data) > math.MaxUint32 {
		return nil, errors.New("block exceeds uint32 size limit")
	}

	var (
		compressed []byte
		err        error
	)

	switch typ {
	case LZ4:
		compressed, err = compressLZ4(data)
	case Zstd:
		compressed, err = compressZstd(data)
	default:
		return nil, fmt.Errorf("unsupported compression type %d", uint8(typ))
	}

	if err != nil {
		return nil, err
	}

	// If compression doesn't help (ratio > 0.9), store uncompressed.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0) // 0 = uncompressed
		copy(result[headerSize:], data)
		return result, nil
	}

	result := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[headerSize:], compressed)
	return result, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, nil // Incompressible
	}

	return compressed[:n], nil
}

func compressZstd(data []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil), nil
}

// Decompress reverses Compress for the given type. None and empty input pass
// through unchanged.
func Decompress(data []byte, typ Type) ([]byte, error) {
	if typ == None || len(data) == 0 {
		return data, nil
	}

	if len(data) < headerSize {
		return nil, errors.New("block too small for header")
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		if uint64(len(data)) < headerSize+uint64(uncompressedSize) {
			return nil, errors.New("block data too small")
		}
		return data[headerSize : headerSize+uncompressedSize], nil
	}

	if uint64(len(data)) < headerSize+uint64(compressedSize) {
		return nil, errors.New("compressed block data too small")
	}

	compressedData := data[headerSize : headerSize+compressedSize]
	result := make([]byte, uncompressedSize)

	switch typ {
	case LZ4:
		n, err := lz4.UncompressBlock(compressedData, result)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return result, nil

	case Zstd:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(compressedData, result[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("unsupported compression type %d", uint8(typ))
	}
}
