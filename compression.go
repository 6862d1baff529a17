package lexgo

import (
	"fmt"

	"github.com/hupe1980/lexgo/internal/compress"
)

// Compression selects the block compression applied to persisted index
// artifacts. The setting is recorded per blob in the manifest, so an index
// saved with one setting can always be loaded regardless of how the loading
// side is configured.
type Compression uint8

const (
	// CompressionNone stores artifacts uncompressed (default).
	CompressionNone Compression = iota

	// CompressionLZ4 trades a little ratio for very fast decompression.
	CompressionLZ4

	// CompressionZstd gives the best ratio at a moderate CPU cost.
	CompressionZstd
)

// String returns the manifest name of the compression setting.
func (c Compression) String() string {
	return compress.Type(c).String()
}

// blockType maps the public setting onto the internal block codec.
func (c Compression) blockType() (compress.Type, error) {
	switch c {
	case CompressionNone, CompressionLZ4, CompressionZstd:
		return compress.Type(c), nil
	default:
		return 0, fmt.Errorf("lexgo: unknown compression %d", c)
	}
}
