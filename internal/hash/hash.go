// Package hash holds the checksum used to verify persisted index artifacts.
//
// Checksums are CRC32-Castagnoli (CRC32C), the polynomial used by iSCSI,
// RocksDB, and LevelDB. Go's crc32 package dispatches to the SSE4.2 or ARM
// CRC instructions when the hardware has them, so verification stays cheap
// even for large artifacts.
//
// The checksum always covers the stored bytes, after compression, so a blob
// can be verified without decompressing it first.
package hash

import "hash/crc32"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}
