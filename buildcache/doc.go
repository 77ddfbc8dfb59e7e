// Package buildcache is a content addressed store of conversion results.
//
// Entries are keyed by a BLAKE3 keyed hash of the source bytes within a
// domain that names the conversion direction and its options, so a source
// file that has not changed since the last run is served from the cache
// instead of being converted again.
//
// # Entry Format
//
// Each entry lives in <dir>/<hh>/<hash>.gxc, where hh is the first byte of
// the hash in hex. An entry is a 16-byte header followed by the payload:
//   - Magic "GXC1"
//   - Compression id (uint8)
//   - Flags (uint8, reserved, zero)
//   - Reserved (uint16, zero)
//   - Uncompressed length (uint64, little endian)
//
// Payloads may be stored uncompressed or compressed with ZIP, Zstandard,
// LZ4 or Brotli. Reads are bounded by the configured maximum entry size.
//
// Entries are written through a temporary file and renamed into place, so
// a Cache may be shared by concurrent writers.
package buildcache
