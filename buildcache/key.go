package buildcache

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Key addresses a cache entry. It is a 32-byte BLAKE3 keyed hash.
type Key [32]byte

// Domains of the two conversion directions. Callers append an options
// fingerprint so that results produced with different options never
// share an entry.
const (
	DomainToXML = "to-xml"
	DomainToGFF = "to-gff"
)

// cacheDomainKey is the BLAKE3 key of every entry hash: the ASCII name of
// the cache zero padded to 32 bytes. Changing it invalidates every entry.
var cacheDomainKey = [32]byte{
	'a', 'n', 'p', 'h', 'i', 'l', 'l', 'i', 'a', '.', 'b', 'u', 'i', 'l', 'd', 'c',
	'a', 'c', 'h', 'e', '.', 'v', '1', 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// KeyOf returns the key of data within domain. The domain is length
// prefixed so no domain can be a prefix of another.
func KeyOf(domain string, data []byte) Key {
	hasher, err := blake3.NewKeyed(cacheDomainKey[:])
	if err != nil {
		panic("buildcache: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(domain)))
	hasher.Write(n[:])
	hasher.Write([]byte(domain))
	hasher.Write(data)
	var k Key
	copy(k[:], hasher.Sum(nil))
	return k
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}
