// Package digest computes fixed 160-bit content digests.
//
// The hash construction is an injected capability: callers hold a
// Digester and never link against a particular implementation. SHA1 is
// the default construction; BLAKE2b is available for callers that want a
// modern one with the same output size.
package digest

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/crypto/blake2b"
)

// Size is the digest length in bytes.
const Size = 20

// Digest is a 160-bit digest value.
type Digest [Size]byte

// String returns the digest in lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Digester computes digests over byte buffers.
//
// Sum is a one-shot computation: each call owns its own hashing state,
// so a Digester is safe for concurrent use. New exposes the underlying
// init/update/finalize state for callers that need to feed data
// incrementally.
type Digester interface {
	// Sum returns the digest of data.
	Sum(data []byte) Digest

	// New returns a fresh streaming hash whose final sum is Size bytes.
	New() hash.Hash
}

type sha1Digester struct{}

// SHA1 returns the default Digester, backed by the SHA-1 construction.
func SHA1() Digester { return sha1Digester{} }

func (sha1Digester) Sum(data []byte) Digest {
	return Digest(sha1.Sum(data))
}

func (sha1Digester) New() hash.Hash { return sha1.New() }

type blake2bDigester struct{}

// BLAKE2b returns a Digester backed by unkeyed BLAKE2b-160.
func BLAKE2b() Digester { return blake2bDigester{} }

func (blake2bDigester) Sum(data []byte) Digest {
	var d Digest
	h, _ := blake2b.New(Size, nil) // only fails for oversized keys
	h.Write(data)
	copy(d[:], h.Sum(nil))
	return d
}

func (blake2bDigester) New() hash.Hash {
	h, _ := blake2b.New(Size, nil)
	return h
}

// copyBufferSize is the scratch size used when digesting readers.
const copyBufferSize = 32 * 1024

var copyBuffers bytebufferpool.Pool

// SumReader digests everything remaining in r using d.
func SumReader(d Digester, r io.Reader) (Digest, error) {
	h := d.New()
	buf := copyBuffers.Get()
	if cap(buf.B) < copyBufferSize {
		buf.B = make([]byte, copyBufferSize)
	}
	_, err := io.CopyBuffer(h, r, buf.B[:copyBufferSize])
	copyBuffers.Put(buf)
	if err != nil {
		return Digest{}, err
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out, nil
}
