package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"sync"

	"golang.org/x/crypto/chacha20"
)

const (
	SourceChaCha20 = "chacha20"
	SourceSystem   = "system"
)

var ErrUnknownSource = errors.New("unknown random source")

// Source yields uniformly distributed integers in [0, n). n must be positive.
// *math/rand/v2.Rand satisfies Source, which keeps tests deterministic.
type Source interface {
	IntN(n int) int
}

// NewSource returns the named random source, safe for concurrent use.
func NewSource(name string) (Source, error) {
	switch name {
	case SourceChaCha20, "":
		src, err := NewSeededChaChaSource()
		if err != nil {
			return nil, err
		}
		return Locked(src), nil
	case SourceSystem:
		return NewSystemSource(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}

type systemSource struct{}

// NewSystemSource returns a Source reading directly from crypto/rand.
func NewSystemSource() Source {
	return systemSource{}
}

func (systemSource) IntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto: read system randomness: " + err.Error())
	}
	return int(v.Int64())
}

// chachaStream is a math/rand/v2 Source backed by a ChaCha20 keystream.
type chachaStream struct {
	cipher *chacha20.Cipher
	buf    [8]byte
}

func (s *chachaStream) Uint64() uint64 {
	clear(s.buf[:])
	s.cipher.XORKeyStream(s.buf[:], s.buf[:])
	return binary.LittleEndian.Uint64(s.buf[:])
}

// NewChaChaSource returns a generator driven by the ChaCha20 keystream for key.
// The same key always yields the same sequence. Not safe for concurrent use.
func NewChaChaSource(key [chacha20.KeySize]byte) *mrand.Rand {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		// key and nonce sizes are fixed by their types
		panic("crypto: " + err.Error())
	}
	return mrand.New(&chachaStream{cipher: c})
}

// NewSeededChaChaSource keys a ChaCha20 source from crypto/rand.
func NewSeededChaChaSource() (*mrand.Rand, error) {
	var key [chacha20.KeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return nil, fmt.Errorf("seed chacha20 source: %w", err)
	}
	return NewChaChaSource(key), nil
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

// Locked serializes access to src.
func Locked(src Source) Source {
	return &lockedSource{src: src}
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}
