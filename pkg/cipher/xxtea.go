package cipher

import "encoding/binary"

// BlockSize is the number of leading bytes of a blob covered by the cipher.
const BlockSize = 512

const delta uint32 = 0x9E3779B9

// deviceKey is the key of the reader firmware, as little-endian words.
var deviceKey = [4]uint32{0x91BD7A0A, 0xA75440A9, 0xBBD49D6C, 0xE0DCC0E3}

func mx(z, y, sum uint32, p int, e uint32, k *[4]uint32) uint32 {
	return ((z>>5 ^ y<<2) + (y>>3 ^ z<<4)) ^ ((sum ^ y) + (k[(uint32(p)&3)^e] ^ z))
}

// rounds must stay at 1+52/n: the textbook 6+52/n does not match the device.
func rounds(n int) int {
	return 1 + 52/n
}

func decryptWords(v []uint32, k *[4]uint32) {
	n := len(v)
	if n < 2 {
		return
	}

	r := rounds(n)
	sum := uint32(r) * delta
	y := v[0]
	for ; r > 0; r-- {
		e := (sum >> 2) & 3
		for p := n - 1; p > 0; p-- {
			z := v[p-1]
			v[p] -= mx(z, y, sum, p, e, k)
			y = v[p]
		}
		z := v[n-1]
		v[0] -= mx(z, y, sum, 0, e, k)
		y = v[0]
		sum -= delta
	}
}

func encryptWords(v []uint32, k *[4]uint32) {
	n := len(v)
	if n < 2 {
		return
	}

	var sum uint32
	z := v[n-1]
	for r := rounds(n); r > 0; r-- {
		sum += delta
		e := (sum >> 2) & 3
		for p := 0; p < n-1; p++ {
			y := v[p+1]
			v[p] += mx(z, y, sum, p, e, k)
			z = v[p]
		}
		y := v[0]
		v[n-1] += mx(z, y, sum, n-1, e, k)
		z = v[n-1]
	}
}

// transform applies fn to the first BlockSize bytes of b, truncated to whole words.
// The result is always a fresh copy; b is never modified.
func transform(b []byte, fn func([]uint32, *[4]uint32)) []byte {
	out := make([]byte, len(b))
	copy(out, b)

	size := min(BlockSize, len(b)) &^ 3
	if size < 4 {
		return out
	}

	words := make([]uint32, size/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	fn(words, &deviceKey)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// Decrypt returns the plain form of a protected blob.
// Blobs shorter than two words are returned unchanged.
func Decrypt(b []byte) []byte {
	return transform(b, decryptWords)
}

// Encrypt is the inverse of Decrypt. It is used to produce packs and fixtures.
func Encrypt(b []byte) []byte {
	return transform(b, encryptWords)
}
