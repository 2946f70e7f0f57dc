package kmer

import (
	"fmt"

	"github.com/zhk8111/megahit"
)

const (
	// BitsPerBase is the width of one packed nucleotide.
	BitsPerBase = 2
	// MultiplicityBits is the width of the trailing counter field.
	MultiplicityBits = 16
	// MaxMultiplicity is the largest storable multiplicity; larger counts saturate.
	MaxMultiplicity = 1<<MultiplicityBits - 1

	basesPerWord = 32 / BitsPerBase
)

// Alphabet maps a 2-bit code to its nucleotide letter.
const Alphabet = "ACGT"

var codes [256]int8

func init() {
	for i := range codes {
		codes[i] = -1
	}
	for i, c := range Alphabet {
		codes[c] = int8(i)
		codes[c+'a'-'A'] = int8(i)
	}
}

// WordsPerEdge returns the number of 32-bit words of one edge record for k-mer size k.
func WordsPerEdge(k int) int {
	return ((k+1)*BitsPerBase + MultiplicityBits + 31) / 32
}

// Code returns the 2-bit code of base b, accepting upper- and lower-case letters.
func Code(b byte) (uint8, bool) {
	c := codes[b]
	return uint8(c), c >= 0
}

// Complement returns the code of the complementary base.
func Complement(code uint8) uint8 {
	return 3 - code
}

// Encode packs seq (k+1 bases) and mult into dst, which must hold exactly
// WordsPerEdge(len(seq)-1) words.
func Encode(seq []byte, mult uint16, dst []uint32) error {
	if len(seq) == 0 {
		return fmt.Errorf("%w: empty edge sequence", megahit.ErrMisuse)
	}
	if want := WordsPerEdge(len(seq) - 1); len(dst) != want {
		return fmt.Errorf("%w: edge of %d bases needs %d words, got %d", megahit.ErrMisuse, len(seq), want, len(dst))
	}
	clear(dst)
	for i, b := range seq {
		c, ok := Code(b)
		if !ok {
			return fmt.Errorf("%w: invalid base %q at position %d", megahit.ErrMisuse, b, i)
		}
		dst[i/basesPerWord] |= uint32(c) << shift(i)
	}
	dst[len(dst)-1] |= uint32(mult)
	return nil
}

// Decode unpacks a record of a k-mer size k store into its k+1 bases and multiplicity.
func Decode(words []uint32, k int) ([]byte, uint16, error) {
	if want := WordsPerEdge(k); len(words) != want {
		return nil, 0, fmt.Errorf("%w: k=%d record needs %d words, got %d", megahit.ErrMisuse, k, want, len(words))
	}
	seq := make([]byte, k+1)
	for i := range seq {
		seq[i] = Alphabet[BaseAt(words, i)]
	}
	return seq, Multiplicity(words), nil
}

// BaseAt returns the 2-bit code of base i of a packed record.
func BaseAt(words []uint32, i int) uint8 {
	return uint8(words[i/basesPerWord]>>shift(i)) & 3
}

// Multiplicity returns the counter field of a packed record.
func Multiplicity(words []uint32) uint16 {
	return uint16(words[len(words)-1])
}

// SaturatingMultiplicity clamps n into the counter field's range.
func SaturatingMultiplicity(n int) uint16 {
	if n > MaxMultiplicity {
		return MaxMultiplicity
	}
	if n < 0 {
		return 0
	}
	return uint16(n)
}

// ReverseComplement returns the reverse complement of an upper-case ACGT sequence.
// Letters outside the alphabet map to 'N'.
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c, ok := Code(seq[n-1-i])
		if !ok {
			out[i] = 'N'
			continue
		}
		out[i] = Alphabet[Complement(c)]
	}
	return out
}

func shift(i int) uint {
	return uint(32 - BitsPerBase*(i%basesPerWord+1))
}
