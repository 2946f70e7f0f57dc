package dbg

import (
	"errors"
	"io"
	"strings"

	"github.com/zhk8111/megahit/edgestore"
	"github.com/zhk8111/megahit/kmer"
)

// Build reads edge records until next returns io.EOF and builds a graph with
// node length k. The multiplicities of repeated edges, on either strand, are
// summed.
//
// next is typically a Reader's NextSortedEdge or NextUnsortedEdge, or a
// cursor's Next.
func Build(k int, next func() (edgestore.Record, error)) (*Graph, error) {
	if k < 1 {
		return nil, misusef("node length must be positive, got %d", k)
	}
	counts := make(map[string]int)
	var words []uint32
	for {
		rec, err := next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		words = rec.Words(words[:0])
		seq, mult, err := kmer.Decode(words, k)
		if err != nil {
			return nil, err
		}
		counts[canonical(seq)] += int(mult)
	}
	return newGraph(k, counts), nil
}

// FromSequences builds a graph from every (k+1)-base window of seqs. Windows
// containing a letter outside ACGT are skipped; lower case is accepted.
func FromSequences(k int, seqs ...string) (*Graph, error) {
	if k < 1 {
		return nil, misusef("node length must be positive, got %d", k)
	}
	counts := make(map[string]int)
	for _, s := range seqs {
		s = strings.ToUpper(s)
		run := 0
		for i := 0; i < len(s); i++ {
			if _, ok := kmer.Code(s[i]); !ok {
				run = 0
				continue
			}
			run++
			if run >= k+1 {
				counts[canonical([]byte(s[i-k:i+1]))]++
			}
		}
	}
	return newGraph(k, counts), nil
}

func canonical(seq []byte) string {
	label := string(seq)
	if rc := string(kmer.ReverseComplement(seq)); rc < label {
		return rc
	}
	return label
}
