package edgestore

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zhk8111/megahit/internal/fs"
	"github.com/zhk8111/megahit/kmer"
)

// Info is the parsed content of a store footer.
type Info struct {
	KmerSize     int
	WordsPerEdge int
	NumThreads   int
	NumBuckets   int
	NumEdges     int64

	// Partitions has one record per bucket in sorted mode and is empty in
	// unsorted mode.
	Partitions []PartitionRecord

	// FileEdges is the number of edges in each thread file: the sum of the
	// owned bucket totals in sorted mode, the listed count in unsorted mode.
	FileEdges []int64
}

// IsUnsorted reports whether the store has no bucket partitioning.
func (info *Info) IsUnsorted() bool {
	return info.NumBuckets == 0
}

// WriteTo renders the footer.
func (info *Info) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}

	fmt.Fprintf(cw, "kmer_size %d\n", info.KmerSize)
	fmt.Fprintf(cw, "words_per_edge %d\n", info.WordsPerEdge)
	fmt.Fprintf(cw, "num_threads %d\n", info.NumThreads)
	fmt.Fprintf(cw, "num_bucket %d\n", info.NumBuckets)
	fmt.Fprintf(cw, "num_edges %d\n", info.NumEdges)
	if info.IsUnsorted() {
		for i, n := range info.FileEdges {
			fmt.Fprintf(cw, "%d %d\n", i, n)
		}
	} else {
		for i, p := range info.Partitions {
			fmt.Fprintf(cw, "%d %d %d %d\n", i, p.ThreadID, p.StartingOffset, p.TotalNumber)
		}
	}
	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// ReadInfo parses the footer of the store at prefix.
func ReadInfo(prefix string) (*Info, error) {
	return readInfo(fs.Default, prefix)
}

func readInfo(fsys fs.FileSystem, prefix string) (*Info, error) {
	path := InfoFileName(prefix)
	f, err := fs.Open(fsys, path)
	if err != nil {
		return nil, ioErr("open footer", path, err)
	}
	defer f.Close()

	info, err := ParseInfo(f)
	if err != nil {
		if fe, ok := err.(*FooterError); ok {
			fe.Path = path
			return nil, fe
		}
		return nil, ioErr("read footer", path, err)
	}
	return info, nil
}

// ParseInfo parses a footer. Fields must appear in the exact order and count
// the writer emits them; any deviation is a *FooterError.
func ParseInfo(r io.Reader) (*Info, error) {
	p := &footerParser{sc: bufio.NewScanner(r)}

	info := &Info{}
	var err error
	if info.KmerSize, err = p.keyed("kmer_size"); err != nil {
		return nil, err
	}
	if info.WordsPerEdge, err = p.keyed("words_per_edge"); err != nil {
		return nil, err
	}
	if info.NumThreads, err = p.keyed("num_threads"); err != nil {
		return nil, err
	}
	if info.NumBuckets, err = p.keyed("num_bucket"); err != nil {
		return nil, err
	}
	numEdges, err := p.keyed64("num_edges")
	if err != nil {
		return nil, err
	}
	info.NumEdges = numEdges

	switch {
	case info.KmerSize < 0:
		return nil, p.errorf("negative kmer_size %d", info.KmerSize)
	case info.WordsPerEdge != kmer.WordsPerEdge(info.KmerSize):
		return nil, p.errorf("words_per_edge %d does not match kmer_size %d", info.WordsPerEdge, info.KmerSize)
	case info.NumThreads <= 0:
		return nil, p.errorf("num_threads must be positive, got %d", info.NumThreads)
	case info.NumBuckets < 0:
		return nil, p.errorf("negative num_bucket %d", info.NumBuckets)
	case info.NumEdges < 0:
		return nil, p.errorf("negative num_edges %d", info.NumEdges)
	}

	info.FileEdges = make([]int64, info.NumThreads)
	var total int64
	if info.IsUnsorted() {
		for i := 0; i < info.NumThreads; i++ {
			fields, err := p.fields(2)
			if err != nil {
				return nil, err
			}
			if fields[0] != int64(i) {
				return nil, p.errorf("expected thread %d, got %d", i, fields[0])
			}
			if fields[1] < 0 {
				return nil, p.errorf("negative edge count %d", fields[1])
			}
			info.FileEdges[i] = fields[1]
			total += fields[1]
		}
	} else {
		info.Partitions = make([]PartitionRecord, info.NumBuckets)
		for i := 0; i < info.NumBuckets; i++ {
			fields, err := p.fields(4)
			if err != nil {
				return nil, err
			}
			rec := PartitionRecord{ThreadID: int(fields[1]), StartingOffset: fields[2], TotalNumber: fields[3]}
			switch {
			case fields[0] != int64(i):
				return nil, p.errorf("expected bucket %d, got %d", i, fields[0])
			case fields[1] < UnassignedThread || fields[1] >= int64(info.NumThreads):
				return nil, p.errorf("bucket %d owned by thread %d outside [-1, %d)", i, fields[1], info.NumThreads)
			case rec.StartingOffset < 0 || rec.TotalNumber < 0:
				return nil, p.errorf("bucket %d has negative offset or count", i)
			case !rec.Assigned() && rec.TotalNumber != 0:
				return nil, p.errorf("unassigned bucket %d has %d edges", i, rec.TotalNumber)
			}
			info.Partitions[i] = rec
			if rec.Assigned() {
				info.FileEdges[rec.ThreadID] += rec.TotalNumber
			}
			total += rec.TotalNumber
		}
	}

	if p.sc.Scan() && strings.TrimSpace(p.sc.Text()) != "" {
		p.line++
		return nil, p.errorf("unexpected trailing line %q", p.sc.Text())
	}
	if err := p.sc.Err(); err != nil {
		return nil, err
	}
	for i, rec := range info.Partitions {
		if rec.Assigned() && rec.StartingOffset > info.FileEdges[rec.ThreadID]-rec.TotalNumber {
			return nil, p.errorf("bucket %d extends past the %d edges of thread %d", i, info.FileEdges[rec.ThreadID], rec.ThreadID)
		}
	}
	if total != info.NumEdges {
		return nil, p.errorf("num_edges %d does not match record sum %d", info.NumEdges, total)
	}
	return info, nil
}

type footerParser struct {
	sc   *bufio.Scanner
	line int
}

func (p *footerParser) errorf(format string, args ...any) error {
	return &FooterError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *footerParser) next() ([]string, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return nil, err
		}
		p.line++
		return nil, p.errorf("unexpected end of footer")
	}
	p.line++
	return strings.Fields(p.sc.Text()), nil
}

func (p *footerParser) keyed64(key string) (int64, error) {
	f, err := p.next()
	if err != nil {
		return 0, err
	}
	if len(f) != 2 || f[0] != key {
		return 0, p.errorf("expected %q <value>, got %q", key, strings.Join(f, " "))
	}
	v, err := strconv.ParseInt(f[1], 10, 64)
	if err != nil {
		return 0, p.errorf("invalid %s value %q", key, f[1])
	}
	return v, nil
}

func (p *footerParser) keyed(key string) (int, error) {
	v, err := p.keyed64(key)
	if err != nil {
		return 0, err
	}
	if v < -1<<31 || v > 1<<31-1 {
		return 0, p.errorf("%s value %d out of range", key, v)
	}
	return int(v), nil
}

func (p *footerParser) fields(n int) ([]int64, error) {
	f, err := p.next()
	if err != nil {
		return nil, err
	}
	if len(f) != n {
		return nil, p.errorf("expected %d fields, got %d", n, len(f))
	}
	out := make([]int64, n)
	for i, s := range f {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid field %q", s)
		}
		out[i] = v
	}
	return out, nil
}
