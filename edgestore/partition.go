package edgestore

import "fmt"

// UnassignedThread is the thread id of a bucket no thread has written.
const UnassignedThread = -1

// PartitionRecord ties a bucket to the thread file holding its edges.
type PartitionRecord struct {
	// ThreadID owns the bucket, or UnassignedThread.
	ThreadID int
	// StartingOffset is the bucket's first record, counted in edges from the
	// start of the owner's file.
	StartingOffset int64
	// TotalNumber is the number of edges in the bucket.
	TotalNumber int64
}

// NewPartitionRecord returns an unassigned record.
func NewPartitionRecord() PartitionRecord {
	return PartitionRecord{ThreadID: UnassignedThread}
}

// Assigned reports whether a thread has claimed the bucket.
func (p PartitionRecord) Assigned() bool {
	return p.ThreadID != UnassignedThread
}

func newPartitions(n int) []PartitionRecord {
	recs := make([]PartitionRecord, n)
	for i := range recs {
		recs[i] = NewPartitionRecord()
	}
	return recs
}

// FileName returns the data file name of thread tid for a store prefix.
func FileName(prefix string, tid int) string {
	return fmt.Sprintf("%s.edges.%d", prefix, tid)
}

// InfoFileName returns the footer file name for a store prefix.
func InfoFileName(prefix string) string {
	return prefix + ".edges.info"
}
