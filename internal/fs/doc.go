// Package fs provides filesystem abstractions for testability and fault injection.
//
// Edge store writers create one file per producer plus a footer. Going through
// [FileSystem] instead of the os package lets tests inject [FaultyFS] and
// observe how a failed open, a short write or a failed close surfaces.
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".edges.1", fs.Fault{FailAfterBytes: 64})
//	// inject ffs into the writer under test
//
// Memory mapping bypasses this package; mappings are opened by path.
package fs
