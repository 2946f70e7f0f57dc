// Package conv provides checked integer conversions for values read from disk.
//
// Footer counts and offsets are int64 on disk but index Go slices as int;
// vertex ids are uint32. Every conversion of untrusted data goes through here
// so a corrupt footer surfaces as an error instead of a silent wrap-around.
package conv
