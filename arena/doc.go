// Package arena provides the raw memory regions the heap allocator manages.
//
// A Source is a single contiguous byte region that can only grow. Extending
// returns the offset at which the new bytes begin, so callers can format the
// fresh region in place. A Source never shrinks and never reorders bytes:
// offsets handed out remain valid for the lifetime of the Source, though the
// backing array may be remapped or reallocated on growth, so callers must
// hold offsets rather than byte slices across extensions.
//
// Two implementations are provided:
//
//   - Buffer: an in-memory region, optionally bounded, intended for embedded
//     heaps and tests.
//   - File: a file-backed region mapped read-write, so a heap survives the
//     process and can be reopened for inspection.
package arena
