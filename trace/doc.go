// Package trace parses and replays allocator workload traces.
//
// A trace file is a line-oriented script: a four-line header (suggested heap
// size, distinct id count, operation count, weight) followed by one operation
// per line:
//
//	a <id> <size>   allocate <size> bytes as <id>
//	r <id> <size>   resize <id> to <size> bytes
//	f <id>          free <id>
//
// Runner replays a parsed trace against a heap, stamping every payload with an
// id-derived pattern and verifying it on each later touch, so placement bugs
// surface as data corruption rather than silent overlap.
package trace
