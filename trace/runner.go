package trace

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ftaube/memkit/heap"
)

// Runner replays traces against a heap.
type Runner struct {
	// Heap receives the replayed operations. Required.
	Heap *heap.Heap

	// Log receives per-operation debug events. Nil selects a no-op logger.
	Log *zap.Logger

	// CheckEach runs the consistency checker after every operation and fails
	// the replay on the first violation. Slow; meant for debugging.
	CheckEach bool

	// Verify stamps each payload with an id-derived pattern and verifies it
	// before every free and resize, catching blocks that overlap or move
	// without preserving data.
	Verify bool
}

// Result summarizes one replay.
type Result struct {
	Ops          int     // operations executed
	MaxLive      int64   // high-water mark of requested live bytes
	HeapSize     int     // final heap region size
	Utilization  float64 // MaxLive / HeapSize
	CheckedSteps int     // consistency checks run
}

type slot struct {
	ref  heap.Ref
	size int // requested size, for pattern verification
	live bool
}

// Run replays tr from the beginning. The heap should be freshly created; live
// blocks from earlier runs are invisible to the runner and only distort
// utilization.
func (r *Runner) Run(tr *Trace) (Result, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	slots := make([]slot, tr.IDCount)
	var res Result
	var live int64

	for i, op := range tr.Ops {
		s := &slots[op.ID]
		switch op.Kind {
		case OpAlloc:
			if s.live {
				return res, fmt.Errorf("trace: op %d: id %d allocated twice", i, op.ID)
			}
			ref, err := r.Heap.Alloc(op.Size)
			if err != nil {
				return res, fmt.Errorf("trace: op %d: alloc %d bytes for id %d: %w", i, op.Size, op.ID, err)
			}
			log.Debug("alloc",
				zap.Int("op", i),
				zap.Int("id", op.ID),
				zap.Int("size", op.Size),
				zap.Int("ref", ref))
			if r.Verify && ref != heap.NilRef {
				if err := r.stamp(ref, op.ID, op.Size); err != nil {
					return res, fmt.Errorf("trace: op %d: %w", i, err)
				}
			}
			*s = slot{ref: ref, size: op.Size, live: true}
			live += int64(op.Size)

		case OpRealloc:
			if !s.live {
				return res, fmt.Errorf("trace: op %d: resize of dead id %d", i, op.ID)
			}
			if r.Verify && s.ref != heap.NilRef {
				if err := r.verify(s.ref, op.ID, s.size); err != nil {
					return res, fmt.Errorf("trace: op %d: before resize: %w", i, err)
				}
			}
			var ref heap.Ref
			var err error
			if s.ref == heap.NilRef {
				// A zero-size allocation has no block; resizing it is a
				// fresh allocation.
				ref, err = r.Heap.Alloc(op.Size)
			} else {
				ref, err = r.Heap.Realloc(s.ref, op.Size)
			}
			if err != nil {
				return res, fmt.Errorf("trace: op %d: resize id %d to %d bytes: %w", i, op.ID, op.Size, err)
			}
			log.Debug("realloc",
				zap.Int("op", i),
				zap.Int("id", op.ID),
				zap.Int("size", op.Size),
				zap.Int("ref", ref))
			if r.Verify && ref != heap.NilRef {
				keep := min(s.size, op.Size)
				if err := r.verifyPrefix(ref, op.ID, keep); err != nil {
					return res, fmt.Errorf("trace: op %d: after resize: %w", i, err)
				}
				if err := r.stamp(ref, op.ID, op.Size); err != nil {
					return res, fmt.Errorf("trace: op %d: %w", i, err)
				}
			}
			live += int64(op.Size) - int64(s.size)
			*s = slot{ref: ref, size: op.Size, live: ref != heap.NilRef}

		case OpFree:
			if !s.live {
				return res, fmt.Errorf("trace: op %d: free of dead id %d", i, op.ID)
			}
			if s.ref != heap.NilRef {
				if r.Verify {
					if err := r.verify(s.ref, op.ID, s.size); err != nil {
						return res, fmt.Errorf("trace: op %d: before free: %w", i, err)
					}
				}
				if err := r.Heap.Free(s.ref); err != nil {
					return res, fmt.Errorf("trace: op %d: free id %d: %w", i, op.ID, err)
				}
			}
			log.Debug("free", zap.Int("op", i), zap.Int("id", op.ID), zap.Int("ref", s.ref))
			live -= int64(s.size)
			*s = slot{}

		default:
			return res, fmt.Errorf("trace: op %d: unknown kind %q", i, op.Kind)
		}

		res.Ops++
		if live > res.MaxLive {
			res.MaxLive = live
		}
		if r.CheckEach {
			res.CheckedSteps++
			if vs := r.Heap.Check(false, nil); len(vs) > 0 {
				return res, fmt.Errorf("trace: op %d: heap inconsistent: %s", i, vs[0])
			}
		}
	}

	res.HeapSize = r.Heap.Size()
	if res.HeapSize > 0 {
		res.Utilization = float64(res.MaxLive) / float64(res.HeapSize)
	}
	log.Info("replay done",
		zap.Int("ops", res.Ops),
		zap.Int64("max_live", res.MaxLive),
		zap.Int("heap_size", res.HeapSize),
		zap.Float64("utilization", res.Utilization))
	return res, nil
}

// pattern is the fill byte for offset i of id's payload.
func pattern(id, i int) byte {
	return byte(id)*151 + byte(i)*29
}

func (r *Runner) stamp(ref heap.Ref, id, size int) error {
	buf, err := r.Heap.Payload(ref)
	if err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		buf[i] = pattern(id, i)
	}
	return nil
}

func (r *Runner) verify(ref heap.Ref, id, size int) error {
	return r.verifyPrefix(ref, id, size)
}

func (r *Runner) verifyPrefix(ref heap.Ref, id, n int) error {
	buf, err := r.Heap.Payload(ref)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if buf[i] != pattern(id, i) {
			return fmt.Errorf("payload of id %d corrupt at byte %d", id, i)
		}
	}
	return nil
}
