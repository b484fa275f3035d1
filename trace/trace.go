package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// OpKind is the operation discriminator used in trace files.
type OpKind byte

const (
	OpAlloc   OpKind = 'a'
	OpRealloc OpKind = 'r'
	OpFree    OpKind = 'f'
)

// Op is one trace operation. Size is meaningful for OpAlloc and OpRealloc.
type Op struct {
	Kind OpKind
	ID   int
	Size int
}

// Trace is a parsed workload script.
type Trace struct {
	SuggestedHeap int // advisory initial heap size from the header
	IDCount       int // number of distinct ids
	Weight        int // scoring weight, carried through unchanged
	Ops           []Op
}

// Parse reads a trace script from r.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	line := 0

	next := func() (string, error) {
		for sc.Scan() {
			line++
			s := strings.TrimSpace(sc.Text())
			if s != "" {
				return s, nil
			}
		}
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("trace: line %d: %w", line, err)
		}
		return "", io.EOF
	}

	tr := &Trace{}
	opCount := 0
	header := []*int{&tr.SuggestedHeap, &tr.IDCount, &opCount, &tr.Weight}
	for i, dst := range header {
		s, err := next()
		if err == io.EOF {
			return nil, fmt.Errorf("trace: line %d: truncated header (field %d of 4)", line, i+1)
		}
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Sscanf(s, "%d", dst); err != nil {
			return nil, fmt.Errorf("trace: line %d: bad header field %q", line, s)
		}
	}
	if tr.IDCount < 0 || opCount < 0 {
		return nil, fmt.Errorf("trace: line %d: negative header count", line)
	}

	tr.Ops = make([]Op, 0, opCount)
	for {
		s, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		op, err := parseOp(s)
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", line, err)
		}
		if op.ID < 0 || op.ID >= tr.IDCount {
			return nil, fmt.Errorf("trace: line %d: id %d out of range [0,%d)", line, op.ID, tr.IDCount)
		}
		tr.Ops = append(tr.Ops, op)
	}
	if len(tr.Ops) != opCount {
		return nil, fmt.Errorf("trace: header declares %d operations, found %d", opCount, len(tr.Ops))
	}
	return tr, nil
}

// ParseFile parses the trace script at path.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseOp(s string) (Op, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Op{}, fmt.Errorf("malformed operation %q", s)
	}
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("unknown operation %q", fields[0])
	}

	op := Op{Kind: OpKind(fields[0][0])}
	if _, err := fmt.Sscanf(fields[1], "%d", &op.ID); err != nil {
		return Op{}, fmt.Errorf("bad id %q", fields[1])
	}

	switch op.Kind {
	case OpAlloc, OpRealloc:
		if len(fields) != 3 {
			return Op{}, fmt.Errorf("operation %c wants 2 arguments, got %d", op.Kind, len(fields)-1)
		}
		if _, err := fmt.Sscanf(fields[2], "%d", &op.Size); err != nil {
			return Op{}, fmt.Errorf("bad size %q", fields[2])
		}
		if op.Size < 0 {
			return Op{}, fmt.Errorf("negative size %d", op.Size)
		}
	case OpFree:
		if len(fields) != 2 {
			return Op{}, fmt.Errorf("operation f wants 1 argument, got %d", len(fields)-1)
		}
	default:
		return Op{}, fmt.Errorf("unknown operation %q", fields[0])
	}
	return op, nil
}
