package trace

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ftaube/memkit/arena"
	"github.com/ftaube/memkit/heap"
)

const sampleScript = `20000
3
8
1
a 0 512
a 1 128
r 0 640
f 1
a 2 128
f 0
r 2 5120
f 2
`

func Test_ParseSample(t *testing.T) {
	tr, err := Parse(strings.NewReader(sampleScript))
	require.NoError(t, err)

	require.Equal(t, 20000, tr.SuggestedHeap)
	require.Equal(t, 3, tr.IDCount)
	require.Equal(t, 1, tr.Weight)
	require.Len(t, tr.Ops, 8)

	require.Equal(t, Op{Kind: OpAlloc, ID: 0, Size: 512}, tr.Ops[0])
	require.Equal(t, Op{Kind: OpRealloc, ID: 0, Size: 640}, tr.Ops[2])
	require.Equal(t, Op{Kind: OpFree, ID: 1}, tr.Ops[3])
}

func Test_ParseSkipsBlankLines(t *testing.T) {
	tr, err := Parse(strings.NewReader("100\n\n1\n\n2\n1\n\na 0 16\nf 0\n"))
	require.NoError(t, err)
	require.Len(t, tr.Ops, 2)
}

func Test_ParseRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"truncated header":  "100\n2\n",
		"bad header field":  "100\nxx\n1\n1\na 0 16\n",
		"unknown op":        "100\n1\n1\n1\nq 0 16\n",
		"missing size":      "100\n1\n1\n1\na 0\n",
		"extra free arg":    "100\n1\n1\n1\nf 0 16\n",
		"negative size":     "100\n1\n1\n1\na 0 -4\n",
		"id out of range":   "100\n1\n1\n1\na 1 16\n",
		"op count mismatch": "100\n1\n3\n1\na 0 16\nf 0\n",
	}
	for name, script := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(script))
			require.Error(t, err)
			require.Contains(t, err.Error(), "trace:")
		})
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	h, err := heap.New(arena.NewBuffer(), &heap.Config{ChunkSize: 4096})
	require.NoError(t, err)
	return &Runner{Heap: h, CheckEach: true, Verify: true}
}

func Test_RunSampleTrace(t *testing.T) {
	tr, err := Parse(strings.NewReader(sampleScript))
	require.NoError(t, err)

	r := newTestRunner(t)
	res, err := r.Run(tr)
	require.NoError(t, err)

	require.Equal(t, 8, res.Ops)
	require.Equal(t, 8, res.CheckedSteps)
	// The resize of id2 to 5120 bytes sets the high-water mark.
	require.Equal(t, int64(5120), res.MaxLive)
	require.Greater(t, res.Utilization, 0.0)

	// Everything was freed, so the heap drains back to a clean state.
	require.Empty(t, r.Heap.Check(false, nil))
	require.Zero(t, r.Heap.Stats().LiveBytes)
}

func Test_RunDetectsDoubleFree(t *testing.T) {
	tr, err := Parse(strings.NewReader("100\n1\n3\n1\na 0 64\nf 0\nf 0\n"))
	require.NoError(t, err)

	r := newTestRunner(t)
	_, err = r.Run(tr)
	require.Error(t, err)
	require.Contains(t, err.Error(), "free of dead id")
}

func Test_RunDetectsDoubleAlloc(t *testing.T) {
	tr, err := Parse(strings.NewReader("100\n1\n2\n1\na 0 64\na 0 64\n"))
	require.NoError(t, err)

	r := newTestRunner(t)
	_, err = r.Run(tr)
	require.Error(t, err)
	require.Contains(t, err.Error(), "allocated twice")
}

func Test_RunVerifiesPayloadsAcrossChurn(t *testing.T) {
	// Interleave allocations and frees so blocks split, coalesce, and move;
	// Verify fails the run if any payload byte is lost.
	var sb strings.Builder
	sb.WriteString("100000\n8\n28\n1\n")
	for i := 0; i < 8; i++ {
		sb.WriteString("a " + strconv.Itoa(i) + " " + strconv.Itoa(100+i*37) + "\n")
	}
	for i := 0; i < 8; i += 2 {
		sb.WriteString("f " + strconv.Itoa(i) + "\n")
	}
	for i := 1; i < 8; i += 2 {
		sb.WriteString("r " + strconv.Itoa(i) + " " + strconv.Itoa(600+i*13) + "\n")
	}
	for i := 0; i < 8; i += 2 {
		sb.WriteString("a " + strconv.Itoa(i) + " 48\n")
	}
	for i := 1; i < 8; i += 2 {
		sb.WriteString("f " + strconv.Itoa(i) + "\n")
	}
	for i := 0; i < 8; i += 2 {
		sb.WriteString("f " + strconv.Itoa(i) + "\n")
	}

	tr, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Len(t, tr.Ops, 28)

	r := newTestRunner(t)
	res, err := r.Run(tr)
	require.NoError(t, err)
	require.Equal(t, 28, res.Ops)
	require.Zero(t, r.Heap.Stats().LiveBytes)
}
