// internal/frame/assembler_test.go
package frame

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStream = "!AIVDM,1,1,,,B,13u?etPv2;0n:dDPwUM1U1Cb05Ip,0*3C\r\n" +
	"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n" +
	"!AIVDO,1,1,,,B,13u?etPv2;0n:dDPwUM1U1Cb05Ip,0*3D\r\n" +
	"\r\n" +
	"$GPZDA,201530.00,04,07,2002,00,00*60\r\n"

func feedAll(a *Assembler, chunks [][]byte) []string {
	var out []string
	for _, c := range chunks {
		for _, l := range a.Feed(c) {
			out = append(out, string(l))
		}
	}
	return out
}

func TestAssembler_WholeStream(t *testing.T) {
	a := NewAssembler(0)

	lines := feedAll(a, [][]byte{[]byte(sampleStream)})

	require.Len(t, lines, 5)
	assert.Equal(t, "!AIVDM,1,1,,,B,13u?etPv2;0n:dDPwUM1U1Cb05Ip,0*3C", lines[0])
	assert.Equal(t, "", lines[3], "empty line between delimiters")
	assert.Equal(t, 0, a.Pending())
}

func TestAssembler_ChunkingDoesNotChangeOutput(t *testing.T) {
	want := feedAll(NewAssembler(0), [][]byte{[]byte(sampleStream)})

	rng := rand.New(rand.NewSource(42))
	data := []byte(sampleStream)

	for round := 0; round < 200; round++ {
		var chunks [][]byte
		rest := data
		for len(rest) > 0 {
			n := 1 + rng.Intn(len(rest))
			if n > 9 {
				n = 1 + rng.Intn(9)
			}
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}

		got := feedAll(NewAssembler(0), chunks)
		require.Equal(t, want, got, "round %d", round)
	}
}

func TestAssembler_ByteAtATime(t *testing.T) {
	a := NewAssembler(0)
	var chunks [][]byte
	for i := 0; i < len(sampleStream); i++ {
		chunks = append(chunks, []byte{sampleStream[i]})
	}

	got := feedAll(a, chunks)
	assert.Len(t, got, 5)
	assert.Equal(t, 0, a.Pending())
}

func TestAssembler_SplitDelimiter(t *testing.T) {
	a := NewAssembler(0)

	first := a.Feed([]byte("!AIVDO,1,1,,,B,13u?et\r"))
	assert.Empty(t, first)
	assert.Equal(t, len("!AIVDO,1,1,,,B,13u?et\r"), a.Pending())

	second := a.Feed([]byte("\n$GPZDA,201530.00\r\n!AIVDM,1,1,,,B\r\n"))
	require.Len(t, second, 3)
	assert.Equal(t, "!AIVDO,1,1,,,B,13u?et", string(second[0]))
	assert.Equal(t, "$GPZDA,201530.00", string(second[1]))
	assert.Equal(t, "!AIVDM,1,1,,,B", string(second[2]))
	assert.Equal(t, 0, a.Pending())
}

func TestAssembler_LoneLineFeedIsNotADelimiter(t *testing.T) {
	a := NewAssembler(0)

	lines := a.Feed([]byte("!AIVDM,a\n!AIVDM,b\r\n"))

	require.Len(t, lines, 1)
	assert.Equal(t, "!AIVDM,a\n!AIVDM,b", string(lines[0]))
}

func TestAssembler_TrailingFragmentRetained(t *testing.T) {
	a := NewAssembler(0)

	lines := a.Feed([]byte("!AIVDM,1\r\n!AIVDM,2"))
	require.Len(t, lines, 1)
	assert.Equal(t, len("!AIVDM,2"), a.Pending())

	lines = a.Feed([]byte(",tail\r\n"))
	require.Len(t, lines, 1)
	assert.Equal(t, "!AIVDM,2,tail", string(lines[0]))
}

func TestAssembler_ReturnedLinesAreCopies(t *testing.T) {
	a := NewAssembler(0)
	chunk := []byte("!AIVDM,x\r\n")

	lines := a.Feed(chunk)
	chunk[1] = 'Z'

	assert.Equal(t, "!AIVDM,x", string(lines[0]))
}

func TestAssembler_Reset(t *testing.T) {
	a := NewAssembler(0)
	a.Feed([]byte("!AIVDM,stale"))

	a.Reset()
	lines := a.Feed([]byte("!AIVDO,fresh\r\n"))

	require.Len(t, lines, 1)
	assert.Equal(t, "!AIVDO,fresh", string(lines[0]))
}

func TestAssembler_OverflowDiscardsWholeLine(t *testing.T) {
	a := NewAssembler(8)

	assert.Empty(t, a.Feed([]byte("0123456789")))
	assert.Equal(t, uint64(1), a.Overflows())
	assert.Equal(t, 0, a.Pending())

	// The rest of the overlong line is dropped with it.
	assert.Empty(t, a.Feed([]byte("tail\r\n")))

	lines := a.Feed([]byte("ok\r\n"))
	require.Len(t, lines, 1)
	assert.Equal(t, "ok", string(lines[0]))
	assert.Equal(t, uint64(1), a.Overflows())
}

func TestAssembler_OverflowKeepsSplitDelimiter(t *testing.T) {
	a := NewAssembler(4)

	a.Feed([]byte("garbage\r"))
	assert.Equal(t, 1, a.Pending())

	lines := a.Feed([]byte("\nnext\r\n"))
	require.Len(t, lines, 1)
	assert.Equal(t, "next", string(lines[0]))
}

func TestAssembler_LineAtLimitIsKept(t *testing.T) {
	a := NewAssembler(4)

	assert.Empty(t, a.Feed([]byte("abcd\r")))
	lines := a.Feed([]byte("\n"))

	require.Len(t, lines, 1)
	assert.Equal(t, "abcd", string(lines[0]))
	assert.Zero(t, a.Overflows())
}

func TestAssembler_OverlongLineNeverLeaksItsTail(t *testing.T) {
	overlong := "$GPTXT," + strings.Repeat("x", 40) + "!AIVDM,forged,0*00\r\n"
	stream := []byte("!AIVDM,ok1\r\n" + overlong + "!AIVDO,ok2\r\n")
	want := []string{"!AIVDM,ok1", "!AIVDO,ok2"}

	split := func(size int) [][]byte {
		var chunks [][]byte
		for rest := stream; len(rest) > 0; {
			n := size
			if n > len(rest) {
				n = len(rest)
			}
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}
		return chunks
	}

	for _, size := range []int{len(stream), 47, 33, 7, 1} {
		a := NewAssembler(32)
		got := feedAll(a, split(size))
		assert.Equal(t, want, got, "chunk size %d", size)
		assert.Equal(t, uint64(1), a.Overflows(), "chunk size %d", size)
	}

	filter, err := NewFilter([]string{"!AIVDM", "!AIVDO"})
	require.NoError(t, err)
	for _, l := range feedAll(NewAssembler(32), split(47)) {
		assert.NotContains(t, l, "forged")
		assert.True(t, filter.Accept([]byte(l)))
	}
}

func TestAssembler_ResetEndsDiscarding(t *testing.T) {
	a := NewAssembler(4)
	a.Feed([]byte("0123456789"))

	a.Reset()
	lines := a.Feed([]byte("ok\r\n"))

	require.Len(t, lines, 1)
	assert.Equal(t, "ok", string(lines[0]))
}
