package vm

import (
	"testing"

	"github.com/deepnoodle-ai/emergent/object"
	"github.com/stretchr/testify/require"
)

const loopSource = `
let i = 0
let total = 0
while i < 500 {
  total = total + i * 2 - 1
  i = i + 1
}
total
`

func TestHotPathCompilesChunks(t *testing.T) {
	result, machine, err := run(t, loopSource, WithHotPathThreshold(10))
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(249000), result)
	stats := machine.HotPathStats()
	require.Greater(t, stats.Chunks, 0)
	require.Greater(t, stats.Hits, 0)
	require.Greater(t, stats.Instructions, 0)
}

func TestWithoutHotPath(t *testing.T) {
	result, machine, err := run(t, loopSource, WithoutHotPath())
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(249000), result)
	require.Equal(t, HotPathStats{}, machine.HotPathStats())
}

func TestHotPathMatchesDispatch(t *testing.T) {
	sources := []string{
		loopSource,
		`
let xs = [1, 2, 3, 4]
let acc = []
for x in xs { acc = acc + [x * x > 4 and x != 3] }
acc
`,
		`
def step(n) { -n + 1 / 2 }
let s = 0
let k = 0
while k < 100 { s = s + step(k) % 7
k = k + 1 }
s
`,
	}
	for _, source := range sources {
		fast, _, err := run(t, source, WithHotPathThreshold(3), WithHotPathWindow(4))
		require.Nil(t, err)
		slow, _, err := run(t, source, WithoutHotPath())
		require.Nil(t, err)
		require.True(t, fast.Equals(slow), "%s != %s", fast.Inspect(), slow.Inspect())
	}
}

func TestHotPathFaultIsCaught(t *testing.T) {
	source := `
let i = 0
let v = 0
try {
  while true {
    v = i - 1
    i = i + 1
    if i > 300 { i = "stop" }
  }
} catch (e) { e }
`
	fast, machine, err := run(t, source, WithHotPathThreshold(5))
	require.Nil(t, err)
	require.Greater(t, machine.HotPathStats().Chunks, 0)
	slow, _, err := run(t, source, WithoutHotPath())
	require.Nil(t, err)
	require.Equal(t, slow, fast)
	require.Equal(t, object.NewString("type error: unsupported operand types for -: string and number"), fast)
}
