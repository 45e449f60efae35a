package dockerfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoalesceMergesConsecutiveRuns(t *testing.T) {
	res := Coalesce([]Instruction{
		NewRun("a"),
		NewRun("b"),
		NewRun("c"),
	})
	require.Equal(t, []Instruction{
		{Keyword: Run, Body: "a \\\n && b \\\n && c"},
	}, res)
}

func TestCoalesceNonRunIsBarrier(t *testing.T) {
	res := Coalesce([]Instruction{
		NewWorkdir("/app/"),
		NewRun("a"),
		NewRun("b"),
		NewArg("CACHEBUST"),
		NewRun("c"),
		NewAdd("x", "y"),
		NewAdd("y", "z"),
		NewRun("d"),
		NewRun("e"),
	})
	require.Equal(t, []string{
		"WORKDIR /app/",
		"RUN a \\\n && b",
		"ARG CACHEBUST",
		"RUN c",
		"ADD x y",
		"ADD y z",
		"RUN d \\\n && e",
	}, renderAll(res))
}

func TestCoalesceIsIdempotent(t *testing.T) {
	for _, list := range [][]Instruction{
		nil,
		{NewRun("a")},
		{NewRun("a"), NewRun("b\nc"), NewCmd("x"), NewRun("d")},
		{NewCmd("x"), NewCmd("y")},
		{NewRun("a"), Raw("# comment"), NewRun("b"), NewRun("c")},
	} {
		once := Coalesce(list)
		require.Equal(t, once, Coalesce(once))
	}
}

func TestCoalesceEmpty(t *testing.T) {
	require.Empty(t, Coalesce(nil))
}

func renderAll(instructions []Instruction) []string {
	res := []string{}
	for _, instruction := range instructions {
		res = append(res, instruction.String())
	}
	return res
}
