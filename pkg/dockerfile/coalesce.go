package dockerfile

import "strings"

// RunDelimiter joins the commands of merged RUN instructions.
const RunDelimiter = " \\\n && "

// Coalesce merges consecutive RUN instructions into one, so each uninterrupted run
// of commands becomes a single layer. Any other instruction is a barrier: pending
// commands are flushed before it and nothing is moved across it. The result of
// coalescing an already coalesced list is the same list.
func Coalesce(instructions []Instruction) []Instruction {
	res := make([]Instruction, 0, len(instructions))
	pending := []string{}

	flush := func() {
		if len(pending) == 0 {
			return
		}
		res = append(res, Instruction{Keyword: Run, Body: strings.Join(pending, RunDelimiter)})
		pending = pending[:0]
	}

	for _, instruction := range instructions {
		if instruction.IsRun() {
			pending = append(pending, instruction.Body)
			continue
		}
		flush()
		res = append(res, instruction)
	}
	flush()

	return res
}
