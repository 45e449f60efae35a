package dockerfile

import "strings"

// Render produces the Dockerfile lines for a list: the FROM line first, then every
// instruction in order. subst is applied to the base image and to each rendered
// instruction; pass nil to render without substitution.
func Render(l *List, coalesce bool, subst func(string) string) []string {
	if subst == nil {
		subst = func(s string) string { return s }
	}

	instructions := l.Instructions()
	if coalesce {
		instructions = Coalesce(instructions)
	}

	lines := make([]string, 0, len(instructions)+1)
	lines = append(lines, "FROM "+subst(l.BaseImage()))
	for _, instruction := range instructions {
		lines = append(lines, subst(instruction.String()))
	}
	return lines
}

func Join(lines []string) string {
	return strings.Join(lines, "\n")
}
