package dockerfile

import (
	"strings"
	"unicode"
)

// Keyword is the directive an instruction starts with.
type Keyword int

const (
	Other Keyword = iota
	From
	Run
	Workdir
	Add
	Copy
	Cmd
	Arg
	Env
)

var keywordNames = map[Keyword]string{
	From:    "FROM",
	Run:     "RUN",
	Workdir: "WORKDIR",
	Add:     "ADD",
	Copy:    "COPY",
	Cmd:     "CMD",
	Arg:     "ARG",
	Env:     "ENV",
}

func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return "OTHER"
}

// Instruction is one entry of a Dockerfile. For Other, Body holds the whole line.
type Instruction struct {
	Keyword Keyword
	Body    string
}

func (i Instruction) String() string {
	if i.Keyword == Other {
		return i.Body
	}
	return i.Keyword.String() + " " + i.Body
}

func (i Instruction) IsRun() bool {
	return i.Keyword == Run
}

// Parse classifies a free-form Dockerfile line by its leading keyword. The keyword
// is matched case-insensitively and must be followed by whitespace, otherwise the
// line is kept verbatim as Other.
func Parse(line string) Instruction {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end <= 0 {
		return Raw(line)
	}
	word := strings.ToUpper(trimmed[:end])
	for k, name := range keywordNames {
		if name == word {
			return Instruction{Keyword: k, Body: strings.TrimLeftFunc(trimmed[end:], unicode.IsSpace)}
		}
	}
	return Raw(line)
}

// NewRun creates a RUN instruction. Line breaks in the command are escaped so the
// instruction stays a single Dockerfile block.
func NewRun(command string) Instruction {
	return Instruction{Keyword: Run, Body: EscapeNewlines(command)}
}

func NewWorkdir(path string) Instruction {
	return Instruction{Keyword: Workdir, Body: path}
}

func NewAdd(src, dest string) Instruction {
	return Instruction{Keyword: Add, Body: src + " " + dest}
}

func NewCopy(src, dest string) Instruction {
	return Instruction{Keyword: Copy, Body: src + " " + dest}
}

func NewCmd(body string) Instruction {
	return Instruction{Keyword: Cmd, Body: body}
}

func NewArg(name string) Instruction {
	return Instruction{Keyword: Arg, Body: name}
}

func NewEnv(name, value string) Instruction {
	return Instruction{Keyword: Env, Body: name + "=" + value}
}

func Raw(line string) Instruction {
	return Instruction{Keyword: Other, Body: line}
}

// EscapeNewlines normalises CRLF and CR to LF and turns every line break into a
// Dockerfile line continuation.
func EscapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\\\n")
}
