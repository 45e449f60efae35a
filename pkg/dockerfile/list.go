package dockerfile

// List is an ordered set of instructions on top of a base image. The FROM line is
// kept apart from the instructions so it is always rendered first, exactly once.
type List struct {
	baseImage    string
	instructions []Instruction
}

func NewList(baseImage string) *List {
	return &List{baseImage: baseImage}
}

func (l *List) BaseImage() string {
	return l.baseImage
}

func (l *List) SetBaseImage(image string) {
	l.baseImage = image
}

func (l *List) Append(instructions ...Instruction) {
	l.instructions = append(l.instructions, instructions...)
}

// Prepend inserts instructions at the front, keeping their relative order.
func (l *List) Prepend(instructions ...Instruction) {
	merged := make([]Instruction, 0, len(instructions)+len(l.instructions))
	merged = append(merged, instructions...)
	l.instructions = append(merged, l.instructions...)
}

func (l *List) Len() int {
	return len(l.instructions)
}

// Instructions returns a copy of the instructions, without the FROM line.
func (l *List) Instructions() []Instruction {
	return append([]Instruction(nil), l.instructions...)
}

func (l *List) Clone() *List {
	return &List{baseImage: l.baseImage, instructions: l.Instructions()}
}
