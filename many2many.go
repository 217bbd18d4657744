package fakerjen

// ManyToMany is a Jenny that sees all inputs at once and produces any number
// of files.
type ManyToMany[Input any] interface {
	Jenny[Input]

	// Generate takes every Input and returns the Files generated from them.
	// A nil, nil return means there was nothing to generate.
	Generate([]Input) (Files, error)
}

var _ ManyToMany[string] = (*JennyList[string])(nil)
