package fakerjen

// OneToOne is a Jenny that accepts one Input and produces at most one File.
type OneToOne[Input any] interface {
	Jenny[Input]

	// Generate takes an Input and generates one [File], or none (nil) if the
	// jenny had nothing to do for it.
	//
	// A jenny may return a File together with a non-nil error when the File
	// carries a diagnostic in place of generated code. JennyList keeps such
	// Files and still reports the error.
	Generate(Input) (*File, error)
}

type o2oAdapt[Outer, Inner any] struct {
	conv func(Outer) Inner
	j    OneToOne[Inner]
}

func (a *o2oAdapt[Outer, Inner]) JennyName() string {
	return a.j.JennyName()
}

func (a *o2oAdapt[Outer, Inner]) Generate(in Outer) (*File, error) {
	return a.j.Generate(a.conv(in))
}

// AdaptOneToOne makes a OneToOne jenny over Inner usable with Outer inputs,
// converting each input with conv. The adapted jenny keeps the name of j.
func AdaptOneToOne[Outer, Inner any](j OneToOne[Inner], conv func(Outer) Inner) OneToOne[Outer] {
	return &o2oAdapt[Outer, Inner]{
		conv: conv,
		j:    j,
	}
}
