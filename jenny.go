// Package fakerjen is a small framework for composing file generators.
//
// A generator is called a jenny. Each jenny works with exactly one type of
// input, indicated by its type parameter, and produces zero or more [File]s.
// Jennies are composed into a [JennyList], which runs them in order and
// gathers their output into an [FS] that can be written to, or verified
// against, the real filesystem.
package fakerjen

// A Jenny is a fakerjen code generator.
//
// Each Jenny works with exactly one type of input to its code generation, as
// indicated by type parameter. fakerjen follows a naming convention of
// naming these type parameters "Input" as an indicator for humans that a
// particular type parameter is used in this way.
//
// Go's generic system does not allow expression of the kinds of Jennies as
// part of the Jenny interface itself. A Jenny must also implement one of
// [OneToOne] or [ManyToMany] to be usable in a [JennyList].
type Jenny[Input any] interface {
	NamedJenny
}

// NamedJenny is the untyped portion of a Jenny: the ability to report a name
// for use in errors and in [File.From].
type NamedJenny interface {
	// JennyName returns the name of the generator.
	JennyName() string
}

// FileMapper takes a File and transforms it into a new File.
//
// FileMappers are used as postprocessors in a [JennyList].
type FileMapper func(File) (File, error)
