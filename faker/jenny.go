package faker

import (
	"github.com/sdboyer/fakerjen"
)

// DefaultExt is the extension of generated files.
const DefaultExt = ".cs"

// Unit is one model file to generate a faker for.
type Unit struct {
	Path string
}

// Jenny generates <Model>Faker<Ext> for each model file.
//
// A model file that cannot be generated still yields a File holding the
// placeholder comment, returned together with a *UnitError.
type Jenny struct {
	// Namespace is the namespace of the generated fakers.
	Namespace string
	// Ext is the generated file extension. Empty means DefaultExt.
	Ext string
}

var _ fakerjen.OneToOne[Unit] = (*Jenny)(nil)

func (j *Jenny) JennyName() string {
	return "FakerJenny"
}

func (j *Jenny) Generate(u Unit) (*fakerjen.File, error) {
	ext := j.Ext
	if ext == "" {
		ext = DefaultExt
	}

	text, err := GenerateUnit(u.Path, j.Namespace)
	f := &fakerjen.File{
		RelativePath: OutputName(u.Path, ext),
		Data:         []byte(text),
	}
	if err != nil {
		return f, &UnitError{Path: u.Path, Err: err}
	}
	return f, nil
}
