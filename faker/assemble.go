package faker

import (
	"embed"
	"io"
	"text/template"

	"github.com/cockroachdb/errors"

	"github.com/sdboyer/fakerjen/csharp"
)

// Seed is the fixed seed every Primitive generator ends with, so that
// generated fixtures are reproducible across runs.
const Seed = 20241112

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))

// Assembly is everything the assembler emits for one model class.
type Assembly struct {
	Class *csharp.Class
	// Namespace is the namespace the generated faker is declared in.
	Namespace  string
	Primitive  []Rule
	Extended   []Rule
	Extensions []Extension
}

// FakerName is the generated class name.
func (a Assembly) FakerName() string {
	return FakerName(a.Class.Name)
}

// Seed is the literal seed of the Primitive generator.
func (a Assembly) Seed() int {
	return Seed
}

// Assemble writes the generated source for a: the Primitive generator with
// its primitive rules and fixed seed, the Extended generator layering the
// extended rules over Primitive, then every setter in order. It does no
// inference of its own.
func Assemble(w io.Writer, a Assembly) error {
	if a.Class == nil {
		return errors.New("assemble: nil class")
	}
	if err := templates.ExecuteTemplate(w, "faker", a); err != nil {
		return errors.Wrapf(err, "assemble %s", a.FakerName())
	}
	return nil
}
