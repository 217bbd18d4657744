// Package faker turns a C# model class into the source of a seeded Bogus
// faker for it.
//
// A generation pass resolves every property of the class to a Rule, records
// the setters the rules need in a Registry, and assembles the result. Passes
// share no state, so any number may run concurrently.
package faker

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/sdboyer/fakerjen/csharp"
)

// ErrInputNotFound marks a model file that does not exist at read time.
var ErrInputNotFound = errors.New("model file not found")

// UnitError is the failure of one model file.
type UnitError struct {
	Path string
	Err  error
}

func (e *UnitError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// pass holds the state of a single generation pass.
type pass struct {
	class     *csharp.Class
	primitive []Rule
	extended  []Rule
	registry  *Registry
}

func newPass(c *csharp.Class) *pass {
	return &pass{class: c, registry: NewRegistry()}
}

func (p *pass) resolve() error {
	for _, prop := range p.class.Properties {
		rule, err := Resolve(prop, p.class.Name, p.registry)
		if err != nil {
			return errors.Wrapf(err, "property %s", prop.Name)
		}
		switch rule.Tier {
		case TierPrimitive:
			p.primitive = append(p.primitive, rule)
		default:
			p.extended = append(p.extended, rule)
		}
	}
	return nil
}

func (p *pass) assembly(namespace string) Assembly {
	return Assembly{
		Class:      p.class,
		Namespace:  namespace,
		Primitive:  p.primitive,
		Extended:   p.extended,
		Extensions: p.registry.Extensions(),
	}
}

// Generate runs one generation pass over C# source and returns the faker
// source for its first class, to be declared in namespace.
//
// csharp.ErrNoClass is returned when src has no class. Any other failure,
// including a panic during the pass, is returned as an error.
func Generate(src []byte, namespace string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", errors.Newf("generation panicked: %v", r)
		}
	}()

	class, err := csharp.Extract(src)
	if err != nil {
		return "", err
	}

	p := newPass(class)
	if err := p.resolve(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := Assemble(&buf, p.assembly(namespace)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GenerateUnit reads the model file at path and generates its faker. It
// always returns text: on failure, the single-line placeholder describing
// the failure is returned alongside the error.
func GenerateUnit(path, namespace string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = errors.Mark(err, ErrInputNotFound)
		}
		return Placeholder(path, err), err
	}

	out, err := Generate(src, namespace)
	if err != nil {
		return Placeholder(path, err), err
	}
	return out, nil
}

// Placeholder is the single-line comment emitted in place of a faker when
// generation of the model file at path failed with err.
func Placeholder(path string, err error) string {
	switch {
	case errors.Is(err, ErrInputNotFound):
		return fmt.Sprintf("// Error: Model file not found at '%s'.", path)
	case errors.Is(err, csharp.ErrNoClass):
		return "// Error: Could not find class in the model file."
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return "// An error occurred: " + msg
}
