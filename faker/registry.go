package faker

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
)

// Wrapper records whether a setter accepts a single value or a collection.
type Wrapper uint8

const (
	WrapperNone Wrapper = iota
	WrapperCollection
)

func (w Wrapper) String() string {
	if w == WrapperCollection {
		return "collection"
	}
	return "scalar"
}

// Signature identifies a setter within one generation pass.
type Signature struct {
	// Type is the element type, without the collection wrapper.
	Type     string
	Property string
	Wrapper  Wrapper
}

// ParamType is the setter's parameter type.
func (s Signature) ParamType() string {
	if s.Wrapper == WrapperCollection {
		return "IEnumerable<" + s.Type + ">"
	}
	return s.Type
}

// String is the normalized deduplication key.
func (s Signature) String() string {
	return s.Wrapper.String() + ":" + strings.TrimSpace(s.Type) + ":" + strings.TrimSpace(s.Property)
}

// Extension is a generated With<Property> setter.
type Extension struct {
	Signature string
	Body      string
}

func newExtension(sig Signature, owner string) (Extension, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "extension", struct {
		Owner    string
		Property string
		Setter   string
		Type     string
		Param    string
	}{
		Owner:    owner,
		Property: sig.Property,
		Setter:   "With" + ident(sig.Property),
		Type:     sig.ParamType(),
		Param:    paramName(sig.Property),
	})
	if err != nil {
		return Extension{}, errors.Wrapf(err, "render setter for %s", sig.Property)
	}
	return Extension{Signature: sig.String(), Body: buf.String()}, nil
}

// Registry is an insertion-ordered set of Extensions keyed by signature. It
// belongs to a single generation pass and is not safe for concurrent use.
type Registry struct {
	seen  map[string]struct{}
	order []Extension
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Register adds ext unless an Extension with the same normalized signature is
// already present. It reports whether ext was inserted.
func (r *Registry) Register(ext Extension) bool {
	key := strings.TrimSpace(ext.Signature)
	if _, dup := r.seen[key]; dup {
		return false
	}
	r.seen[key] = struct{}{}
	r.order = append(r.order, ext)
	return true
}

// Extensions returns the registered setters in insertion order.
func (r *Registry) Extensions() []Extension {
	out := make([]Extension, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered setters.
func (r *Registry) Len() int {
	return len(r.order)
}
