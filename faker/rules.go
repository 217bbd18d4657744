package faker

import (
	"fmt"
	"strings"

	"github.com/sdboyer/fakerjen/csharp"
)

// Tier selects the generator section that receives a Rule.
type Tier uint8

const (
	// TierPrimitive rules have no dependency on other types' generators and
	// are safe for reuse by them.
	TierPrimitive Tier = iota + 1
	// TierExtended rules may call into other generators.
	TierExtended
)

func (t Tier) String() string {
	switch t {
	case TierPrimitive:
		return "primitive"
	case TierExtended:
		return "extended"
	}
	return fmt.Sprintf("Tier(%d)", uint8(t))
}

// Repetition bounds for collection-typed properties, inclusive.
const (
	MinRepeat = 1
	MaxRepeat = 3
)

// collectionPrefixes are the wrapper spellings recognised as a collection of
// a single element type.
var collectionPrefixes = []string{"ICollection<", "IEnumerable<"}

// Primitive is the closed set of scalar types with a canned generation
// expression.
type Primitive uint8

const (
	NotPrimitive Primitive = iota
	Int
	Long
	String
	DateTime
	Bool
	Double
	Guid
	Decimal
)

var primitives = [...]struct {
	spelling   string
	expression string
}{
	Int:      {"int", "f.Random.Int()"},
	Long:     {"long", "f.Random.Long()"},
	String:   {"string", "f.Lorem.Word()"},
	DateTime: {"DateTime", "f.Date.Past()"},
	Bool:     {"bool", "f.Random.Bool()"},
	Double:   {"double", "f.Random.Double()"},
	Guid:     {"Guid", "f.Random.Guid()"},
	Decimal:  {"decimal", "f.Random.Decimal()"},
}

// spellings maps every accepted spelling, including the nullable "T?" form,
// to its Primitive.
var spellings = func() map[string]Primitive {
	m := make(map[string]Primitive, 2*len(primitives))
	for p := Int; p <= Decimal; p++ {
		m[primitives[p].spelling] = p
		m[primitives[p].spelling+"?"] = p
	}
	return m
}()

// LookupPrimitive matches a declared type spelling exactly against the
// primitive table.
func LookupPrimitive(spelling string) (Primitive, bool) {
	p, ok := spellings[spelling]
	return p, ok
}

// Expression returns the canned generation expression for p, or "" for
// NotPrimitive.
func (p Primitive) Expression() string {
	if p == NotPrimitive || int(p) >= len(primitives) {
		return ""
	}
	return primitives[p].expression
}

func (p Primitive) String() string {
	if p == NotPrimitive || int(p) >= len(primitives) {
		return "NotPrimitive"
	}
	return primitives[p].spelling
}

// Rule is how one property gets its synthetic value.
type Rule struct {
	// Property is the name of the property the rule populates.
	Property string
	// Expression yields one value when used as the body of a RuleFor lambda
	// taking (f, o).
	Expression string
	Tier       Tier
}

// Resolve maps a property to its generation rule. owner is the name of the
// class declaring the property.
//
// Properties of a type outside the primitive table delegate to that type's
// own Primitive generator, and register a With<Property> setter for the
// owner in reg. reg may be nil, in which case no setter is recorded.
func Resolve(prop csharp.Property, owner string, reg *Registry) (Rule, error) {
	if elem, ok := collectionElement(prop.Type); ok {
		expr, _, err := resolveScalar(elem, prop.Name, owner, WrapperCollection, reg)
		if err != nil {
			return Rule{}, err
		}
		return Rule{
			Property:   prop.Name,
			Expression: fmt.Sprintf("f.Make(f.Random.Int(%d, %d), () => %s)", MinRepeat, MaxRepeat, expr),
			Tier:       TierExtended,
		}, nil
	}

	expr, tier, err := resolveScalar(prop.Type, prop.Name, owner, WrapperNone, reg)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Property: prop.Name, Expression: expr, Tier: tier}, nil
}

func resolveScalar(typ, property, owner string, wrapper Wrapper, reg *Registry) (string, Tier, error) {
	if p, ok := LookupPrimitive(typ); ok {
		return p.Expression(), TierPrimitive, nil
	}

	if reg != nil {
		ext, err := newExtension(Signature{Type: typ, Property: property, Wrapper: wrapper}, owner)
		if err != nil {
			return "", 0, err
		}
		reg.Register(ext)
	}
	return fmt.Sprintf("%sFaker.Primitive().With%s(o).Generate()", ident(typ), ident(owner)), TierExtended, nil
}

// collectionElement returns the element type of a recognised collection
// spelling: the text between the first '<' and the last '>'.
func collectionElement(typ string) (string, bool) {
	for _, prefix := range collectionPrefixes {
		if !strings.HasPrefix(typ, prefix) {
			continue
		}
		start := len(prefix)
		end := strings.LastIndexByte(typ, '>')
		if end < start {
			return "", false
		}
		return typ[start:end], true
	}
	return "", false
}
