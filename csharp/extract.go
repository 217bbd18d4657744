// Package csharp extracts the structural model of a C# class from source text.
//
// It is not a full C# parser. It tokenizes the source and recognises just
// enough of the declaration grammar to find the first class, the first
// namespace, and the class's property declarations in order.
package csharp

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultNamespace is used when the source declares no namespace.
const DefaultNamespace = "GeneratedNamespace"

var (
	// ErrNoClass is returned by Extract when the source has no class declaration.
	ErrNoClass = errors.New("could not find class in the model file")
	// ErrUnexpectedEOF is returned when a class body is not terminated.
	ErrUnexpectedEOF = errors.New("unexpected end of source")
)

// Class is the structural model of a single C# class declaration.
type Class struct {
	// Name is the class identifier, without type parameters.
	Name string
	// Namespace is the first namespace declared in the source, or
	// DefaultNamespace.
	Namespace string
	// Properties are the class's own property declarations, in source order.
	Properties []Property
}

// Property is a single property declaration.
type Property struct {
	Name string
	// Type is the declared type exactly as spelled in the source, e.g.
	// "int?" or "ICollection<Product>".
	Type string
}

// modifiers may precede the type of a member declaration.
var modifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "virtual": true, "override": true, "abstract": true,
	"sealed": true, "new": true, "required": true, "readonly": true,
	"partial": true, "extern": true, "unsafe": true, "volatile": true,
	"const": true, "async": true, "fixed": true, "file": true,
}

// nonProperty keywords introduce member declarations that are never
// properties, even when followed by a brace block.
var nonProperty = map[string]bool{
	"class": true, "struct": true, "interface": true, "enum": true,
	"record": true, "delegate": true, "event": true, "operator": true,
	"implicit": true, "explicit": true,
}

// Extract parses src and returns the model of its first class declaration.
// ErrNoClass is returned when there is none.
func Extract(src []byte) (*Class, error) {
	p := &parser{src: src, toks: tokenize(src)}
	return p.extract()
}

type parser struct {
	src  []byte
	toks []token
}

func (p *parser) at(i int) token {
	if i < len(p.toks) {
		return p.toks[i]
	}
	return token{kind: tokEOF, start: len(p.src), end: len(p.src)}
}

func (p *parser) extract() (*Class, error) {
	ci := p.firstClass()
	if ci < 0 {
		return nil, ErrNoClass
	}

	c := &Class{
		Name:      p.at(ci + 1).text,
		Namespace: p.firstNamespace(),
	}

	body := p.classBody(ci + 2)
	if p.at(body).kind == tokEOF {
		return nil, errors.Wrapf(ErrUnexpectedEOF, "class %s has no body", c.Name)
	}
	if p.at(body).is(";") {
		return c, nil
	}

	props, err := p.members(body + 1)
	if err != nil {
		return nil, errors.Wrapf(err, "class %s", c.Name)
	}
	c.Properties = props
	return c, nil
}

// firstClass returns the index of the first class keyword that starts a
// class declaration, or -1.
func (p *parser) firstClass() int {
	for i, t := range p.toks {
		if !t.keyword("class") || p.at(i+1).kind != tokIdent {
			continue
		}
		if i > 0 {
			prev := p.toks[i-1]
			// where T : class, record class
			if prev.is(":") || prev.is(",") || prev.keyword("record") {
				continue
			}
		}
		return i
	}
	return -1
}

func (p *parser) firstNamespace() string {
	for i, t := range p.toks {
		if !t.keyword("namespace") {
			continue
		}
		var parts []string
		for j := i + 1; p.at(j).kind == tokIdent; j += 2 {
			parts = append(parts, p.at(j).text)
			if !p.at(j+1).is(".") {
				break
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ".")
		}
	}
	return DefaultNamespace
}

// classBody skips type parameters, primary constructor parameters, the base
// list and constraint clauses, returning the index of the opening brace (or
// the terminating semicolon of a body-less declaration).
func (p *parser) classBody(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		t := p.toks[i]
		switch {
		case t.is("("):
			depth++
		case t.is(")"):
			depth--
		case depth == 0 && (t.is("{") || t.is(";")):
			return i
		}
	}
	return i
}

func (p *parser) members(i int) ([]Property, error) {
	var props []Property
	for {
		t := p.at(i)
		switch {
		case t.kind == tokEOF:
			return nil, ErrUnexpectedEOF
		case t.is("}"):
			return props, nil
		case t.is(";"):
			i++
		case t.is("["):
			// attribute section
			i = p.skipBalanced(i, "[", "]")
		default:
			prop, next, ok := p.member(i)
			if ok {
				props = append(props, prop)
			}
			if next <= i {
				next = i + 1
			}
			i = next
		}
	}
}

// member reads one member declaration starting at i. It reports the property
// when the member is one, and always returns the index just past the member.
func (p *parser) member(i int) (Property, int, bool) {
	start := i
	for p.at(i).bare() && modifiers[p.at(i).text] {
		i++
	}
	if p.at(i).bare() && nonProperty[p.at(i).text] {
		return Property{}, p.skipMember(start), false
	}

	typeStart := i
	typeEnd, ok := p.skipType(i)
	if !ok {
		return Property{}, p.skipMember(start), false
	}

	name := p.at(typeEnd)
	if name.kind != tokIdent || name.keyword("this") {
		return Property{}, p.skipMember(start), false
	}
	body := typeEnd + 1
	if p.at(body).is(".") || p.at(body).is("<") {
		// explicit interface implementation: IFoo.Bar or IFoo<T>.Bar
		nameEnd, ok := p.skipType(typeEnd)
		if !ok || !p.at(nameEnd-2).is(".") || p.at(nameEnd-1).kind != tokIdent || p.at(nameEnd-1).keyword("this") {
			return Property{}, p.skipMember(start), false
		}
		name, body = p.at(nameEnd-1), nameEnd
	}

	var end int
	switch next := p.at(body); {
	case next.is("{"):
		end = p.skipBalanced(body, "{", "}")
		if p.at(end).is("=") {
			end = p.skipStatement(end)
		}
	case next.is("=>"):
		end = p.skipStatement(body)
	default:
		return Property{}, p.skipMember(start), false
	}

	return Property{
		Name: name.text,
		Type: string(p.src[p.toks[typeStart].start:p.toks[typeEnd-1].end]),
	}, end, true
}

// skipType advances over a type starting at i: a tuple, or a possibly
// qualified and generic name, followed by nullable, pointer and array
// suffixes.
func (p *parser) skipType(i int) (int, bool) {
	if p.at(i).keyword("ref") {
		i++
		if p.at(i).keyword("readonly") {
			i++
		}
	}

	t := p.at(i)
	switch {
	case t.is("("):
		i = p.skipBalanced(i, "(", ")")
	case t.kind == tokIdent:
		i++
		for {
			if p.at(i).is("<") {
				i = p.skipBalanced(i, "<", ">")
			}
			if (p.at(i).is(".") || p.at(i).is("::")) && p.at(i+1).kind == tokIdent {
				i += 2
				continue
			}
			break
		}
	default:
		return i, false
	}

	for {
		switch t := p.at(i); {
		case t.is("?"), t.is("*"):
			i++
		case t.is("[") && p.isRankSpecifier(i):
			i = p.skipBalanced(i, "[", "]")
		default:
			return i, true
		}
	}
}

func (p *parser) isRankSpecifier(i int) bool {
	for i++; i < len(p.toks); i++ {
		switch t := p.toks[i]; {
		case t.is("]"):
			return true
		case !t.is(","):
			return false
		}
	}
	return false
}

// skipBalanced expects an open token at i and returns the index just past
// its matching close token.
func (p *parser) skipBalanced(i int, open, close string) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		switch t := p.toks[i]; {
		case t.is(open):
			depth++
		case t.is(close):
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

// skipStatement returns the index just past the next semicolon that is not
// nested in brackets.
func (p *parser) skipStatement(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		t := p.toks[i]
		switch {
		case t.is("(") || t.is("[") || t.is("{"):
			depth++
		case t.is(")") || t.is("]") || t.is("}"):
			if depth == 0 {
				return i
			}
			depth--
		case t.is(";") && depth == 0:
			return i + 1
		}
	}
	return i
}

// skipMember advances over a member that is not a property. A member ends at
// a top-level semicolon, or after its brace-delimited body unless an
// initializer or expression body is in progress.
func (p *parser) skipMember(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		t := p.toks[i]
		switch {
		case depth == 0 && (t.is("=") || t.is("=>")):
			return p.skipStatement(i)
		case depth == 0 && t.is("{"):
			end := p.skipBalanced(i, "{", "}")
			if p.at(end).is(";") {
				end++
			}
			return end
		case depth == 0 && (t.is(";")):
			return i + 1
		case depth == 0 && t.is("}"):
			return i
		case t.is("(") || t.is("["):
			depth++
		case t.is(")") || t.is("]"):
			depth--
		}
	}
	return i
}
