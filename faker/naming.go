package faker

import (
	"path/filepath"
	"strings"
	"unicode"
)

// keywords are C# reserved words that need an @ prefix to be used as an
// identifier.
var keywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true, "default": true,
	"delegate": true, "do": true, "double": true, "else": true, "enum": true,
	"event": true, "explicit": true, "extern": true, "false": true, "finally": true,
	"fixed": true, "float": true, "for": true, "foreach": true, "goto": true,
	"if": true, "implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true, "namespace": true,
	"new": true, "null": true, "object": true, "operator": true, "out": true,
	"override": true, "params": true, "private": true, "protected": true, "public": true,
	"readonly": true, "ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true, "string": true,
	"struct": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "uint": true, "ulong": true, "unchecked": true,
	"unsafe": true, "ushort": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true,
}

// camelCase lowers the leading upper-case run of name. In a run followed by
// a lower-case letter, the last capital starts the next word and is kept:
// "URLValue" becomes "urlValue", "ID" becomes "id".
func camelCase(name string) string {
	r := []rune(name)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return name
	}
	for i := range r {
		if i == 1 && !unicode.IsUpper(r[i]) {
			break
		}
		if i > 0 && i+1 < len(r) && !unicode.IsUpper(r[i+1]) {
			if r[i+1] == ' ' {
				r[i] = unicode.ToLower(r[i])
			}
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// ident is name without the @ of a verbatim identifier, for use where name
// is only part of a larger identifier.
func ident(name string) string {
	return strings.TrimPrefix(name, "@")
}

// paramName is the setter parameter name for a property.
func paramName(property string) string {
	p := camelCase(ident(property))
	if keywords[p] {
		return "@" + p
	}
	return p
}

// FakerName is the generated type name for a model class.
func FakerName(model string) string {
	return ident(model) + "Faker"
}

// OutputName is the generated file name for a model file: the model file's
// base name without extension, suffixed with "Faker" and ext.
func OutputName(modelPath, ext string) string {
	base := filepath.Base(modelPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "Faker" + ext
}
