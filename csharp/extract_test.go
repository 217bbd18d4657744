package csharp

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *Class
	}{
		{
			name: "block namespace",
			src: `using System;

namespace Shop.Models
{
    public class Person
    {
        public string Name { get; set; }
        public int? Age { get; set; }
    }
}`,
			want: &Class{
				Name:      "Person",
				Namespace: "Shop.Models",
				Properties: []Property{
					{Name: "Name", Type: "string"},
					{Name: "Age", Type: "int?"},
				},
			},
		},
		{
			name: "file scoped namespace",
			src: `namespace Shop.Models;

public class Order
{
    public Guid Id { get; init; }
    public ICollection<Product> Items { get; set; } = new List<Product>();
}`,
			want: &Class{
				Name:      "Order",
				Namespace: "Shop.Models",
				Properties: []Property{
					{Name: "Id", Type: "Guid"},
					{Name: "Items", Type: "ICollection<Product>"},
				},
			},
		},
		{
			name: "no namespace",
			src:  `class Tag { public string Label { get; set; } }`,
			want: &Class{
				Name:       "Tag",
				Namespace:  DefaultNamespace,
				Properties: []Property{{Name: "Label", Type: "string"}},
			},
		},
		{
			name: "skips non-property members",
			src: `namespace N {
public class Account : EntityBase, IAuditable
{
    private readonly int _counter = 0;
    public const string Prefix = "acc";
    public event EventHandler Changed;

    public Account(int counter) : base() { _counter = counter; }

    [Required]
    [MaxLength(20)]
    public string Owner { get; set; }

    public decimal Balance() { return 0m; }
    public T Get<T>() where T : class => default;
    public int this[int i] { get { return i; } }

    public class Nested { public int Inner { get; set; } }

    public bool IsOpen => _counter > 0;
    public DateTime Opened { get; private set; }
}
}`,
			want: &Class{
				Name:      "Account",
				Namespace: "N",
				Properties: []Property{
					{Name: "Owner", Type: "string"},
					{Name: "IsOpen", Type: "bool"},
					{Name: "Opened", Type: "DateTime"},
				},
			},
		},
		{
			name: "braces in comments and literals",
			src: `// class Fake {
/* class AlsoFake { */
public class Note
{
    public string Text { get; set; } = "}{";
    public string Pattern { get; set; } = @"\d{2}""}";
    public string Greeting => $"Hi {Text} }}";
    public char Brace { get; set; } = '}';
    public long Count { get; set; }
}`,
			want: &Class{
				Name:      "Note",
				Namespace: DefaultNamespace,
				Properties: []Property{
					{Name: "Text", Type: "string"},
					{Name: "Pattern", Type: "string"},
					{Name: "Greeting", Type: "string"},
					{Name: "Brace", Type: "char"},
					{Name: "Count", Type: "long"},
				},
			},
		},
		{
			name: "complex type spellings",
			src: `public sealed partial class Matrix<T> where T : struct
{
    public Dictionary<string, List<int>> Lookup { get; set; }
    public int[,] Cells { get; set; }
    public (int Row, int Col) Origin { get; set; }
    public System.Collections.Generic.IEnumerable<Address>? Addresses { get; set; }
    public global::System.Guid Key { get; set; }
}`,
			want: &Class{
				Name:      "Matrix",
				Namespace: DefaultNamespace,
				Properties: []Property{
					{Name: "Lookup", Type: "Dictionary<string, List<int>>"},
					{Name: "Cells", Type: "int[,]"},
					{Name: "Origin", Type: "(int Row, int Col)"},
					{Name: "Addresses", Type: "System.Collections.Generic.IEnumerable<Address>?"},
					{Name: "Key", Type: "global::System.Guid"},
				},
			},
		},
		{
			name: "first class wins",
			src: `namespace A {
interface IThing<T> where T : class { }
public record class Ignored(int X);
public class First { public int One { get; set; } }
public class Second { public int Two { get; set; } }
}`,
			want: &Class{
				Name:       "First",
				Namespace:  "A",
				Properties: []Property{{Name: "One", Type: "int"}},
			},
		},
		{
			name: "preprocessor and initializers",
			src: `#nullable enable
public class Settings
{
#if DEBUG
    public bool Debug { get; set; } = true;
#endif
    public List<string> Names { get; set; } = new() { "a", "b" };
    public Address Home { get; set; } = new Address { Street = "x" };
}`,
			want: &Class{
				Name:      "Settings",
				Namespace: DefaultNamespace,
				Properties: []Property{
					{Name: "Debug", Type: "bool"},
					{Name: "Names", Type: "List<string>"},
					{Name: "Home", Type: "Address"},
				},
			},
		},
		{
			name: "verbatim interpolated strings",
			src: `public class Paths
{
    public string Dir { get; } = @$"C:\{Root}\";
    public int Age { get; set; }
    public string Block { get; } = @$"line {X}
 };
";
    public string Other { get; } = $@"D:\{Root}\";
    public bool Done { get; set; }
}`,
			want: &Class{
				Name:      "Paths",
				Namespace: DefaultNamespace,
				Properties: []Property{
					{Name: "Dir", Type: "string"},
					{Name: "Age", Type: "int"},
					{Name: "Block", Type: "string"},
					{Name: "Other", Type: "string"},
					{Name: "Done", Type: "bool"},
				},
			},
		},
		{
			name: "verbatim identifiers",
			src: `public class Keywords
{
    public int @event { get; set; }
    public @Address @Home { get; set; }
    public string Name { get; set; }
}`,
			want: &Class{
				Name:      "Keywords",
				Namespace: DefaultNamespace,
				Properties: []Property{
					{Name: "@event", Type: "int"},
					{Name: "@Home", Type: "@Address"},
					{Name: "Name", Type: "string"},
				},
			},
		},
		{
			name: "explicit interface implementations",
			src: `public class Impl : IFoo, IBar<int>
{
    int IFoo.Count { get; set; }
    string IBar<int>.Label => "x";
    void IFoo.Reset() { }
    int IFoo.this[int i] => i;
    public bool Ready { get; set; }
}`,
			want: &Class{
				Name:      "Impl",
				Namespace: DefaultNamespace,
				Properties: []Property{
					{Name: "Count", Type: "int"},
					{Name: "Label", Type: "string"},
					{Name: "Ready", Type: "bool"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got, err := Extract([]byte(tt.src))
			is.NoErr(err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractNoClass(t *testing.T) {
	is := is.New(t)

	for _, src := range []string{
		``,
		`namespace Empty { }`,
		`public interface IFoo<T> where T : class { }`,
		`public record class Point(int X, int Y);`,
		`// public class Commented { }`,
	} {
		_, err := Extract([]byte(src))
		is.True(errors.Is(err, ErrNoClass)) // no class declaration
	}
}

func TestExtractUnterminated(t *testing.T) {
	is := is.New(t)

	_, err := Extract([]byte(`public class Broken { public int A { get; set; }`))
	is.True(errors.Is(err, ErrUnexpectedEOF))
	is.True(!errors.Is(err, ErrNoClass))
}

func TestExtractEmptyClass(t *testing.T) {
	is := is.New(t)

	c, err := Extract([]byte(`namespace N; public class Marker { }`))
	is.NoErr(err)
	is.Equal(c.Name, "Marker")
	is.Equal(c.Namespace, "N")
	is.Equal(len(c.Properties), 0)
}
