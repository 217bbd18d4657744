package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/matryer/is"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/sdboyer/fakerjen/internal/config"
	"github.com/sdboyer/fakerjen/internal/discover"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

const personModel = `namespace Shop.Models
{
    public class Person
    {
        public string Name { get; set; }
        public Address Home { get; set; }
    }
}
`

func models(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testConfig(in, out string) *config.Config {
	return &config.Config{
		InputDir:    in,
		Namespace:   "Shop.Tests.Fakers",
		OutputDir:   out,
		Pattern:     "*.cs",
		Ext:         ".cs",
		LineEndings: "lf",
		Workers:     2,
	}
}

func TestGenerate(t *testing.T) {
	is := is.New(t)
	in := models(t, map[string]string{
		"Person.cs": personModel,
		"Color.cs":  "public enum Color { Red, Green }",
		"notes.txt": "ignored",
	})
	outDir := filepath.Join(t.TempDir(), "Fakers")
	var out bytes.Buffer

	res, err := generate(context.Background(), testConfig(in, outDir), zap.NewNop(), &out)
	is.NoErr(err)
	is.Equal(len(res.Outcomes), 2)

	person, err := os.ReadFile(filepath.Join(outDir, "PersonFaker.cs"))
	is.NoErr(err)
	is.True(strings.HasPrefix(string(person), "using System.Collections.Generic;\nusing Bogus;\nusing Shop.Models;\n"))
	is.True(strings.Contains(string(person), "namespace Shop.Tests.Fakers\n"))
	is.True(strings.Contains(string(person), "AddressFaker.Primitive().WithPerson(o).Generate()"))

	color, err := os.ReadFile(filepath.Join(outDir, "ColorFaker.cs"))
	is.NoErr(err)
	is.Equal(string(color), "// Error: Could not find class in the model file.")

	console := out.String()
	is.True(strings.Contains(console, "Faker code generated successfully for 'Person.cs' and saved to: "+filepath.Join(outDir, "PersonFaker.cs")))
	is.True(strings.Contains(console, "An error occurred while processing 'Color.cs': could not find class in the model file"))
	is.True(strings.HasSuffix(console, "Faker code generation completed for 2 model file(s).\n"))
}

func TestGenerateRecursive(t *testing.T) {
	is := is.New(t)
	in := models(t, map[string]string{
		"Person.cs":        personModel,
		"Sales/Order.cs":   "class Order { public int Id { get; set; } }",
		"Legacy/Person.cs": "class Person { }",
	})
	outDir := t.TempDir()

	cfg := testConfig(in, outDir)
	res, err := generate(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	is.NoErr(err)
	is.Equal(len(res.Outcomes), 1)

	cfg.Recursive = true
	var out bytes.Buffer
	res, err = generate(context.Background(), cfg, zap.NewNop(), &out)
	is.NoErr(err)
	is.Equal(len(res.Outcomes), 3)

	_, err = os.Stat(filepath.Join(outDir, "OrderFaker.cs"))
	is.NoErr(err)

	// Legacy/Person.cs sorts first and owns PersonFaker.cs
	is.True(strings.Contains(out.String(), "An error occurred while processing 'Person.cs': output PersonFaker.cs is already generated from "+filepath.Join(in, "Legacy", "Person.cs")))
	is.True(strings.Contains(out.String(), "Faker code generation completed for 3 model file(s)."))
}

func TestGenerateCRLF(t *testing.T) {
	is := is.New(t)
	in := models(t, map[string]string{"Person.cs": personModel})
	outDir := t.TempDir()
	cfg := testConfig(in, outDir)
	cfg.LineEndings = "crlf"

	_, err := generate(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	is.NoErr(err)

	data, err := os.ReadFile(filepath.Join(outDir, "PersonFaker.cs"))
	is.NoErr(err)
	is.True(strings.HasPrefix(string(data), "using System.Collections.Generic;\r\nusing Bogus;\r\n"))
	is.Equal(strings.Count(string(data), "\n"), strings.Count(string(data), "\r\n"))
}

func TestGenerateInvalidDir(t *testing.T) {
	is := is.New(t)
	outDir := t.TempDir()
	cfg := testConfig(filepath.Join(outDir, "missing"), filepath.Join(outDir, "out"))

	_, err := generate(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	is.True(errors.Is(err, discover.ErrNotDir))

	// the output directory is created before the input is inspected
	_, err = os.Stat(cfg.OutputDir)
	is.NoErr(err)
}

func TestCheck(t *testing.T) {
	is := is.New(t)
	in := models(t, map[string]string{"Person.cs": personModel})
	outDir := t.TempDir()
	cfg := testConfig(in, outDir)

	err := check(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	is.True(err != nil) // nothing generated yet

	_, err = generate(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	is.NoErr(err)

	var out bytes.Buffer
	is.NoErr(check(context.Background(), cfg, zap.NewNop(), &out))
	is.True(strings.Contains(out.String(), "Generated fakers are up to date for 1 model file(s)."))

	path := filepath.Join(outDir, "PersonFaker.cs")
	is.NoErr(os.WriteFile(path, []byte("// edited\n"), 0o644))
	err = check(context.Background(), cfg, zap.NewNop(), &bytes.Buffer{})
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "would have changed"))
	is.Equal(errors.GetAllHints(err), []string{"run fakergen with the same arguments to update them"})
}

func TestRootCmd(t *testing.T) {
	in := models(t, map[string]string{"Person.cs": personModel})

	t.Run("generate", func(t *testing.T) {
		is := is.New(t)
		outDir := t.TempDir()
		var out, logs bytes.Buffer

		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&logs)
		cmd.SetArgs([]string{in, "Shop.Tests.Fakers", outDir, "-r", "--ext", "g.cs", "-v"})
		is.NoErr(cmd.Execute())

		_, err := os.Stat(filepath.Join(outDir, "PersonFaker.g.cs"))
		is.NoErr(err)
		is.True(strings.Contains(out.String(), "Faker code generation completed for 1 model file(s)."))
		is.True(strings.Contains(logs.String(), "generated faker"))
	})

	t.Run("check", func(t *testing.T) {
		is := is.New(t)
		outDir := t.TempDir()

		gen := newRootCmd()
		gen.SetOut(&bytes.Buffer{})
		gen.SetArgs([]string{in, "Shop.Tests.Fakers", outDir})
		is.NoErr(gen.Execute())

		chk := newRootCmd()
		chk.SetOut(&bytes.Buffer{})
		chk.SetArgs([]string{"check", in, "Shop.Tests.Fakers", outDir})
		is.NoErr(chk.Execute())
	})

	t.Run("usage", func(t *testing.T) {
		is := is.New(t)
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{in})
		is.NoErr(cmd.Execute()) // failures never change the exit status
		is.True(strings.Contains(out.String(), "missing output namespace, output directory"))
		is.True(strings.Contains(out.String(), usage))

		out.Reset()
		cmd = newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"a", "b", "c", "d"})
		is.NoErr(cmd.Execute())
		is.Equal(out.String(), usage+"\n")
	})

	t.Run("invalid input dir", func(t *testing.T) {
		is := is.New(t)
		var out bytes.Buffer
		missing := filepath.Join(t.TempDir(), "missing")
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{missing, "Shop.Tests.Fakers", t.TempDir()})
		is.NoErr(cmd.Execute())
		is.True(strings.Contains(out.String(), "input path '"+missing+"' is not a valid directory"))
	})

	t.Run("check drift", func(t *testing.T) {
		is := is.New(t)
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"check", in, "Shop.Tests.Fakers", t.TempDir()})
		is.True(cmd.Execute() != nil)
	})
}
