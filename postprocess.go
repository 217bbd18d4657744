package fakerjen

import (
	"bytes"
)

// NormalizeLineEndings returns a FileMapper that rewrites every line ending
// in a File to eol. Existing "\r\n" pairs are treated as a single ending.
func NormalizeLineEndings(eol string) FileMapper {
	return func(f File) (File, error) {
		data := bytes.ReplaceAll(f.Data, []byte("\r\n"), []byte("\n"))
		if eol != "\n" {
			data = bytes.ReplaceAll(data, []byte("\n"), []byte(eol))
		}
		f.Data = data
		return f, nil
	}
}
