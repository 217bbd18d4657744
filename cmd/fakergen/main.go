// Command fakergen generates seeded Bogus fakers for the C# model classes in
// a directory.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}
