// cmd contains shared helpers for the command line binaries.
package cmd

// GetOrPanic unwraps a (value, error) pair and panics on error.
func GetOrPanic[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}

// OrPanic panics if the error is set.
func OrPanic(err error) {
	if err != nil {
		panic(err)
	}
}
