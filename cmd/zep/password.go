package main

import (
	"bufio"
	"fmt"
	"os"
)

// readPassword returns the password from ZEP_PASSWORD if set, falling
// back to a single line read from stdin. It does not suppress terminal
// echo; callers that need that should set ZEP_PASSWORD instead of
// typing at the prompt.
func readPassword() ([]byte, error) {
	if pw := os.Getenv("ZEP_PASSWORD"); pw != "" {
		return []byte(pw), nil
	}

	fmt.Fprint(os.Stderr, "password: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("zep: reading password: %w", err)
		}
		return nil, fmt.Errorf("zep: no password supplied")
	}
	return scanner.Bytes(), nil
}
