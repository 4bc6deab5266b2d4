package main

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// runWithStdio runs fn with stdin fed from input and returns what fn
// printed to stdout.
func runWithStdio(t *testing.T, input string, fn func()) string {
	t.Helper()

	inR, inW, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdin pipe: %v", err)
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdout pipe: %v", err)
	}

	oldStdin, oldStdout := os.Stdin, os.Stdout
	os.Stdin, os.Stdout = inR, outW
	defer func() {
		os.Stdin, os.Stdout = oldStdin, oldStdout
	}()

	go func() {
		io.WriteString(inW, input)
		inW.Close()
	}()

	captured := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, outR)
		captured <- buf.String()
	}()

	fn()
	outW.Close()
	inR.Close()
	return <-captured
}
