package main

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// inputReader reads lines on its own goroutine, since a blocked stdin read
// cannot be interrupted once started. Callers observe context cancellation
// through ReadLine instead of waiting on the terminal.
type inputReader struct {
	lines chan string
}

func newInputReader(r io.Reader) *inputReader {
	reader := &inputReader{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			reader.lines <- scanner.Text()
		}
		close(reader.lines)
	}()
	return reader
}

// ReadLine blocks until a line arrives, input ends, or ctx is cancelled.
// ok is false when no further input will come.
func (r *inputReader) ReadLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-r.lines:
		return line, ok
	}
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "q":
		return true
	}
	return false
}
