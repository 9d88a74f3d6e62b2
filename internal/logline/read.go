package logline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInputUnavailable is returned when the log source cannot be opened or read.
var ErrInputUnavailable = errors.New("log input unavailable")

// maxLineSize bounds how much of a single line is kept. debug.log lines are
// far shorter; anything longer is read through but flagged Truncated.
const maxLineSize = 1024 * 1024

// Read returns every line of r, numbered from 1. Lines of any length are
// consumed; only the first maxLineSize bytes of an overlong line are kept.
func Read(r io.Reader) ([]Line, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var lines []Line
	num := 0
	for {
		raw, truncated, err := readLine(br)
		if err == io.EOF && raw == "" && !truncated {
			return lines, nil
		}
		if err != nil && err != io.EOF {
			return lines, fmt.Errorf("reading line %d: %w", num+1, err)
		}

		num++
		lines = append(lines, Line{Raw: raw, Num: num, Truncated: truncated})

		if err == io.EOF {
			return lines, nil
		}
	}
}

// readLine returns the next line without its line ending, keeping at most
// maxLineSize bytes and discarding the rest.
func readLine(br *bufio.Reader) (string, bool, error) {
	var (
		buf       []byte
		truncated bool
	)
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			return string(buf), truncated, err
		}
		if !truncated {
			if room := maxLineSize - len(buf); len(frag) > room {
				buf = append(buf, frag[:room]...)
				truncated = true
			} else {
				buf = append(buf, frag...)
			}
		}
		if !isPrefix {
			return string(buf), truncated, nil
		}
	}
}

// ReadFile reads every line of the file at path. Failures to open or read
// the file wrap ErrInputUnavailable.
func ReadFile(path string) ([]Line, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputUnavailable, path)
	}

	f, err := os.Open(path) // #nosec G304 -- the path is user configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}
	defer f.Close()

	lines, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputUnavailable, path, err)
	}
	return lines, nil
}

// ClassifyFile reads path and classifies its lines.
func ClassifyFile(path string) (Buckets, error) {
	lines, err := ReadFile(path)
	if err != nil {
		return Buckets{}, err
	}
	return Classify(lines), nil
}
