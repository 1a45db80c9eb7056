package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadMessage reads a text file, dropping one trailing newline.
func ReadMessage(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// WriteBits writes bits as a line of '0' and '1' characters.
func WriteBits(filename string, bits []bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, bit := range bits {
		if bit {
			w.WriteByte('1')
		} else {
			w.WriteByte('0')
		}
	}
	w.WriteByte('\n')
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadBits is the inverse of WriteBits.  Whitespace is ignored.
func ReadBits(filename string) ([]bool, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	bits := make([]bool, 0, len(data))
	for i, c := range data {
		switch c {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		case ' ', '\t', '\r', '\n':
		default:
			return nil, fmt.Errorf("invalid character %q at offset %d", c, i)
		}
	}
	return bits, nil
}
