// Package loader reads the flat binary images this emulator executes
// and the optional symbol maps used to annotate trace output.
package loader

import "os"

// LoadImage reads path in full and returns its bytes unchanged. The
// image has no header: execution starts at offset 0, and the file's
// length sets the initial boundary between the image region and the
// heap.
func LoadImage(path string) ([]byte, error) {
	return os.ReadFile(path)
}
