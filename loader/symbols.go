package loader

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// LoadSymbols parses an objdump-style disassembly listing and returns
// an address-to-name map for trace annotation. Only lines of the form
// "<hex address> <name>:" are recognized; everything else, including
// the instruction bytes and mnemonics objdump prints alongside them,
// is ignored.
func LoadSymbols(path string) (map[uint64]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	symbols := make(map[uint64]string)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) != 2 {
			continue
		}

		addr, err := strconv.ParseUint(parts[0], 16, 64)
		if err != nil {
			continue
		}

		if !strings.HasPrefix(parts[1], "<") || !strings.HasSuffix(parts[1], ">:") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(parts[1], "<"), ">:")

		symbols[addr] = name
	}

	return symbols, scanner.Err()
}
