package jurisdiction

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/UnknownOlympus/themis/internal/models"
)

const maxAddressLine = 1 << 20

// ReadAddressesFile reads the address list stored at path.
func ReadAddressesFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: address file %s", models.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open address file: %w", models.ErrIO, err)
	}
	defer file.Close()

	return ReadAddresses(file)
}

// ReadAddresses returns one trimmed address per non-blank line, in file order.
func ReadAddresses(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(stripBOM(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxAddressLine)

	addresses := []string{}
	for scanner.Scan() {
		if address := strings.TrimSpace(scanner.Text()); address != "" {
			addresses = append(addresses, address)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read addresses: %w", models.ErrIO, err)
	}

	return addresses, nil
}
