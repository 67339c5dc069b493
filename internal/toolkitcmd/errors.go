package toolkitcmd

import (
	"errors"
	"fmt"
	"os"
)

var (
	errAborted      = errors.New("aborted")
	errFileNotFound = errors.New("file not found")
)

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s not found: %w", path, errFileNotFound)
		}
		return nil, err
	}
	return b, nil
}
