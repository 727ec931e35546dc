package gamedata

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

// loadJSON reads and unmarshals a JSON file from fsys.
func loadJSON[T any](fsys fs.FS, filename string) (T, error) {
	var result T

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("parse JSON from %s: %w", filename, err)
	}

	return result, nil
}
