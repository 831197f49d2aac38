package classifier

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"stockanalytica/internal/config"
	"stockanalytica/internal/errors"
)

// createModelFile opens the model file for writing
var createModelFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Save writes the fitted forest as JSON, creating the parent directory.
// The model is only reported saved once the file is closed.
func (f *RandomForest) Save(path string) error {
	if !f.IsFitted() {
		return errors.NewAppValidationError("cannot save an unfitted forest")
	}
	if err := config.EnsureParentDir(path); err != nil {
		return errors.NewStorageError("failed to create model directory", err)
	}

	file, err := createModelFile(path)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create model file %s", path), err)
	}

	if err := json.NewEncoder(file).Encode(f); err != nil {
		file.Close()
		return errors.NewStorageError(fmt.Sprintf("failed to write model %s", path), err)
	}
	if err := file.Close(); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to close model file %s", path), err)
	}
	return nil
}

// Load reads a forest written by Save
func Load(path string) (*RandomForest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to read model %s", path), err)
	}

	var f RandomForest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to decode model %s", path), err)
	}
	if !f.IsFitted() {
		return nil, errors.NewParsingError(fmt.Sprintf("model %s holds no trees", path), nil)
	}
	return &f, nil
}
