package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path"
)

// MarshalArtifact marshals with two-space indentation, the format
// the front-end artifacts have always been published in.
func MarshalArtifact(data interface{}) ([]byte, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}

// WriteJsonBytes writes an already-marshaled artifact, creating
// parent directories as needed.
func WriteJsonBytes(filePath string, payload []byte) error {
	if mkdirErr := os.MkdirAll(path.Dir(filePath), 0755); mkdirErr != nil {
		return mkdirErr
	}
	return os.WriteFile(filePath, payload, 0644)
}

// WriteJsonFile marshals data and writes it in one step.
func WriteJsonFile(filePath string, data interface{}) error {
	payload, err := MarshalArtifact(data)
	if err != nil {
		return err
	}
	return WriteJsonBytes(filePath, payload)
}

func Sha256File(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, copyErr := io.Copy(h, f); copyErr != nil {
		return "", copyErr
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
