package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxArtifactSize is 10MB in bytes
const MaxArtifactSize = 10 * 1024 * 1024

// ArtifactError represents an artifact validation error
type ArtifactError struct {
	Code    string
	Message string
}

func (e *ArtifactError) Error() string {
	return e.Message
}

// ValidateArtifactName rejects names that could escape the archive
// directory or collide with path syntax.
func ValidateArtifactName(name string) error {
	if name == "" {
		return &ArtifactError{
			Code:    "INVALID_ARTIFACT_NAME",
			Message: "Artifact name is required",
		}
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return &ArtifactError{
			Code:    "INVALID_ARTIFACT_NAME",
			Message: fmt.Sprintf("Artifact name %q must not contain path separators", name),
		}
	}
	return nil
}

// SaveArtifact writes a generated artifact into dir, creating the directory
// if needed. Returns the full path of the written file.
func SaveArtifact(dir, name string, content []byte) (string, error) {
	if err := ValidateArtifactName(name); err != nil {
		return "", err
	}
	if len(content) > MaxArtifactSize {
		return "", &ArtifactError{
			Code:    "ARTIFACT_TOO_LARGE",
			Message: fmt.Sprintf("Artifact exceeds maximum allowed size of %d MB", MaxArtifactSize/(1024*1024)),
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	fullPath := filepath.Join(dir, name)
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to save artifact: %w", err)
	}
	return fullPath, nil
}
