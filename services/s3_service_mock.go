package services

import (
	"fmt"
	"sync"
)

// MockS3Service is a mock implementation of S3Service for testing
type MockS3Service struct {
	artifacts map[string][]byte // map of S3 key to artifact content
	mu        sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		artifacts: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// UploadArtifact simulates uploading an artifact to S3
func (m *MockS3Service) UploadArtifact(key string, content []byte, contentType string) error {
	stored := make([]byte, len(content))
	copy(stored, content)

	m.mu.Lock()
	m.artifacts[key] = stored
	m.mu.Unlock()

	return nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.artifacts[s3Key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("artifact not found in mock S3: %s", s3Key)
	}

	return fmt.Sprintf("https://test-bucket.s3.eu-west-2.amazonaws.com/%s?mock=true", s3Key), nil
}

// DeleteArtifact simulates deleting an artifact from S3
func (m *MockS3Service) DeleteArtifact(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.artifacts, s3Key)
	m.mu.Unlock()

	return nil
}

// GetArtifact returns a stored artifact's content (for testing assertions)
func (m *MockS3Service) GetArtifact(s3Key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, exists := m.artifacts[s3Key]
	return content, exists
}

// ArtifactExists checks if an artifact exists in mock storage
func (m *MockS3Service) ArtifactExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.artifacts[s3Key]
	return exists
}

// Clear removes all artifacts from mock storage
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.artifacts = make(map[string][]byte)
	m.mu.Unlock()
}
