package context

import (
	"bytes"
	"fmt"
	"os"
)

// DefaultMaxDocumentSize caps how much of a job post or resume file is
// accepted. Anything larger is almost certainly not a text document.
const DefaultMaxDocumentSize int64 = 200 * 1024 // 200KB

// ReadDocument reads a text document (job post, resume) from disk with a
// size cap. Binary files are rejected rather than passed to the model.
func ReadDocument(path string, maxSize int64) (string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxDocumentSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxSize {
		return "", fmt.Errorf("%w: %s is %d bytes, max %d",
			ErrDocumentTooLarge, path, info.Size(), maxSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if isBinary(content) {
		return "", fmt.Errorf("%w: %s", ErrBinaryDocument, path)
	}

	// Windows editors often prepend a UTF-8 BOM
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	return string(content), nil
}

// ReadDocumentFile reads a document with the default size cap.
func ReadDocumentFile(path string) (string, error) {
	return ReadDocument(path, DefaultMaxDocumentSize)
}

// isBinary detects if content is binary by checking for null bytes.
func isBinary(data []byte) bool {
	sample := data
	if len(sample) > 8192 {
		sample = sample[:8192]
	}
	return bytes.Contains(sample, []byte{0})
}
