package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codetome/linepack/internal/domain"
	"github.com/klauspost/compress/zstd"
)

// ContainerSuffix is the file suffix for stored pack containers.
const ContainerSuffix = ".lpz"

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		panic(err)
	}
	zstdEncoder = enc

	dec, err := zstd.NewReader(nil)
	if err != nil {
		panic(err)
	}
	zstdDecoder = dec
}

// WriteContainer serializes an encoded document and writes it to path as a
// zstd-compressed container. The write is atomic (temp file + rename).
func WriteContainer(path string, doc *domain.EncodedDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	compressed := zstdEncoder.EncodeAll(data, nil)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create container directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, compressed, 0644); err != nil {
		return fmt.Errorf("failed to write container temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename container file: %w", err)
	}

	return nil
}

// ReadContainer reads and decompresses a stored container back into an
// encoded document.
func ReadContainer(path string) (*domain.EncodedDocument, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read container: %w", err)
	}

	data, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress container: %w", err)
	}

	var doc domain.EncodedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse container: %w", err)
	}

	return &doc, nil
}
