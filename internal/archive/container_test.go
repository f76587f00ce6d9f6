package archive

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/codetome/linepack/internal/codec"
)

func TestContainer_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packs", "root", "main.go"+ContainerSuffix)

	text := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	doc, err := codec.EncodeText(text, "go")
	if err != nil {
		t.Fatalf("EncodeText failed: %v", err)
	}

	if err := WriteContainer(path, doc); err != nil {
		t.Fatalf("WriteContainer failed: %v", err)
	}

	loaded, err := ReadContainer(path)
	if err != nil {
		t.Fatalf("ReadContainer failed: %v", err)
	}

	if !reflect.DeepEqual(doc, loaded) {
		t.Errorf("Round trip mismatch:\n got: %+v\nwant: %+v", loaded, doc)
	}
}

func TestWriteContainer_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deeply", "nested", "file.go"+ContainerSuffix)

	doc, err := codec.EncodeText("x = 1", "python")
	if err != nil {
		t.Fatalf("EncodeText failed: %v", err)
	}

	if err := WriteContainer(path, doc); err != nil {
		t.Fatalf("WriteContainer failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Container file should exist: %v", err)
	}

	// Temp file should be cleaned up
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file should not remain after write")
	}
}

func TestReadContainer_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadContainer(filepath.Join(dir, "missing"+ContainerSuffix))
	if err == nil {
		t.Error("Expected error for missing container")
	}
}

func TestReadContainer_CorruptData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt"+ContainerSuffix)

	if err := os.WriteFile(path, []byte("not zstd data"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := ReadContainer(path)
	if err == nil {
		t.Error("Expected error for corrupt container")
	}
}

func TestContainer_CompressesRepetitiveContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big"+ContainerSuffix)

	var text string
	for range 200 {
		text += "result = compute(input)\nif result is None:\n    raise ValueError\n"
	}

	doc, err := codec.EncodeText(text, "python")
	if err != nil {
		t.Fatalf("EncodeText failed: %v", err)
	}

	if err := WriteContainer(path, doc); err != nil {
		t.Fatalf("WriteContainer failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() >= int64(len(text)) {
		t.Errorf("Container (%d bytes) should be smaller than source (%d bytes)", info.Size(), len(text))
	}
}
