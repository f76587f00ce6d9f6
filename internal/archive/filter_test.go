package archive

import "testing"

func TestFileFilter_ShouldExclude(t *testing.T) {
	filter := NewFileFilter(1024 * 1024)

	tests := []struct {
		path    string
		exclude bool
	}{
		// Dependencies
		{"node_modules/react/index.js", true},
		{"vendor/github.com/pkg/errors/errors.go", true},
		{"src/node_modules/foo/bar.js", true},
		{"__pycache__/module.pyc", true},

		// Generated files
		{"app.min.js", true},
		{"styles.min.css", true},
		{"go.sum", true},
		{"package-lock.json", true},

		// Binary files
		{"logo.png", true},
		{"assets/font.woff2", true},
		{"release.zip", true},
		{"bin/tool.exe", true},

		// Source files that should be included
		{"main.go", false},
		{"src/app.py", false},
		{"lib/utils.js", false},
		{"README.md", false},
		{"config.yaml", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := filter.ShouldExclude(tt.path); got != tt.exclude {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.exclude)
			}
		})
	}
}

func TestFileFilter_CustomPatterns(t *testing.T) {
	filter := NewFileFilterWithPatterns([]string{"*.log", "tmp/**"}, 1024)

	if !filter.ShouldExclude("debug.log") {
		t.Error("Expected *.log pattern to match")
	}
	if !filter.ShouldExclude("tmp/cache/file.txt") {
		t.Error("Expected tmp/** pattern to match")
	}
	if filter.ShouldExclude("main.go") {
		t.Error("main.go should not match custom patterns")
	}
}

func TestFileFilter_MaxFileSize(t *testing.T) {
	filter := NewFileFilter(2048)
	if filter.MaxFileSize() != 2048 {
		t.Errorf("MaxFileSize() = %d, want 2048", filter.MaxFileSize())
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		binary  bool
	}{
		{"text", []byte("package main\n\nfunc main() {}\n"), false},
		{"empty", []byte{}, false},
		{"null byte", []byte{0x00, 0x01, 0x02}, true},
		{"null after text", append([]byte("hello"), 0x00), true},
		{"utf8", []byte("héllo wörld"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBinary(tt.content); got != tt.binary {
				t.Errorf("IsBinary() = %v, want %v", got, tt.binary)
			}
		})
	}
}

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"src/app.py", "py"},
		{"archive.tar.gz", "gz"},
		{"Makefile", ""},
		{".gitignore", "gitignore"},
	}

	for _, tt := range tests {
		if got := GetFileExtension(tt.path); got != tt.want {
			t.Errorf("GetFileExtension(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExtensionToLanguage(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"go", "go"},
		{"py", "python"},
		{"js", "javascript"},
		{"ts", "typescript"},
		{"yml", "yaml"},
		{"md", "markdown"},
		{"Go", "go"}, // case-insensitive
		{"zig", "zig"}, // unknown passes through
	}

	for _, tt := range tests {
		if got := ExtensionToLanguage(tt.ext); got != tt.want {
			t.Errorf("ExtensionToLanguage(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
