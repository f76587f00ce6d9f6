package archive

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestReadHandler_Handle_NotReady(t *testing.T) {
	svc, err := NewService(testPackSettings(t.TempDir(), t.TempDir()))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	handler := NewReadHandler(svc)
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
		ReadArgument{Root: "/some/root", Path: "main.go"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result when service is not ready")
	}
}

func TestReadHandler_Handle_EmptyArguments(t *testing.T) {
	svc, root := setupPackedService(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}",
	})
	handler := NewReadHandler(svc)
	display := RootIDToDisplay(RootToID(root))

	tests := []struct {
		name string
		args ReadArgument
	}{
		{"empty root", ReadArgument{Root: "", Path: "main.go"}},
		{"empty path", ReadArgument{Root: display, Path: ""}},
		{"blank path", ReadArgument{Root: display, Path: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, tt.args)
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if !result.IsError {
				t.Error("Expected error result")
			}
		})
	}
}

func TestReadHandler_Handle_RejectsTraversal(t *testing.T) {
	svc, root := setupPackedService(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}",
	})
	handler := NewReadHandler(svc)
	display := RootIDToDisplay(RootToID(root))

	tests := []struct {
		name string
		path string
	}{
		{"absolute path", "/etc/passwd"},
		{"parent traversal", "../../../etc/passwd"},
		{"embedded traversal", "src/../../secrets.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
				ReadArgument{Root: display, Path: tt.path})
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if !result.IsError {
				t.Errorf("Expected error result for path %q", tt.path)
			}
		})
	}
}

func TestReadHandler_Handle_FileNotFound(t *testing.T) {
	svc, root := setupPackedService(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}",
	})
	handler := NewReadHandler(svc)
	display := RootIDToDisplay(RootToID(root))

	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
		ReadArgument{Root: display, Path: "missing.go"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for missing file")
	}
	if !strings.Contains(resultText(t, result), "File not found in pack") {
		t.Errorf("Unexpected message: %s", resultText(t, result))
	}
}

func TestReadHandler_Handle_ReconstructsContent(t *testing.T) {
	// One comment line and one plain statement: each is the sole member of
	// its dictionary slot, so the decode reproduces both lines verbatim.
	svc, root := setupPackedService(t, map[string]string{
		"config.py": "# deployment pipeline knobs\ntimeout = 30",
	})
	handler := NewReadHandler(svc)
	display := RootIDToDisplay(RootToID(root))

	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
		ReadArgument{Root: display, Path: "config.py"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "**File**: `config.py`") {
		t.Errorf("Expected file header, got: %s", text)
	}
	if !strings.Contains(text, "# deployment pipeline knobs\ntimeout = 30") {
		t.Errorf("Expected reconstructed lines in output, got: %s", text)
	}
	if !strings.Contains(text, "```python") {
		t.Errorf("Expected python code fence, got: %s", text)
	}
	if !strings.Contains(text, "**Lines**: 2") {
		t.Errorf("Expected line count, got: %s", text)
	}
}

func TestReadHandler_Handle_LossyReconstruction(t *testing.T) {
	// Both lines classify as the same semantic category, so the pack keeps
	// a single template and the decode yields it twice. The template text
	// itself is abbreviated ("package" becomes "pkg").
	svc, root := setupPackedService(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}",
	})
	handler := NewReadHandler(svc)
	display := RootIDToDisplay(RootToID(root))

	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
		ReadArgument{Root: display, Path: "main.go"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if got := strings.Count(text, "pkg main"); got != 2 {
		t.Errorf("Expected template text twice, found %d in: %s", got, text)
	}
	if strings.Contains(text, "func main") {
		t.Errorf("Merged line should not survive reconstruction, got: %s", text)
	}
}

func TestReadHandler_Handle_NestedPath(t *testing.T) {
	svc, root := setupPackedService(t, map[string]string{
		"lib/util/helpers.py": "def helper():\n    value = compute()",
	})
	handler := NewReadHandler(svc)
	display := RootIDToDisplay(RootToID(root))

	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
		ReadArgument{Root: display, Path: "lib/util/helpers.py"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "def helper():\nvalue = compute()") {
		t.Errorf("Expected reconstructed source, got: %s", resultText(t, result))
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"main.go", false},
		{"src/app.py", false},
		{"a/b/c/d.txt", false},
		{"/etc/passwd", true},
		{"../outside.txt", true},
		{"src/../../outside.txt", true},
		{"..", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := validatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestReadHandler_GetToolDefinition(t *testing.T) {
	handler := NewReadHandler(nil)
	tool := handler.GetToolDefinition()

	if tool.Name != "read_packed" {
		t.Errorf("Expected tool name 'read_packed', got %q", tool.Name)
	}
	if tool.Description == "" {
		t.Error("Expected a tool description")
	}
}
