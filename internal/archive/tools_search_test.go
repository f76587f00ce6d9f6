package archive

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

// searchFixtureFiles returns source files with distinctive tokens for search.
func searchFixtureFiles() map[string]string {
	return map[string]string{
		"main.go":           "package main\n\nfunc main() {\n\tstartServer()\n}",
		"server.go":         "package main\n\nfunc startServer() {\n\tlisten(\"0.0.0.0:8080\")\n}",
		"scripts/deploy.py": "import subprocess\n\ndef deploy():\n    subprocess.run([\"make\", \"release\"])",
	}
}

func TestSearchHandler_Handle_NotReady(t *testing.T) {
	svc, err := NewService(testPackSettings(t.TempDir(), t.TempDir()))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()

	handler := NewSearchHandler(svc)
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, SearchArgument{Query: "anything"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result when service is not ready")
	}
	if !strings.Contains(resultText(t, result), "not available") {
		t.Errorf("Unexpected message: %s", resultText(t, result))
	}
}

func TestSearchHandler_Handle_EmptyQuery(t *testing.T) {
	svc, _ := setupPackedService(t, searchFixtureFiles())

	handler := NewSearchHandler(svc)
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, SearchArgument{Query: "   "})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for empty query")
	}
}

func TestSearchHandler_Handle_FindsContent(t *testing.T) {
	svc, _ := setupPackedService(t, searchFixtureFiles())

	handler := NewSearchHandler(svc)
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, SearchArgument{Query: "subprocess"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Found") {
		t.Errorf("Expected results, got: %s", text)
	}
	if !strings.Contains(text, "scripts/deploy.py") {
		t.Errorf("Expected scripts/deploy.py in results, got: %s", text)
	}
}

func TestSearchHandler_Handle_MatchesFilePath(t *testing.T) {
	svc, _ := setupPackedService(t, searchFixtureFiles())

	handler := NewSearchHandler(svc)
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{}, SearchArgument{Query: "deploy"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "scripts/deploy.py") {
		t.Errorf("Expected path match for deploy, got: %s", text)
	}
}

func TestSearchHandler_Handle_LanguageFilter(t *testing.T) {
	svc, _ := setupPackedService(t, searchFixtureFiles())
	handler := NewSearchHandler(svc)

	// "main" appears in Go files only; the python filter must exclude them
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
		SearchArgument{Query: "startServer", Language: "python"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "No results") {
		t.Errorf("Expected no results with python filter, got: %s", text)
	}

	result, _, err = handler.Handle(context.Background(), &mcp.CallToolRequest{},
		SearchArgument{Query: "startServer", Language: "go"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.Contains(resultText(t, result), "Found") {
		t.Errorf("Expected results with go filter, got: %s", resultText(t, result))
	}
}

func TestSearchHandler_Handle_RootFilter(t *testing.T) {
	svc, root := setupPackedService(t, searchFixtureFiles())
	handler := NewSearchHandler(svc)

	display := RootIDToDisplay(RootToID(root))
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
		SearchArgument{Query: "subprocess", Root: display})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.Contains(resultText(t, result), "Found") {
		t.Errorf("Expected results for matching root filter, got: %s", resultText(t, result))
	}

	result, _, err = handler.Handle(context.Background(), &mcp.CallToolRequest{},
		SearchArgument{Query: "subprocess", Root: "/no/such/root"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !strings.Contains(resultText(t, result), "No results") {
		t.Errorf("Expected no results for unknown root, got: %s", resultText(t, result))
	}
}

func TestSearchHandler_Handle_NoResults(t *testing.T) {
	svc, _ := setupPackedService(t, searchFixtureFiles())

	handler := NewSearchHandler(svc)
	result, _, err := handler.Handle(context.Background(), &mcp.CallToolRequest{},
		SearchArgument{Query: "xyzzyplugh"})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Error("No results should not be an error result")
	}
	if !strings.Contains(resultText(t, result), "No results found") {
		t.Errorf("Expected no-results message, got: %s", resultText(t, result))
	}
}

func TestSearchHandler_GetToolDefinition(t *testing.T) {
	handler := NewSearchHandler(nil)
	tool := handler.GetToolDefinition()

	if tool.Name != "search_pack" {
		t.Errorf("Expected tool name 'search_pack', got %q", tool.Name)
	}
	if tool.Description == "" {
		t.Error("Expected a tool description")
	}
}
