package common

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("result content is not text: %T", result.Content[0])
	}
	return tc.Text
}

func TestJSONResult(t *testing.T) {
	result, err := JSONResult(map[string]interface{}{
		"id":    "abc",
		"count": 2,
	})
	if err != nil {
		t.Fatalf("JSONResult() error = %v", err)
	}
	if result.IsError {
		t.Fatal("JSONResult() returned an error result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, `"id": "abc"`) {
		t.Errorf("result text missing id field: %s", text)
	}
	if !strings.Contains(text, `"count": 2`) {
		t.Errorf("result text missing count field: %s", text)
	}
}

func TestJSONResult_Unencodable(t *testing.T) {
	result, err := JSONResult(func() {})
	if err != nil {
		t.Fatalf("JSONResult() error = %v", err)
	}
	if !result.IsError {
		t.Error("JSONResult() with unencodable value should return an error result")
	}
}
