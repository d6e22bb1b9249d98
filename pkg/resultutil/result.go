package resultutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrInvalidInput marks errors caused by the caller's parameters rather than the backend.
var ErrInvalidInput = errors.New("invalid input")

// Result represents a common tool execution result that can be converted
// to either an MCP tool result or an HTTP JSON response.
type Result struct {
	// Data holds the structured result data (only set for successful results)
	Data any
	// JSONText holds the JSON string representation of Data
	JSONText string
	// Error holds any error that occurred (nil for successful results)
	Error error
}

// NewSuccessResult creates a successful result with structured data.
// The data will be automatically marshaled to JSON.
// If marshaling fails, an error result is returned instead.
func NewSuccessResult(data any) *Result {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return &Result{
			Error: fmt.Errorf("failed to marshal result: %w", err),
		}
	}

	return &Result{
		Data:     data,
		JSONText: string(jsonBytes),
	}
}

// NewErrorResult creates an error result with the given error.
func NewErrorResult(err error) *Result {
	return &Result{
		Error: err,
	}
}

// NewInvalidInputResult creates an error result blaming the caller's parameters.
func NewInvalidInputResult(format string, args ...any) *Result {
	return &Result{
		Error: fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...)),
	}
}

// ToMCPResult converts the Result to an MCP CallToolResult.
// Errors are encoded in the result, not returned.
func (r *Result) ToMCPResult() *mcp.CallToolResult {
	if r.Error != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: r.Error.Error()}},
		}
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: r.JSONText}},
		StructuredContent: r.Data,
	}
}

// StatusCode maps the result to an HTTP status: 200 on success, 400 for
// invalid input and 502 for any other failure, which comes from the backend.
func (r *Result) StatusCode() int {
	switch {
	case r.Error == nil:
		return http.StatusOK
	case errors.Is(r.Error, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// WriteHTTP writes the result as a JSON response. Errors are written as {"error": "..."}.
func (r *Result) WriteHTTP(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.StatusCode())

	body := []byte(r.JSONText)
	if r.Error != nil {
		body, _ = json.Marshal(map[string]string{"error": r.Error.Error()})
	}
	if _, err := w.Write(body); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// IsError returns true if the result represents an error.
func (r *Result) IsError() bool {
	return r.Error != nil
}
