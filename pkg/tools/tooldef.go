package tools

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ParamDef defines a tool parameter
type ParamDef struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Pattern     string
	Enum        []string
}

// ParamType represents the type of a parameter
type ParamType string

const (
	ParamTypeString  ParamType = "string"
	ParamTypeInteger ParamType = "integer"
)

// ToolDef defines a tool that can be exposed over MCP and documented from a single place.
type ToolDef struct {
	Name        string
	Description string
	Title       string
	Params      []ParamDef
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
	OpenWorld   bool
}

// InputSchema builds the JSON schema of the tool arguments.
func (d ToolDef) InputSchema() *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema)
	var required []string

	for _, param := range d.Params {
		schema := &jsonschema.Schema{
			Type:        string(param.Type),
			Description: param.Description,
			Pattern:     param.Pattern,
		}
		for _, v := range param.Enum {
			schema.Enum = append(schema.Enum, v)
		}

		properties[param.Name] = schema

		if param.Required {
			required = append(required, param.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// ToMCPTool converts a ToolDef to an mcp.Tool
func (d ToolDef) ToMCPTool() *mcp.Tool {
	destructive := d.Destructive
	openWorld := d.OpenWorld

	return &mcp.Tool{
		Name:        d.Name,
		Title:       d.Title,
		Description: d.Description,
		InputSchema: d.InputSchema(),
		Annotations: &mcp.ToolAnnotations{
			Title:           d.Title,
			ReadOnlyHint:    d.ReadOnly,
			DestructiveHint: &destructive,
			IdempotentHint:  d.Idempotent,
			OpenWorldHint:   &openWorld,
		},
	}
}
