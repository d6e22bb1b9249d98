package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/rhobs/yearchart/pkg/tools"
)

func main() {
	defs := tools.AllTools()

	outputs, err := tools.OutputSchemas()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building output schemas: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("TOOLS.md", []byte(generateMarkdown(defs, outputs)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating TOOLS.md: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("TOOLS.md generated successfully")
	fmt.Printf("  Documented %d tools:\n", len(defs))
	for i := range defs {
		fmt.Printf("    - %s\n", defs[i].Name)
	}
	fmt.Println("\nWhen adding a new tool, register it in pkg/tools/definitions.go AllTools()")
}

type fieldInfo struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// formatTable generates a formatted markdown table with aligned columns
func formatTable(headers, alignments []string, rows [][]string) string {
	if len(headers) == 0 || len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder

	sb.WriteString("|")
	for i, h := range headers {
		fmt.Fprintf(&sb, " %-*s |", widths[i], h)
	}
	sb.WriteString("\n|")
	for i, w := range widths {
		switch alignments[i] {
		case "c":
			fmt.Fprintf(&sb, " :%s: |", strings.Repeat("-", w-2))
		default:
			fmt.Fprintf(&sb, " :%s |", strings.Repeat("-", w-1))
		}
	}
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString("|")
		for i, cell := range row {
			fmt.Fprintf(&sb, " %-*s |", widths[i], cell)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func paramRows(def tools.ToolDef) [][]string {
	params := append([]tools.ParamDef(nil), def.Params...)
	sort.SliceStable(params, func(i, j int) bool {
		return params[i].Required && !params[j].Required
	})

	rows := make([][]string, 0, len(params))
	for _, p := range params {
		req := ""
		if p.Required {
			req = "yes"
		}
		desc := p.Description
		if len(p.Enum) > 0 {
			desc += " One of: `" + strings.Join(p.Enum, "`, `") + "`."
		}
		rows = append(rows, []string{fmt.Sprintf("`%s`", p.Name), fmt.Sprintf("`%s`", p.Type), req, desc})
	}
	return rows
}

func outputFields(schema *jsonschema.Schema) []fieldInfo {
	if schema == nil {
		return nil
	}
	required := make(map[string]bool)
	for _, r := range schema.Required {
		required[r] = true
	}

	var fields []fieldInfo
	for name, prop := range schema.Properties {
		f := fieldInfo{Name: name, Type: prop.Type, Required: required[name], Description: prop.Description}
		if f.Type == "" && len(prop.Types) > 0 {
			f.Type = strings.Join(prop.Types, "|")
		}
		if prop.Items != nil {
			itemType := prop.Items.Type
			if itemType == "" {
				itemType = "object"
			}
			f.Type = itemType + "[]"
		}
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})
	return fields
}

func generateMarkdown(defs []tools.ToolDef, outputs map[string]*jsonschema.Schema) string {
	var sb strings.Builder

	sb.WriteString("<!-- This file is auto-generated. Do not edit manually. -->\n")
	sb.WriteString("<!-- Run 'go run ./cmd/generate-tools-doc' to regenerate. -->\n\n")

	sb.WriteString("# Available Tools\n\n")
	sb.WriteString("This MCP server exposes the following tools over the Elasticsearch article index:\n\n")

	for i, def := range defs {
		fmt.Fprintf(&sb, "## `%s`\n\n", def.Name)

		// The first paragraph is the summary, the rest become usage tips.
		paragraphs := strings.Split(strings.TrimSpace(def.Description), "\n\n")
		fmt.Fprintf(&sb, "> %s\n\n", strings.Join(strings.Fields(paragraphs[0]), " "))
		if len(paragraphs) > 1 {
			sb.WriteString("**Usage Tips:**\n\n")
			for _, para := range paragraphs[1:] {
				fmt.Fprintf(&sb, "- %s\n", strings.Join(strings.Fields(para), " "))
			}
			sb.WriteString("\n")
		}

		if rows := paramRows(def); len(rows) == 0 {
			sb.WriteString("**Parameters:** None\n\n")
		} else {
			sb.WriteString("**Parameters:**\n\n")
			sb.WriteString(formatTable(
				[]string{"Parameter", "Type", "Required", "Description"},
				[]string{"l", "l", "c", "l"},
				rows,
			))
			sb.WriteString("\n")
		}

		if fields := outputFields(outputs[def.Name]); len(fields) > 0 {
			sb.WriteString("**Output Schema:**\n\n")
			rows := make([][]string, 0, len(fields))
			for _, f := range fields {
				rows = append(rows, []string{fmt.Sprintf("`%s`", f.Name), fmt.Sprintf("`%s`", f.Type), f.Description})
			}
			sb.WriteString(formatTable(
				[]string{"Field", "Type", "Description"},
				[]string{"l", "l", "l"},
				rows,
			))
			sb.WriteString("\n")
		}

		if i < len(defs)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return sb.String()
}
