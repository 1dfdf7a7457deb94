package tools

import (
	"sort"
	"strings"
)

// NoToolsNotice is what the model sees in place of a catalog when the
// registry is empty.
const NoToolsNotice = "no tools available"

// CatalogText renders the registry as the bulleted list substituted for the
// {tools} placeholder in a profile's system prompt. Sorted by name so the
// prompt is stable between sends.
func CatalogText(defs map[string]Definition) string {
	if len(defs) == 0 {
		return NoToolsNotice
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(defs[name].Example)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderSystemPrompt substitutes the rendered catalog for every {tools}
// placeholder in the template.
func RenderSystemPrompt(template string, defs map[string]Definition) string {
	if !strings.Contains(template, "{tools}") {
		return template
	}
	return strings.ReplaceAll(template, "{tools}", CatalogText(defs))
}
