package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	keyStyleColor   = lipgloss.AdaptiveColor{Light: "#071330", Dark: "#F652A0"}
	keyStyle        = lipgloss.NewStyle().Bold(true).Foreground(keyStyleColor)
	valueStyleColor = lipgloss.AdaptiveColor{Light: "#214358", Dark: "#AEB8C4"}
	valueStyle      = lipgloss.NewStyle().Foreground(valueStyleColor)
)

// RenderValue turns a decoded JSON value into an indented key => value tree
// suitable for a terminal. Map keys are sorted for a stable layout.
func RenderValue(content any) string {
	var out strings.Builder
	renderValue(&out, content, "")
	return out.String()
}

func renderValue(out *strings.Builder, content any, align string) {
	switch val := content.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			head := align + key + " => "
			out.WriteString(keyStyle.Render(head))
			out.WriteString("\n")
			renderValue(out, val[key], strings.Repeat(" ", len(head)))
		}
	case []any:
		for _, item := range val {
			renderValue(out, item, align)
		}
	case nil:
	default:
		text := fmt.Sprintf("%v", val)
		if text != "" {
			out.WriteString(valueStyle.Render(align + text))
			out.WriteString("\n")
		}
	}
}
