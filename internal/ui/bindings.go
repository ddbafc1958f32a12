package ui

import (
	"fmt"
	"strings"
)

// BindingRow is one line of the binding listing
type BindingRow struct {
	Event      string
	Action     string
	Overridden bool
}

// PrintBindings displays the merged binding table
func PrintBindings(source string, fingerprint uint64, rows []BindingRow) {
	fmt.Println()
	fmt.Println(Title("Bindings"))
	fmt.Println(Muted(fmt.Sprintf("%d binding(s), override %s, fingerprint %016x", len(rows), source, fingerprint)))
	fmt.Println()

	if len(rows) == 0 {
		fmt.Println(Warning("No bindings"))
		return
	}

	fmt.Print(FormatBindings(rows))
	fmt.Println()
}

// FormatBindings renders rows as aligned columns
func FormatBindings(rows []BindingRow) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Event))
	}

	var b strings.Builder
	for _, r := range rows {
		padding := strings.Repeat(" ", width-len(r.Event)+2)
		line := fmt.Sprintf("  %s%s%s", eventStyle.Render(r.Event), padding, actionStyle.Render(r.Action))
		if r.Overridden {
			line += " " + overrideStyle.Render("(override)")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
