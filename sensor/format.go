package sensor

import (
	"fmt"
	"strings"

	"github.com/s0up4200/mediarr/content"
)

// FormatOptions controls console output
type FormatOptions struct {
	ShowDetails  bool
	ShowOverview bool
}

// ConsoleFormatter renders sensor lists as trees for the CLI
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatState formats one sensor's list
func (f *ConsoleFormatter) FormatState(status Status, items []content.Item, options FormatOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s [%s] (%d)", status.Name, status.Type, len(items))
	if status.Stale {
		sb.WriteString(" [STALE]")
	}
	sb.WriteString(":\n")
	if status.LastError != "" {
		fmt.Fprintf(&sb, "  Error: %s\n", status.LastError)
	}
	sb.WriteString("\n")

	if len(items) == 0 {
		sb.WriteString("No items\n")
		return sb.String()
	}

	for i, item := range items {
		isLast := i == len(items)-1
		f.formatItem(&sb, item, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatItem(sb *strings.Builder, item content.Item, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s", prefix, item.Title)
	if item.Year > 0 {
		fmt.Fprintf(sb, " (%d)", item.Year)
	}
	if item.RequestStatus != "" && item.RequestStatus != content.RequestStatusNone {
		fmt.Fprintf(sb, " [%s]", strings.ToUpper(string(item.RequestStatus)))
	}
	sb.WriteString("\n")

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if item.Detail != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, item.Detail)
	}

	if options.ShowDetails {
		ids := []string{"ID: " + item.ID}
		if item.TMDBID > 0 {
			ids = append(ids, fmt.Sprintf("TMDB: %d", item.TMDBID))
		}
		fmt.Fprintf(sb, "%s%s | %s\n", indent, item.MediaType, strings.Join(ids, " | "))

		var dateParts []string
		if !item.Added.IsZero() {
			dateParts = append(dateParts, "Added: "+item.Added.Format("2006-01-02"))
		}
		if !item.Release.IsZero() {
			dateParts = append(dateParts, "Release: "+item.Release.Format("2006-01-02"))
		}
		if len(dateParts) > 0 {
			fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(dateParts, " | "))
		}
	}

	if options.ShowOverview && item.Overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, item.Overview)
	}
}
