// Package exporter serializes generated content into downloadable artifacts:
// tab-delimited CSV, paginated PDF, DOCX, and plain clipboard text. All
// transforms are pure given their inputs; only file IO can fail.
package exporter

import (
	"fmt"
	"strings"

	"marketing_content_studio/content"
)

// utf8BOM lets spreadsheet consumers detect the encoding.
const utf8BOM = "\ufeff"

var csvHeader = []string{"Канал", "Заголовок", "Текст", "CTA", "Хештеги", "Оценка", "Рекомендации"}

// CSV renders one row per result, header first. Row order equals input order.
// Fields are tab-delimited, each individually quoted with doubled internal
// quotes; body newlines collapse to spaces.
func CSV(items []content.ExportItem) []byte {
	var sb strings.Builder
	sb.WriteString(utf8BOM)
	sb.WriteString(joinRow(csvHeader))

	for _, item := range items {
		r := item.Result
		row := []string{
			item.Channel,
			r.Headline,
			strings.ReplaceAll(strings.ReplaceAll(r.Body, "\r", ""), "\n", " "),
			r.CTA,
			strings.Join(r.Hashtags, ", "),
			fmt.Sprintf("%.1f", r.Score),
			strings.Join(r.Improvements, "; "),
		}
		sb.WriteString("\n")
		sb.WriteString(joinRow(row))
	}
	return []byte(sb.String())
}

func joinRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, "\t")
}

// formatResultText is the shared per-result text block used by multi-result
// clipboard copy.
func formatResultText(channel string, r content.ChannelResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", channel)
	if r.Headline != "" {
		fmt.Fprintf(&sb, "Заголовок: %s\n", r.Headline)
	}
	fmt.Fprintf(&sb, "Текст: %s\n", r.Body)
	if r.CTA != "" {
		fmt.Fprintf(&sb, "CTA: %s\n", r.CTA)
	}
	if len(r.Hashtags) > 0 {
		fmt.Fprintf(&sb, "Хештеги: %s\n", strings.Join(r.Hashtags, " "))
	}
	fmt.Fprintf(&sb, "Оценка: %.1f/10\n", r.Score)
	if len(r.Improvements) > 0 {
		sb.WriteString("Рекомендации:\n")
		for _, imp := range r.Improvements {
			fmt.Fprintf(&sb, "  • %s\n", imp)
		}
	}
	return sb.String()
}

// ClipboardText concatenates full result blocks with blank-line separation.
func ClipboardText(items []content.ExportItem) string {
	blocks := make([]string, len(items))
	for i, item := range items {
		blocks[i] = formatResultText(item.Channel, item.Result)
	}
	return strings.Join(blocks, "\n")
}

// SingleClipboardText is the post itself, ready to paste: headline, body,
// hashtags. CTA, score, and improvements are metadata and stay out.
func SingleClipboardText(r content.ChannelResult) string {
	var sb strings.Builder
	if r.Headline != "" {
		sb.WriteString(r.Headline)
		sb.WriteString("\n\n")
	}
	sb.WriteString(r.Body)
	if len(r.Hashtags) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(r.Hashtags, " "))
	}
	return sb.String()
}
