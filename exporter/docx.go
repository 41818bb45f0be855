package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/gingfrederik/docx"

	"marketing_content_studio/content"
)

func joinHashtags(tags []string) string {
	return strings.Join(tags, " ")
}

func formatScore(score float64) string {
	return fmt.Sprintf("Score: %.1f/10", score)
}

// DOCX assembles the same logical content as the PDF path as a sequence of
// styled paragraphs and saves it to path. Emphasis is expressed with size and
// color runs.
func DOCX(items []content.ExportItem, now time.Time, path string) error {
	f := docx.NewFile()

	title := f.AddParagraph().AddText("Marketing Content")
	title.Size(20)

	sub := f.AddParagraph().AddText("Создано: " + now.Format("02.01.2006"))
	sub.Size(10)
	sub.Color("808080")
	f.AddParagraph() // spacer

	for _, item := range items {
		r := item.Result

		heading := f.AddParagraph().AddText(item.Channel)
		heading.Size(16)

		if r.Headline != "" {
			h := f.AddParagraph().AddText(r.Headline)
			h.Size(12)
		}

		for _, para := range strings.Split(r.Body, "\n\n") {
			para = strings.TrimSpace(para)
			if para != "" {
				f.AddParagraph().AddText(para)
			}
		}

		if r.CTA != "" {
			cta := f.AddParagraph().AddText("CTA: " + r.CTA)
			cta.Color("DC2626")
		}

		if len(r.Hashtags) > 0 {
			tags := f.AddParagraph().AddText(joinHashtags(r.Hashtags))
			tags.Color("3B82F6")
		}

		score := f.AddParagraph().AddText(formatScore(r.Score))
		score.Size(10)
		score.Color("666666")

		f.AddParagraph() // spacer between blocks
	}

	return f.Save(path)
}
