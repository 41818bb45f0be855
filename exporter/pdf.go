package exporter

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"

	"marketing_content_studio/content"
)

const (
	pdfMargin     = 20.0
	pdfPageBottom = 250.0 // start a new page past this cursor position
	pdfLineHeight = 5.0
)

// PDF lays the results out as one block per result on A4 pages: channel
// subheading, bold headline, wrapped body, red CTA, blue hashtags, gray
// score. Deterministic for a fixed now. A block whose cursor would pass the
// bottom threshold continues on a fresh page; text is never dropped.
func PDF(items []content.ExportItem, now time.Time) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("cp1251")
	doc.AddPage()

	pageW, _ := doc.GetPageSize()
	maxWidth := pageW - pdfMargin*2
	y := pdfMargin

	newPageIfNeeded := func() {
		if y > pdfPageBottom {
			doc.AddPage()
			y = pdfMargin
		}
	}

	doc.SetFont("Helvetica", "", 18)
	doc.Text(pdfMargin, y, "Marketing Content")
	y += 10

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(128, 128, 128)
	doc.Text(pdfMargin, y, tr("Создано: "+now.Format("02.01.2006")))
	y += 15

	for _, item := range items {
		newPageIfNeeded()

		doc.SetTextColor(0, 0, 0)
		doc.SetFont("Helvetica", "", 14)
		doc.Text(pdfMargin, y, tr(item.Channel))
		y += 8

		r := item.Result
		doc.SetFontSize(10)

		if r.Headline != "" {
			newPageIfNeeded()
			doc.SetFont("Helvetica", "B", 10)
			doc.Text(pdfMargin, y, tr(r.Headline))
			y += 6
		}

		doc.SetFont("Helvetica", "", 10)
		for _, line := range doc.SplitLines([]byte(tr(r.Body)), maxWidth) {
			newPageIfNeeded()
			doc.Text(pdfMargin, y, string(line))
			y += pdfLineHeight
		}
		y += 3

		if r.CTA != "" {
			newPageIfNeeded()
			doc.SetTextColor(220, 38, 38)
			doc.Text(pdfMargin, y, tr("CTA: "+r.CTA))
			y += 6
		}

		if len(r.Hashtags) > 0 {
			newPageIfNeeded()
			doc.SetTextColor(59, 130, 246)
			doc.Text(pdfMargin, y, tr(joinHashtags(r.Hashtags)))
			y += 6
		}

		newPageIfNeeded()
		doc.SetTextColor(100, 100, 100)
		doc.Text(pdfMargin, y, tr(formatScore(r.Score)))
		y += 10
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
