package exporter

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing_content_studio/content"
)

func sampleItems() []content.ExportItem {
	return []content.ExportItem{
		{
			Channel: content.ChannelTelegram,
			Result: content.ChannelResult{
				Headline: "Скидка 50%",
				Body:     "Только сегодня.\nУспейте купить.",
				CTA:      "Купить",
				Hashtags: []string{"#скидка", "#акция"},
				Score:    8.5,
			},
		},
		{
			Channel: content.ChannelEmail,
			Result: content.ChannelResult{
				Body:         "Здравствуйте! У нас \"новость\".",
				Score:        7,
				Improvements: []string{"Добавить тему", "Сократить"},
			},
		},
	}
}

func TestCSVStructure(t *testing.T) {
	data := string(CSV(sampleItems()))

	require.True(t, strings.HasPrefix(data, "\ufeff"), "missing BOM")

	lines := strings.Split(data, "\n")
	require.Len(t, lines, 3, "header plus one line per result")

	header := strings.TrimPrefix(lines[0], "\ufeff")
	assert.Equal(t, `"Канал"	"Заголовок"	"Текст"	"CTA"	"Хештеги"	"Оценка"	"Рекомендации"`, header)

	// Row order follows input order.
	assert.True(t, strings.HasPrefix(lines[1], `"Telegram"`))
	assert.True(t, strings.HasPrefix(lines[2], `"Email"`))

	// Body newlines collapse to spaces so each result stays on one line.
	assert.Contains(t, lines[1], `"Только сегодня. Успейте купить."`)
	assert.Contains(t, lines[1], `"#скидка, #акция"`)
	assert.Contains(t, lines[1], `"8.5"`)

	// Internal quotes double; improvements join with semicolons.
	assert.Contains(t, lines[2], `""новость""`)
	assert.Contains(t, lines[2], `"Добавить тему; Сократить"`)
	assert.Contains(t, lines[2], `"7.0"`)
}

func TestCSVEmptyItems(t *testing.T) {
	lines := strings.Split(string(CSV(nil)), "\n")
	assert.Len(t, lines, 1, "only the header")
}

func TestSingleClipboardText(t *testing.T) {
	got := SingleClipboardText(content.ChannelResult{
		Headline: "Скидка 50%",
		Body:     "Только сегодня скидка на все курсы!",
		CTA:      "Купите сейчас!",
		Hashtags: []string{"#скидка", "#акция"},
		Score:    9.1,
	})

	assert.Equal(t, "Скидка 50%\n\nТолько сегодня скидка на все курсы!\n\n#скидка #акция", got)
	assert.NotContains(t, got, "Купите сейчас!", "CTA is metadata")
	assert.NotContains(t, got, "9.1", "score is metadata")
}

func TestSingleClipboardTextNoHeadlineNoTags(t *testing.T) {
	got := SingleClipboardText(content.ChannelResult{Body: "Просто текст"})
	assert.Equal(t, "Просто текст", got)
}

func TestClipboardTextBlocks(t *testing.T) {
	got := ClipboardText(sampleItems())

	assert.Contains(t, got, "=== Telegram ===")
	assert.Contains(t, got, "=== Email ===")
	assert.Contains(t, got, "Заголовок: Скидка 50%")
	assert.Contains(t, got, "CTA: Купить")
	assert.Contains(t, got, "Оценка: 8.5/10")
	assert.Contains(t, got, "  • Добавить тему")

	// Headline line is omitted entirely when empty.
	emailBlock := got[strings.Index(got, "=== Email ==="):]
	assert.NotContains(t, emailBlock, "Заголовок:")
}

func TestPDFProducesDocument(t *testing.T) {
	data, err := PDF(sampleItems(), time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "not a PDF header")
}

func TestDOCXWritesFile(t *testing.T) {
	path := t.TempDir() + "/out.docx"
	err := DOCX(sampleItems(), time.Now(), path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestBodyHTML(t *testing.T) {
	html, err := BodyHTML(content.ChannelResult{Body: "**Жирный** текст"})
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>Жирный</strong>")
}
