package render

import (
	"strings"
	"testing"
	"time"

	"github.com/ajramos/tagview/internal/models"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func testRenderer() *Renderer {
	r := NewRenderer(12, 30, "")
	r.SetTags([]models.Tag{
		{ID: "work", Name: "Work"},
		{ID: "home", Name: "Home"},
		{ID: "bank", Name: "Banking"},
		{ID: "tax", Name: "Tax"},
	})
	r.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestNewRenderer_Defaults(t *testing.T) {
	r := NewRenderer(0, -1, "")
	assert.Equal(t, defaultSenderWidth, r.senderWidth)
	assert.Equal(t, defaultSubjectWidth, r.subjectWidth)
}

func TestFitWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"pad", "abc", 5, "abc  "},
		{"exact", "abcde", 5, "abcde"},
		{"truncate", "abcdefgh", 6, "abc..."},
		{"zero", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fitWidth(tt.input, tt.width))
		})
	}

	// Wide runes are measured by display width
	assert.Equal(t, 6, runewidth.StringWidth(fitWidth("日本語テキスト", 6)))
}

func TestRightFit(t *testing.T) {
	assert.Equal(t, "    42", rightFit("42", 6))
	assert.Equal(t, "", rightFit("42", 0))
}

func TestExtractSenderName(t *testing.T) {
	assert.Equal(t, "Bank", extractSenderName("Bank <bank@example.com>"))
	assert.Equal(t, "Jane Doe", extractSenderName(`"Jane Doe" <jane@example.com>`))
	assert.Equal(t, "plain@example.com", extractSenderName("plain@example.com"))
	assert.Equal(t, "<only@example.com>", extractSenderName("<only@example.com>"))
}

func TestFormatMessageRow(t *testing.T) {
	r := testRenderer()
	m := models.Message{
		Sender:  "Boss <boss@corp.example>",
		Subject: "Quarterly plan",
		Date:    time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		Tags:    []string{"work", "ghost", "home"},
	}

	row := r.FormatMessageRow(m)
	assert.True(t, strings.HasPrefix(row, "Boss         | Quarterly plan"))
	assert.Contains(t, row, "[Work] [Home]")
	assert.NotContains(t, row, "ghost")
	assert.True(t, strings.HasSuffix(row, "| 3h      "))
}

func TestFormatMessageRow_ChipOverflowAndPlaceholders(t *testing.T) {
	r := testRenderer()
	r.subjectWidth = 60
	m := models.Message{Tags: []string{"work", "home", "bank", "tax"}}

	row := r.FormatMessageRow(m)
	assert.Contains(t, row, "(No sender)")
	assert.Contains(t, row, "(No subject)")
	assert.Contains(t, row, "[Work] [Home] [Banking] [+1]")
	assert.NotContains(t, row, "[Tax]")
}

func TestFormatDate(t *testing.T) {
	r := testRenderer()
	now := r.now()

	tests := []struct {
		date time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-30 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
		{now.Add(-30 * 24 * time.Hour), "Feb 14"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.formatDate(tt.date))
	}

	fixed := NewRenderer(0, 0, "2006-01-02")
	assert.Equal(t, "2024-03-15", fixed.formatDate(now))
}

func TestFormatTagRow(t *testing.T) {
	r := testRenderer()
	row := r.FormatTagRow(models.Tag{ID: "work", Name: "Work"}, 7)
	assert.True(t, strings.HasPrefix(row, "Work        "))
	assert.True(t, strings.HasSuffix(row, "     7"))
}

func TestFormatViewRow(t *testing.T) {
	r := testRenderer()

	row := r.FormatViewRow(models.View{Name: "Work", Visible: true}, 3, true)
	assert.True(t, strings.HasPrefix(row, "> Work"))
	assert.True(t, strings.HasSuffix(row, "3"))

	row = r.FormatViewRow(models.View{Name: "Old", Icon: "*", Visible: false}, 0, false)
	assert.True(t, strings.HasPrefix(row, "  * Old"))
	assert.True(t, strings.HasSuffix(row, "(hidden)"))
}

func TestFormatCondition(t *testing.T) {
	r := testRenderer()

	assert.Equal(t, "any of: Work, Home", r.FormatCondition(models.Condition{Type: models.ConditionIncludesAny, Tags: []string{"work", "home"}}))
	assert.Equal(t, "all of: Work, gone?", r.FormatCondition(models.Condition{Type: models.ConditionIncludesAll, Tags: []string{"work", "gone"}}))
	assert.Equal(t, "none of: (no tags)", r.FormatCondition(models.Condition{Type: models.ConditionExcludesAny}))
}

func TestFormatTagDetail(t *testing.T) {
	r := testRenderer()
	detail := r.FormatTagDetail(models.Tag{
		ID:            "bank",
		Name:          "Banking",
		Instructions:  []string{"statements", "card alerts"},
		ExampleEmails: []string{"Your March statement"},
		NegativeExamples: []models.NegativeExample{
			{Subject: "Mortgage offer", Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	})

	assert.Contains(t, detail, "Banking (bank)")
	assert.Contains(t, detail, "  2. card alerts")
	assert.Contains(t, detail, "Mortgage offer")
	assert.Contains(t, detail, "  + Your March statement")
	assert.Contains(t, detail, "2024-03-01")
}
