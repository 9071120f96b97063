package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/ajramos/tagview/internal/models"
	"github.com/mattn/go-runewidth"
)

const (
	defaultSenderWidth  = 22
	defaultSubjectWidth = 48
	dateWidth           = 8
	countWidth          = 6
	maxChips            = 3
)

// Renderer formats messages, tags and views as fixed-width text rows
type Renderer struct {
	senderWidth  int
	subjectWidth int
	dateFormat   string
	tagNames     map[string]string
	now          func() time.Time
}

// NewRenderer creates a renderer. Zero widths fall back to defaults; an empty
// dateFormat renders relative times.
func NewRenderer(senderWidth, subjectWidth int, dateFormat string) *Renderer {
	if senderWidth <= 0 {
		senderWidth = defaultSenderWidth
	}
	if subjectWidth <= 0 {
		subjectWidth = defaultSubjectWidth
	}
	return &Renderer{
		senderWidth:  senderWidth,
		subjectWidth: subjectWidth,
		dateFormat:   dateFormat,
		tagNames:     make(map[string]string),
		now:          time.Now,
	}
}

// SetTags sets the registry used to resolve tag IDs to names. IDs missing
// from it are not rendered.
func (r *Renderer) SetTags(tags []models.Tag) {
	r.tagNames = make(map[string]string, len(tags))
	for _, t := range tags {
		r.tagNames[t.ID] = t.Name
	}
}

// TagNames resolves ids in order, skipping dangling ones
func (r *Renderer) TagNames(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := r.tagNames[id]; ok {
			out = append(out, name)
		}
	}
	return out
}

// FormatMessageRow renders "Sender | Subject [chips] | Date"
func (r *Renderer) FormatMessageRow(m models.Message) string {
	sender := extractSenderName(m.Sender)
	if sender == "" {
		sender = "(No sender)"
	}
	subject := m.Subject
	if subject == "" {
		subject = "(No subject)"
	}

	chips := r.chips(m.Tags)
	subjectWidth := r.subjectWidth - runewidth.StringWidth(chips)
	if subjectWidth < 10 {
		subjectWidth = 10
	}

	return fmt.Sprintf("%s | %s%s | %s",
		fitWidth(sender, r.senderWidth),
		fitWidth(subject, subjectWidth),
		chips,
		fitWidth(r.formatDate(m.Date), dateWidth))
}

// chips returns " [Work] [Home] [+2]" for the resolvable tags
func (r *Renderer) chips(ids []string) string {
	names := r.TagNames(ids)
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	for i, n := range names {
		if i == maxChips {
			fmt.Fprintf(&b, " [+%d]", len(names)-maxChips)
			break
		}
		b.WriteString(" [")
		b.WriteString(n)
		b.WriteString("]")
	}
	return b.String()
}

// FormatTagRow renders a registry entry with its usage count
func (r *Renderer) FormatTagRow(t models.Tag, count int) string {
	return fmt.Sprintf("%s  %s %s",
		fitWidth(t.Name, r.senderWidth),
		fitWidth(t.ID, r.subjectWidth),
		rightFit(fmt.Sprint(count), countWidth))
}

// FormatViewRow renders a view with its match count. selected marks the
// current view; hidden views are shown dimmed with a trailing marker.
func (r *Renderer) FormatViewRow(v models.View, count int, selected bool) string {
	marker := " "
	if selected {
		marker = ">"
	}
	name := v.Name
	if v.Icon != "" {
		name = v.Icon + " " + name
	}
	row := fmt.Sprintf("%s %s %s", marker, fitWidth(name, r.senderWidth), rightFit(fmt.Sprint(count), countWidth))
	if !v.Visible {
		row += "  (hidden)"
	}
	return row
}

// FormatCondition renders a condition in words, e.g. "any of: Work, Home"
func (r *Renderer) FormatCondition(c models.Condition) string {
	names := make([]string, 0, len(c.Tags))
	for _, id := range c.Tags {
		if name, ok := r.tagNames[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id+"?")
		}
	}
	list := strings.Join(names, ", ")
	if list == "" {
		list = "(no tags)"
	}
	switch c.Type {
	case models.ConditionIncludesAny:
		return "any of: " + list
	case models.ConditionIncludesAll:
		return "all of: " + list
	case models.ConditionExcludesAny:
		return "none of: " + list
	}
	return fmt.Sprintf("%s: %s", c.Type, list)
}

// FormatTagDetail renders a tag with its instructions and examples
func (r *Renderer) FormatTagDetail(t models.Tag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", t.Name, t.ID)
	if len(t.Instructions) > 0 {
		b.WriteString("Instructions:\n")
		for i, in := range t.Instructions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, in)
		}
	}
	if len(t.ExampleEmails) > 0 {
		b.WriteString("Examples:\n")
		for _, ex := range t.ExampleEmails {
			fmt.Fprintf(&b, "  + %s\n", fitWidth(ex, r.subjectWidth))
		}
	}
	if len(t.NegativeExamples) > 0 {
		b.WriteString("Negative examples:\n")
		for _, ex := range t.NegativeExamples {
			fmt.Fprintf(&b, "  - %s  %s\n", fitWidth(ex.Subject, r.subjectWidth), ex.Timestamp.Format("2006-01-02"))
		}
	}
	return b.String()
}

func (r *Renderer) formatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	if r.dateFormat != "" {
		return date.Format(r.dateFormat)
	}
	return formatRelativeTime(r.now().Sub(date), date)
}

func formatRelativeTime(diff time.Duration, date time.Time) string {
	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(diff.Hours()/24))
	default:
		return date.Format("Jan 2")
	}
}

// extractSenderName handles "Name <email@domain.com>"
func extractSenderName(from string) string {
	if i := strings.Index(from, "<"); i > 0 && strings.Contains(from[i:], ">") {
		return strings.Trim(strings.TrimSpace(from[:i]), `"`)
	}
	return strings.TrimSpace(from)
}

// fitWidth truncates and pads on the right to fit a fixed width
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "...")
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// rightFit truncates and right-aligns to width
func rightFit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "")
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}
