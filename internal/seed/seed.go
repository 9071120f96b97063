// Package seed loads initial tags, views and messages from YAML or JSON
// files, and carries the built-in starter collection used on first run.
package seed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ajramos/tagview/internal/models"
	"gopkg.in/yaml.v3"
)

// Accepted layouts for message dates in seed files
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// seedMessage keeps the date as text so several layouts can be accepted
type seedMessage struct {
	ID      string   `yaml:"id"`
	Sender  string   `yaml:"sender"`
	Subject string   `yaml:"subject"`
	Preview string   `yaml:"preview"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
}

// LoadTags reads tags from path. The file holds either a bare list or a
// document with a top-level "tags" key.
func LoadTags(path string) ([]models.Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag seed: %w", err)
	}
	tags, err := ParseTags(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tag seed %s: %w", path, err)
	}
	return tags, nil
}

// ParseTags decodes a tag seed document
func ParseTags(data []byte) ([]models.Tag, error) {
	seq, err := collection(data, "tags")
	if err != nil || seq == nil {
		return nil, err
	}
	var list []models.Tag
	if err := seq.Decode(&list); err != nil {
		return nil, err
	}
	for i, t := range list {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("tag %d has no id", i)
		}
	}
	return list, nil
}

// LoadViews reads views from path (bare list or "views" key)
func LoadViews(path string) ([]models.View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read view seed: %w", err)
	}
	views, err := ParseViews(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse view seed %s: %w", path, err)
	}
	return views, nil
}

// ParseViews decodes a view seed document. Views without an explicit
// "visible" key are visible.
func ParseViews(data []byte) ([]models.View, error) {
	seq, err := collection(data, "views")
	if err != nil || seq == nil {
		return nil, err
	}

	views := make([]models.View, 0, len(seq.Content))
	for i, node := range seq.Content {
		var v models.View
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("view %d: %w", i, err)
		}
		if !hasKey(node, "visible") {
			v.Visible = true
		}
		if strings.TrimSpace(v.ID) == "" {
			return nil, fmt.Errorf("view %d has no id", i)
		}
		for j, c := range v.Conditions {
			if !c.Type.Valid() {
				return nil, fmt.Errorf("view %s condition %d: unknown type %q", v.ID, j, c.Type)
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// LoadMessages reads messages from path. Accepts a bare list or a document
// with an "emails" or "messages" key.
func LoadMessages(path string) ([]models.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message seed: %w", err)
	}
	messages, err := ParseMessages(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message seed %s: %w", path, err)
	}
	return messages, nil
}

// ParseMessages decodes a message seed document
func ParseMessages(data []byte) ([]models.Message, error) {
	seq, err := collection(data, "emails", "messages")
	if err != nil || seq == nil {
		return nil, err
	}
	var raw []seedMessage
	if err := seq.Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]models.Message, 0, len(raw))
	for i, m := range raw {
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("message %d has no id", i)
		}
		date, err := ParseDate(m.Date)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", m.ID, err)
		}
		out = append(out, models.Message{
			ID:      m.ID,
			Sender:  m.Sender,
			Subject: m.Subject,
			Preview: m.Preview,
			Date:    date,
			Tags:    m.Tags,
		})
	}
	return out, nil
}

// ParseDate accepts RFC 3339 and a few shorter layouts. Empty is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// collection returns the sequence holding the records: the document itself
// when it is a list, otherwise the value of the first matching key. An empty
// document yields nil.
func collection(data []byte, keys ...string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return root, nil
	case yaml.MappingNode:
		for _, key := range keys {
			if v := valueOf(root, key); v != nil {
				if v.Kind != yaml.SequenceNode {
					return nil, fmt.Errorf("%q must be a list", key)
				}
				return v, nil
			}
		}
		return nil, fmt.Errorf("expected a list or one of the keys %s", strings.Join(keys, ", "))
	}
	return nil, fmt.Errorf("expected a list or a mapping")
}

func valueOf(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	return node.Kind == yaml.MappingNode && valueOf(node, key) != nil
}
