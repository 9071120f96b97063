package models

import (
	"time"
)

// MaxTagInstructions bounds the number of free-text instructions a tag may carry
const MaxTagInstructions = 5

// ConditionType is the matching mode of a view condition
type ConditionType string

const (
	ConditionIncludesAny ConditionType = "includes-any" // OR
	ConditionIncludesAll ConditionType = "includes-all" // AND
	ConditionExcludesAny ConditionType = "excludes-any" // NOR
)

// Valid reports whether t is one of the known matching modes
func (t ConditionType) Valid() bool {
	switch t {
	case ConditionIncludesAny, ConditionIncludesAll, ConditionExcludesAny:
		return true
	}
	return false
}

// NegativeExample is a snapshot of a message recorded against a tag when the
// user removed the tag and flagged the message as a counter-example
type NegativeExample struct {
	Subject   string    `json:"subject" yaml:"subject"`
	Preview   string    `json:"preview" yaml:"preview"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Tag is a named label attachable to messages
type Tag struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Instructions     []string          `json:"instructions,omitempty" yaml:"instructions,omitempty"`         // Opaque, at most MaxTagInstructions
	ExampleEmails    []string          `json:"examples,omitempty" yaml:"examples,omitempty"`                 // Message references
	NegativeExamples []NegativeExample `json:"negativeExamples,omitempty" yaml:"negativeExamples,omitempty"` // Counter-examples
}

// Clone returns a deep copy of the tag
func (t Tag) Clone() Tag {
	out := t
	out.Instructions = cloneStrings(t.Instructions)
	out.ExampleEmails = cloneStrings(t.ExampleEmails)
	if t.NegativeExamples != nil {
		out.NegativeExamples = append([]NegativeExample(nil), t.NegativeExamples...)
	}
	return out
}

// Condition is a single rule within a view
type Condition struct {
	Type ConditionType `json:"type" yaml:"type"`
	Tags []string      `json:"tags" yaml:"tags"`
}

// View is a named saved filter over tags
type View struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Visible    bool        `json:"visible" yaml:"visible"`
	Icon       string      `json:"icon" yaml:"icon"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
}

// Clone returns a deep copy of the view
func (v View) Clone() View {
	out := v
	if v.Conditions != nil {
		out.Conditions = make([]Condition, len(v.Conditions))
		for i, c := range v.Conditions {
			out.Conditions[i] = Condition{Type: c.Type, Tags: cloneStrings(c.Tags)}
		}
	}
	return out
}

// Message is an email record supplied by the mail source
type Message struct {
	ID      string    `json:"id" yaml:"id"`
	Sender  string    `json:"sender" yaml:"sender"`
	Subject string    `json:"subject" yaml:"subject"`
	Preview string    `json:"preview" yaml:"preview"`
	Date    time.Time `json:"date" yaml:"date"`
	Tags    []string  `json:"tags" yaml:"tags"`
}

// HasTag reports whether the message carries the given tag ID
func (m Message) HasTag(tagID string) bool {
	for _, t := range m.Tags {
		if t == tagID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the message
func (m Message) Clone() Message {
	out := m
	out.Tags = cloneStrings(m.Tags)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
