// Package blocks models a support plan's content as an ordered sequence of
// typed, titled blocks, and provides the in-memory editor that mutates it.
package blocks

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Key is a category tag from the fixed block vocabulary. It selects default
// display metadata (title, icon, color) but is otherwise inert data.
type Key string

const (
	KeyDiagnosis          Key = "diagnosis"
	KeyRecommendations    Key = "recommendations"
	KeyEmotionalSupport   Key = "emotional_support"
	KeyFamilyTips         Key = "family_tips"
	KeyTrackingIndicators Key = "tracking_indicators"
	KeyGoal               Key = "goal"
	KeyStrategy           Key = "strategy"
	KeyActivities         Key = "activities"
	KeyResources          Key = "resources"
	KeyCustom             Key = "custom"
)

// CanonicalOrder is the display order used when a legacy keyed plan is
// converted to a block list.
var CanonicalOrder = []Key{
	KeyDiagnosis,
	KeyGoal,
	KeyStrategy,
	KeyRecommendations,
	KeyEmotionalSupport,
	KeyFamilyTips,
	KeyActivities,
	KeyResources,
	KeyTrackingIndicators,
}

// KnownKey reports whether k belongs to the fixed vocabulary.
func KnownKey(k Key) bool {
	if k == KeyCustom {
		return true
	}
	for _, c := range CanonicalOrder {
		if c == k {
			return true
		}
	}
	return false
}

// Content is either free text or an arbitrary structured fragment produced by
// the generation service. Exactly one variant is set.
type Content struct {
	text       string
	structured json.RawMessage
}

func TextContent(s string) Content { return Content{text: s} }

func StructuredContent(raw json.RawMessage) Content {
	return Content{structured: append(json.RawMessage(nil), raw...)}
}

func (c Content) IsText() bool { return c.structured == nil }

func (c Content) Text() string { return c.text }

func (c Content) Structured() json.RawMessage { return c.structured }

// Display renders the content for presentation: the text itself, or the
// structured form as indented JSON.
func (c Content) Display() string {
	if c.IsText() {
		return c.text
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, c.structured, "", "  "); err != nil {
		return string(c.structured)
	}
	return buf.String()
}

// Empty reports whether the content carries nothing renderable.
func (c Content) Empty() bool {
	if c.IsText() {
		return strings.TrimSpace(c.text) == ""
	}
	return len(bytes.TrimSpace(c.structured)) == 0
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsText() {
		return json.Marshal(c.text)
	}
	return c.structured, nil
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Content{}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*c = Content{text: s}
		return nil
	}
	if !json.Valid(trimmed) {
		return errInvalidContent
	}
	*c = Content{structured: append(json.RawMessage(nil), trimmed...)}
	return nil
}

// Block is one titled, typed unit of plan content.
type Block struct {
	ID      string  `json:"id"`
	Key     Key     `json:"key"`
	Title   string  `json:"title,omitempty"`
	Content Content `json:"content"`
}

// TitleOr returns the block title, falling back to the given default when the
// title is absent.
func (b Block) TitleOr(def string) string {
	if strings.TrimSpace(b.Title) != "" {
		return b.Title
	}
	return def
}

// MarshalCanonical serializes a block sequence in the canonical array form
// stored in plan_json.
func MarshalCanonical(seq []Block) (string, error) {
	if seq == nil {
		seq = []Block{}
	}
	b, err := json.Marshal(seq)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
