package blocks

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"

	"github.com/google/uuid"
)

var (
	errInvalidContent = errors.New("blocks: content is not valid JSON")

	// ErrBadDocument means plan content could not be interpreted as either
	// the ordered block array or the legacy keyed-object shape.
	ErrBadDocument = errors.New("blocks: unrecognized plan document shape")
)

// Document is the tagged union of the two plan_json shapes: the canonical
// ordered block array, or the legacy object keyed by section name. Normalize
// is the single place the legacy shape is converted; everything downstream
// sees only the ordered sequence.
type Document struct {
	List   []Block
	Legacy map[string]json.RawMessage
}

func (d Document) IsLegacy() bool { return d.Legacy != nil }

// ParseDocument interprets raw plan content. A JSON string wrapping either
// shape (as some generation responses return) is unwrapped first.
func ParseDocument(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Document{}, ErrBadDocument
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return ParseDocument([]byte(s))
	}

	var list []Block
	if err := json.Unmarshal(trimmed, &list); err == nil {
		return Document{List: list}, nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keyed); err == nil {
		return Document{Legacy: keyed}, nil
	}

	return Document{}, ErrBadDocument
}

// TitleFunc resolves a localized default title for a block key.
type TitleFunc func(Key) string

// Normalize produces the canonical ordered sequence. Ids are guaranteed unique
// on the way out: missing or duplicate ids get a freshly minted one. Legacy
// entries are ordered by the canonical key order, then lexicographically for
// keys outside the vocabulary.
func (d Document) Normalize(titles TitleFunc) []Block {
	if d.IsLegacy() {
		return d.normalizeLegacy(titles)
	}

	out := make([]Block, 0, len(d.List))
	seen := map[string]bool{}
	for _, b := range d.List {
		if b.ID == "" || seen[b.ID] {
			b.ID = uuid.NewString()
		}
		seen[b.ID] = true
		if b.Key == "" {
			b.Key = KeyCustom
		}
		out = append(out, b)
	}
	return out
}

func (d Document) normalizeLegacy(titles TitleFunc) []Block {
	ordered := make([]string, 0, len(d.Legacy))
	inVocabulary := map[string]bool{}
	for _, k := range CanonicalOrder {
		if _, ok := d.Legacy[string(k)]; ok {
			ordered = append(ordered, string(k))
			inVocabulary[string(k)] = true
		}
	}
	var rest []string
	for k := range d.Legacy {
		if !inVocabulary[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	out := make([]Block, 0, len(ordered))
	for _, name := range ordered {
		key := Key(name)
		title := ""
		if !KnownKey(key) {
			key = KeyCustom
			title = name
		} else if titles != nil {
			title = titles(key)
		}

		var content Content
		if err := content.UnmarshalJSON(d.Legacy[name]); err != nil {
			content = TextContent(string(d.Legacy[name]))
		}
		out = append(out, Block{
			ID:      uuid.NewString(),
			Key:     key,
			Title:   title,
			Content: content,
		})
	}
	return out
}
