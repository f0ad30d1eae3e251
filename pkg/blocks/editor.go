package blocks

import "github.com/google/uuid"

type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// Editor maintains an ordered block sequence in memory. It never talks to
// persistence; callers take the sequence via Blocks when they decide to save.
// All mutating operations preserve id uniqueness, and unknown ids are silent
// no-ops.
type Editor struct {
	seq    []Block
	titles TitleFunc
}

// NewEditor copies the given sequence. Blocks arriving without an id get a
// fresh one so the uniqueness invariant holds from the start.
func NewEditor(seq []Block, titles TitleFunc) *Editor {
	e := &Editor{titles: titles}
	seen := map[string]bool{}
	for _, b := range seq {
		if b.ID == "" || seen[b.ID] {
			b.ID = uuid.NewString()
		}
		seen[b.ID] = true
		e.seq = append(e.seq, b)
	}
	return e
}

func (e *Editor) Len() int { return len(e.seq) }

// Blocks returns a copy of the current ordered sequence.
func (e *Editor) Blocks() []Block {
	out := make([]Block, len(e.seq))
	copy(out, e.seq)
	return out
}

// Get returns the block with the given id, if present.
func (e *Editor) Get(id string) (Block, bool) {
	for _, b := range e.seq {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// UpdateContent replaces content and title of the block matching id.
func (e *Editor) UpdateContent(id string, content Content, title string) {
	for i := range e.seq {
		if e.seq[i].ID == id {
			e.seq[i].Content = content
			e.seq[i].Title = title
			return
		}
	}
}

// Delete removes the block matching id.
func (e *Editor) Delete(id string) {
	for i := range e.seq {
		if e.seq[i].ID == id {
			e.seq = append(e.seq[:i], e.seq[i+1:]...)
			return
		}
	}
}

// Move swaps the block at index with its neighbor. Moving past either end of
// the sequence is a no-op, not an error.
func (e *Editor) Move(index int, dir Direction) {
	if index < 0 || index >= len(e.seq) {
		return
	}
	j := index
	switch dir {
	case MoveUp:
		j = index - 1
	case MoveDown:
		j = index + 1
	default:
		return
	}
	if j < 0 || j >= len(e.seq) {
		return
	}
	e.seq[index], e.seq[j] = e.seq[j], e.seq[index]
}

// AddCustom appends a new custom block with a fresh id and the localized
// default title, and returns it.
func (e *Editor) AddCustom() Block {
	title := string(KeyCustom)
	if e.titles != nil {
		title = e.titles(KeyCustom)
	}
	b := Block{
		ID:      uuid.NewString(),
		Key:     KeyCustom,
		Title:   title,
		Content: TextContent(""),
	}
	e.seq = append(e.seq, b)
	return b
}
