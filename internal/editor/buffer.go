// Package editor holds the typewriter's editing state machine: the text
// buffer, the scroll-back window and the key dispatch that mutates them.
package editor

import (
	"fmt"
	"unicode"
)

// Persister stores committed lines. Calls are made from the editor loop only.
type Persister interface {
	SaveWorking(lines []string) error
	Snapshot(lines []string) (string, error)
}

// Buffer is the committed line history plus the line being typed.
type Buffer struct {
	charsPerLine int
	committed    []string
	active       []rune
	cursor       int
	store        Persister
}

// NewBuffer returns a buffer seeded with previously persisted lines. store
// may be nil, in which case nothing is persisted.
func NewBuffer(charsPerLine int, lines []string, store Persister) *Buffer {
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	return &Buffer{
		charsPerLine: charsPerLine,
		committed:    append([]string(nil), lines...),
		store:        store,
	}
}

func (b *Buffer) CharsPerLine() int { return b.charsPerLine }
func (b *Buffer) Active() string    { return string(b.active) }
func (b *Buffer) Cursor() int       { return b.cursor }
func (b *Buffer) LineCount() int    { return len(b.committed) }

// Lines returns a copy of the committed history.
func (b *Buffer) Lines() []string { return append([]string(nil), b.committed...) }

// Slice returns a copy of committed[start:end].
func (b *Buffer) Slice(start, end int) []string {
	return append([]string(nil), b.committed[start:end]...)
}

// Insert puts r at the cursor and advances it.
func (b *Buffer) Insert(r rune) {
	if b.cursor < 0 || b.cursor > len(b.active) {
		return
	}
	b.active = append(b.active, 0)
	copy(b.active[b.cursor+1:], b.active[b.cursor:])
	b.active[b.cursor] = r
	b.cursor++
}

// Delete removes the rune before the cursor.
func (b *Buffer) Delete() {
	if b.cursor <= 0 || b.cursor > len(b.active) {
		return
	}
	b.active = append(b.active[:b.cursor-1], b.active[b.cursor:]...)
	b.cursor--
}

// MaybeWrap commits the head of an over-long active line. The split is the
// last whitespace at or before index charsPerLine; a line with no whitespace
// in range is cut hard at charsPerLine.
func (b *Buffer) MaybeWrap() RefreshIntent {
	intent := IntentNone
	for len(b.active) > b.charsPerLine {
		split := -1
		for i := b.charsPerLine; i >= 0; i-- {
			if unicode.IsSpace(b.active[i]) {
				split = i
				break
			}
		}
		var head, rest []rune
		if split >= 0 {
			head, rest = b.active[:split], b.active[split+1:]
		} else {
			head, rest = b.active[:b.charsPerLine], b.active[b.charsPerLine:]
		}
		b.committed = append(b.committed, string(head))
		b.active = append([]rune(nil), rest...)
		b.cursor = len(b.active)
		intent = IntentFullFrame
	}
	return intent
}

// CommitLine moves the active line, even when empty, into history and
// persists the working file.
func (b *Buffer) CommitLine() error {
	b.committed = append(b.committed, string(b.active))
	b.active = nil
	b.cursor = 0
	return b.Persist()
}

// Persist writes the committed history to the working file.
func (b *Buffer) Persist() error {
	if b.store == nil {
		return nil
	}
	if err := b.store.SaveWorking(b.committed); err != nil {
		return fmt.Errorf("save working document: %w", err)
	}
	return nil
}

// Snapshot saves the committed history under a timestamped name.
func (b *Buffer) Snapshot() (string, error) {
	if b.store == nil {
		return "", nil
	}
	name, err := b.store.Snapshot(b.committed)
	if err != nil {
		return "", fmt.Errorf("snapshot document: %w", err)
	}
	return name, nil
}

// NewDocument snapshots the current history and then empties the buffer.
// Nothing is cleared when the snapshot fails.
func (b *Buffer) NewDocument() (string, error) {
	name, err := b.Snapshot()
	if err != nil {
		return "", err
	}
	b.committed = nil
	b.active = nil
	b.cursor = 0
	if err := b.Persist(); err != nil {
		return name, err
	}
	return name, nil
}
