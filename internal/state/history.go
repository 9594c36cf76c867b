// Package state holds the undo/redo history of committed sketch commands.
package state

import (
	"log"
	"slices"

	"github.com/melikestuff/CMPM121-D2/internal/sketch"
)

// History is the ordered list of committed commands plus a redo stack.
//
// Commands move between the two lists by reference only; nothing is copied
// or replayed, so a redone command renders exactly as it did before undo.
// History is not safe for concurrent use.
type History struct {
	committed []sketch.Command // paint order, oldest first
	undone    []sketch.Command // redo stack, top is last
	clock     Clock
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Commit appends cmd and drops everything that could have been redone.
func (h *History) Commit(cmd sketch.Command) {
	h.committed = append(h.committed, cmd)
	if len(h.undone) > 0 {
		log.Printf("[HISTORY] commit %s %s discards %d undone", cmd.Kind(), cmd.CommandID(), len(h.undone))
	}
	clear(h.undone)
	h.undone = h.undone[:0]
	h.clock.Tick()
}

// Undo moves the newest committed command onto the redo stack.
// It reports false and changes nothing when there is nothing to undo.
func (h *History) Undo() (sketch.Command, bool) {
	n := len(h.committed)
	if n == 0 {
		return nil, false
	}
	cmd := h.committed[n-1]
	h.committed[n-1] = nil
	h.committed = h.committed[:n-1]
	h.undone = append(h.undone, cmd)
	h.clock.Tick()
	return cmd, true
}

// Redo moves the top of the redo stack back to the end of the paint order.
// It reports false and changes nothing when the redo stack is empty.
func (h *History) Redo() (sketch.Command, bool) {
	n := len(h.undone)
	if n == 0 {
		return nil, false
	}
	cmd := h.undone[n-1]
	h.undone[n-1] = nil
	h.undone = h.undone[:n-1]
	h.committed = append(h.committed, cmd)
	h.clock.Tick()
	return cmd, true
}

// Clear empties both lists.
func (h *History) Clear() {
	h.committed = nil
	h.undone = nil
	h.clock.Tick()
}

// Committed returns the paint order, oldest first. The slice is a copy;
// the commands are not.
func (h *History) Committed() []sketch.Command {
	return slices.Clone(h.committed)
}

// Undone returns the redo stack from bottom to top.
func (h *History) Undone() []sketch.Command {
	return slices.Clone(h.undone)
}

// Last returns the newest committed command, or nil.
func (h *History) Last() sketch.Command {
	if len(h.committed) == 0 {
		return nil
	}
	return h.committed[len(h.committed)-1]
}

// Len returns the number of committed commands.
func (h *History) Len() int { return len(h.committed) }

// UndoneLen returns the depth of the redo stack.
func (h *History) UndoneLen() int { return len(h.undone) }

func (h *History) CanUndo() bool { return len(h.committed) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Revision changes whenever the history changes.
func (h *History) Revision() uint64 { return h.clock.Now() }
