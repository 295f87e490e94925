package exec

import (
	"github.com/1whatleytay/titan/cpu"
	"github.com/1whatleytay/titan/mem"
)

// HistoryEntry captures the register file before an instruction ran plus
// the memory edits it made, enough to invert the step entirely.
type HistoryEntry struct {
	Registers cpu.Registers
	Edits     []mem.WatchEntry
}

// Apply rewinds state to what it was before this entry's instruction ran.
func (e HistoryEntry) Apply(registers *cpu.Registers, memory cpu.Memory) {
	*registers = e.Registers

	for _, entry := range e.Edits {
		entry.Apply(memory) // ignore error, same as the Rust .ok()
	}
}

// HistoryTracker is a bounded FIFO of HistoryEntry, used to back the
// debugger's step-backward command. It only tracks state backed by a
// *mem.WatchedMemory — PostTrack is a no-op against anything else, since
// there would be no edit log to read from.
type HistoryTracker struct {
	buffer   []HistoryEntry
	capacity int
	pending  *cpu.Registers
}

func NewHistoryTracker(capacity int) *HistoryTracker {
	return &HistoryTracker{capacity: capacity}
}

func (h *HistoryTracker) push(entry HistoryEntry) {
	if len(h.buffer) == h.capacity {
		h.buffer = h.buffer[1:]
	}
	h.buffer = append(h.buffer, entry)
}

// Pop removes and returns the most recent entry, for backstep.
func (h *HistoryTracker) Pop() (HistoryEntry, bool) {
	if len(h.buffer) == 0 {
		return HistoryEntry{}, false
	}
	entry := h.buffer[len(h.buffer)-1]
	h.buffer = h.buffer[:len(h.buffer)-1]
	return entry, true
}

func (h *HistoryTracker) Last() (HistoryEntry, bool) {
	if len(h.buffer) == 0 {
		return HistoryEntry{}, false
	}
	return h.buffer[len(h.buffer)-1], true
}

func (h *HistoryTracker) Len() int      { return len(h.buffer) }
func (h *HistoryTracker) IsEmpty() bool { return len(h.buffer) == 0 }

func (h *HistoryTracker) PreTrack(state *cpu.State) {
	registers := state.Registers
	h.pending = &registers
}

func (h *HistoryTracker) PostTrack(state *cpu.State) {
	if h.pending == nil {
		return
	}

	watched, ok := state.Memory.(*mem.WatchedMemory)
	if !ok {
		h.pending = nil
		return
	}

	h.push(HistoryEntry{
		Registers: *h.pending,
		Edits:     watched.Take(),
	})
	h.pending = nil
}
