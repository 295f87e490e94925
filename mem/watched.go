package mem

import "github.com/1whatleytay/titan/cpu"

// BackupValueKind distinguishes what width (if any) a WatchEntry captured.
type BackupValueKind int

const (
	BackupNull BackupValueKind = iota
	BackupByte
	BackupShort
	BackupWord
)

// WatchEntry records the prior value at address before a write, so the
// history tracker can invert it later.
type WatchEntry struct {
	Address  uint32
	Kind     BackupValueKind
	Previous uint32
}

// Apply restores the captured prior value; Null entries (the read that
// captured them itself failed) are a no-op.
func (e WatchEntry) Apply(m cpu.Memory) error {
	switch e.Kind {
	case BackupByte:
		return m.Set(e.Address, uint8(e.Previous))
	case BackupShort:
		return m.SetU16(e.Address, uint16(e.Previous))
	case BackupWord:
		return m.SetU32(e.Address, e.Previous)
	default:
		return nil
	}
}

// WatchedMemory wraps any cpu.Memory and journals every write so it can be
// undone later (the executor's backstep); reads pass straight through.
type WatchedMemory struct {
	Backing cpu.Memory
	log     []WatchEntry
}

func NewWatchedMemory(backing cpu.Memory) *WatchedMemory {
	return &WatchedMemory{Backing: backing}
}

// Take returns and clears the journal accumulated since the last call.
func (w *WatchedMemory) Take() []WatchEntry {
	entries := w.log
	w.log = nil
	return entries
}

func (w *WatchedMemory) Get(address uint32) (uint8, error) { return w.Backing.Get(address) }
func (w *WatchedMemory) GetU16(address uint32) (uint16, error) {
	return w.Backing.GetU16(address)
}
func (w *WatchedMemory) GetU32(address uint32) (uint32, error) {
	return w.Backing.GetU32(address)
}

func (w *WatchedMemory) Set(address uint32, value uint8) error {
	entry := WatchEntry{Address: address, Kind: BackupNull}
	if prev, err := w.Backing.Get(address); err == nil {
		entry.Kind, entry.Previous = BackupByte, uint32(prev)
	}
	w.log = append(w.log, entry)
	return w.Backing.Set(address, value)
}

func (w *WatchedMemory) SetU16(address uint32, value uint16) error {
	entry := WatchEntry{Address: address, Kind: BackupNull}
	if prev, err := w.Backing.GetU16(address); err == nil {
		entry.Kind, entry.Previous = BackupShort, uint32(prev)
	}
	w.log = append(w.log, entry)
	return w.Backing.SetU16(address, value)
}

func (w *WatchedMemory) SetU32(address uint32, value uint32) error {
	entry := WatchEntry{Address: address, Kind: BackupNull}
	if prev, err := w.Backing.GetU32(address); err == nil {
		entry.Kind, entry.Previous = BackupWord, prev
	}
	w.log = append(w.log, entry)
	return w.Backing.SetU32(address, value)
}

// Mount forwards to the backing memory if it accepts mounted regions.
func (w *WatchedMemory) Mount(region Region) {
	if mountable, ok := w.Backing.(Mountable); ok {
		mountable.Mount(region)
	}
}
