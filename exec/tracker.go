package exec

import "github.com/1whatleytay/titan/cpu"

// Tracker observes each instruction the Executor steps, before and after
// it runs, so implementations like HistoryTracker can snapshot state for
// later backstepping.
type Tracker interface {
	PreTrack(state *cpu.State)
	PostTrack(state *cpu.State)
}

// EmptyTracker is the default Tracker: it observes nothing, so stepping
// costs nothing beyond the CPU cycle itself.
type EmptyTracker struct{}

func (EmptyTracker) PreTrack(*cpu.State)  {}
func (EmptyTracker) PostTrack(*cpu.State) {}
