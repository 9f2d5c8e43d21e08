// Package progress decouples the pipelines from whatever shows their progress.
package progress

// Observer receives status lines and unit progress from a running pipeline.
// Pipelines call it from a single goroutine.
type Observer interface {
	// OnStatus appends one line to the status log.
	OnStatus(line string)
	// OnProgress is called after each unit of work with the completed and total counts.
	OnProgress(done, total int)
}

// Nop discards every event.
type Nop struct{}

func (Nop) OnStatus(string)     {}
func (Nop) OnProgress(int, int) {}

// Or returns obs, or Nop when obs is nil.
func Or(obs Observer) Observer {
	if obs == nil {
		return Nop{}
	}
	return obs
}

// Recorder keeps every event in memory.
type Recorder struct {
	Lines    []string
	Progress [][2]int
}

func (r *Recorder) OnStatus(line string) {
	r.Lines = append(r.Lines, line)
}

func (r *Recorder) OnProgress(done, total int) {
	r.Progress = append(r.Progress, [2]int{done, total})
}
