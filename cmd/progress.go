package main

import (
	"fmt"
	"io"
)

// consoleProgress prints status lines and a one-line progress counter.
type consoleProgress struct {
	w          io.Writer
	inProgress bool
}

func (p *consoleProgress) OnStatus(line string) {
	if p.inProgress {
		fmt.Fprintln(p.w)
		p.inProgress = false
	}
	fmt.Fprintln(p.w, line)
}

func (p *consoleProgress) OnProgress(done, total int) {
	if total <= 0 {
		return
	}
	fmt.Fprintf(p.w, "\r进度 %3d%% (%d/%d)", done*100/total, done, total)
	p.inProgress = done < total
	if !p.inProgress {
		fmt.Fprintln(p.w)
	}
}
