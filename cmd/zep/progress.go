package main

import (
	"fmt"
	"io"
)

// stderrProgress prints a carriage-return-updated byte counter. It
// implements streamio.ProgressObserver.
type stderrProgress struct {
	w io.Writer
}

func (p stderrProgress) OnProgress(done, total int64) {
	if total > 0 {
		fmt.Fprintf(p.w, "\r%d/%d bytes", done, total)
		return
	}
	fmt.Fprintf(p.w, "\r%d bytes", done)
}
