package reader

import (
	"fmt"
	"io"
	"os"
)

// StdoutTarget echoes each utterance to the console.
type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnUtterance(text string) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintf(w, "Reading: %s\n", text)
	return err
}
