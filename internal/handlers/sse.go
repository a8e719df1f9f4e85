package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
)

// sseWriter writes Server-Sent Events onto a fasthttp body stream.
type sseWriter struct {
	w *bufio.Writer
}

func newSSEWriter(w *bufio.Writer) *sseWriter {
	return &sseWriter{w: w}
}

// WriteEvent sends one event and flushes it to the client.
func (s *sseWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	return s.w.Flush()
}
