package writer

// MemWriter captures documents in memory.
type MemWriter struct {
	Buf    []byte
	Writes int
	Err    error // returned by Write when set; Buf is left untouched
}

var _ Sink = (*MemWriter)(nil)

// Write keeps a copy of the latest document.
func (w *MemWriter) Write(buf []byte) error {
	if w.Err != nil {
		return w.Err
	}
	w.Buf = append(w.Buf[:0], buf...)
	w.Writes++
	return nil
}
