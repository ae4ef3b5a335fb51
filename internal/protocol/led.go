package protocol

// LED is a single addressable LED. The value is an internal controller
// flag with no defined client-side meaning.
type LED struct {
	Name  string
	Value uint32
}

func (l *LED) Decode(r *Reader) error {
	var err error
	if l.Name, err = r.ReadString(); err != nil {
		return err
	}
	l.Value, err = r.ReadU32()
	return err
}
