package protocol

// Versioned wraps a field that only exists on the wire from a certain
// protocol revision onward. Below that revision it occupies zero bytes
// and decodes to an explicit unsupported state, so "the server predates
// this field" is distinguishable from a zero value.
type Versioned[T any] struct {
	value   T
	present bool
}

// VersionedOf wraps a value as present.
func VersionedOf[T any](v T) Versioned[T] {
	return Versioned[T]{value: v, present: true}
}

// Supported reports whether the field existed at the session's
// negotiated protocol version.
func (v Versioned[T]) Supported() bool { return v.present }

// Value returns the wrapped value and whether it is present.
func (v Versioned[T]) Value() (T, bool) { return v.value, v.present }

// Or returns the wrapped value, or def when the field is unsupported.
func (v Versioned[T]) Or(def T) T {
	if v.present {
		return v.value
	}
	return def
}

// ReadVersioned decodes a version-gated field. When the reader's
// protocol version is below minVersion, no bytes are consumed and the
// unsupported state is returned.
func ReadVersioned[T any](r *Reader, minVersion uint32, read func(*Reader) (T, error)) (Versioned[T], error) {
	if r.Version() < minVersion {
		return Versioned[T]{}, nil
	}
	v, err := read(r)
	if err != nil {
		return Versioned[T]{}, err
	}
	return VersionedOf(v), nil
}

// WriteVersioned encodes a version-gated field. Below minVersion the
// field encodes to zero bytes regardless of its state.
func WriteVersioned[T any](w *Writer, minVersion uint32, v Versioned[T], write func(*Writer, T) error) error {
	if w.Version() < minVersion {
		return nil
	}
	val, ok := v.Value()
	if !ok {
		// Field is required at this version but the value was decoded
		// from an older server; emit the zero value.
		var zero T
		val = zero
	}
	return write(w, val)
}

// VersionedSize returns the encoded size of a version-gated field:
// zero below minVersion, the value's size otherwise.
func VersionedSize[T any](version, minVersion uint32, v Versioned[T], size func(T) int) int {
	if version < minVersion {
		return 0
	}
	val, ok := v.Value()
	if !ok {
		var zero T
		val = zero
	}
	return size(val)
}
