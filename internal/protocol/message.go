package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Encodable is implemented by values that can be serialized to the wire.
// Size must return the exact number of bytes Encode will produce for the
// given protocol version; framing relies on it to emit length fields
// before the body is assembled.
type Encodable interface {
	Size(version uint32) int
	Encode(w *Writer) error
}

// Decodable is implemented by values that can be deserialized from the
// wire. Kept separate from Encodable so read-only wire types (controller
// data, LEDs) stay honest about what they support.
type Decodable interface {
	Decode(r *Reader) error
}

// Writer is a growable write buffer tagged with the protocol version in
// effect, so nested values encode consistently with the session.
type Writer struct {
	version uint32
	buf     []byte
}

// NewWriter creates a write buffer for the given protocol version.
func NewWriter(version uint32) *Writer {
	return &Writer{version: version, buf: make([]byte, 0, 64)}
}

// Version returns the protocol version this buffer encodes for.
func (w *Writer) Version() uint32 { return w.version }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the accumulated buffer. The slice is only valid until
// the next write.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteU8 appends a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16 appends a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteU32 appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteI32 appends a little-endian int32.
func (w *Writer) WriteI32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

// WriteRaw appends raw bytes with no length prefix.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString appends a string in OpenRGB wire format: a uint16 length
// that counts the trailing NUL, the UTF-8 bytes, then a NUL terminator.
// Strings longer than the 16-bit length field can carry are an error,
// never silently truncated.
func (w *Writer) WriteString(s string) error {
	if len(s)+1 > math.MaxUint16 {
		return protoErrorf("string of %d bytes exceeds the u16 length prefix", len(s))
	}
	w.WriteU16(uint16(len(s) + 1))
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	return nil
}

// WriteValue encodes v into the buffer and verifies that the byte count
// matches v.Size. A mismatch is a codec bug, not bad input, so it panics
// rather than returning a recoverable error.
func (w *Writer) WriteValue(v Encodable) error {
	want := v.Size(w.version)
	start := len(w.buf)
	if err := v.Encode(w); err != nil {
		return err
	}
	if got := len(w.buf) - start; got != want {
		panic(fmt.Sprintf("protocol: %T encoded %d bytes but reported size %d", v, got, want))
	}
	return nil
}

// StringSize returns the encoded size of a string: length prefix, bytes,
// NUL terminator.
func StringSize(s string) int {
	return 2 + len(s) + 1
}

// WriteList appends a uint16 element count followed by each element.
// Fixed-size arrays share this encoding: the count is written even when
// it is statically known.
func WriteList[T Encodable](w *Writer, items []T) error {
	if len(items) > math.MaxUint16 {
		return protoErrorf("sequence of %d elements exceeds the u16 count prefix", len(items))
	}
	w.WriteU16(uint16(len(items)))
	for i := range items {
		if err := w.WriteValue(items[i]); err != nil {
			return err
		}
	}
	return nil
}

// WriteU8List appends a uint16 count followed by the raw bytes.
func (w *Writer) WriteU8List(b []byte) error {
	if len(b) > math.MaxUint16 {
		return protoErrorf("sequence of %d elements exceeds the u16 count prefix", len(b))
	}
	w.WriteU16(uint16(len(b)))
	w.buf = append(w.buf, b...)
	return nil
}

// ListSize returns the encoded size of a counted sequence.
func ListSize[T Encodable](version uint32, items []T) int {
	n := 2
	for i := range items {
		n += items[i].Size(version)
	}
	return n
}

// Reader is a cursor over a received byte slice, tagged with the
// protocol version the bytes were produced under. Reading past the end
// of the slice returns a ProtocolError naming the short read.
type Reader struct {
	version uint32
	buf     []byte
	off     int
}

// NewReader creates a read cursor over buf for the given protocol version.
func NewReader(buf []byte, version uint32) *Reader {
	return &Reader{version: version, buf: buf}
}

// Version returns the protocol version this buffer decodes under.
func (r *Reader) Version() uint32 { return r.version }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) need(n int, what string) error {
	if r.Remaining() < n {
		return protoErrorf("short read: need %d bytes for %s, %d available at offset %d",
			n, what, r.Remaining(), r.off)
	}
	return nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1, "u8"); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2, "u16"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4, "u32"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadRaw reads n raw bytes. The returned slice aliases the underlying
// buffer.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if err := r.need(n, "raw bytes"); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadString reads a length-prefixed, NUL-terminated string and
// validates it as UTF-8.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := r.ReadRaw(int(n))
	if err != nil {
		return "", err
	}
	if len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	if !utf8.Valid(b) {
		return "", protoErrorf("string is not valid UTF-8: %q", b)
	}
	return string(b), nil
}

// ReadU8List reads a uint16 count followed by that many raw bytes.
// The returned slice aliases the underlying buffer.
func (r *Reader) ReadU8List() ([]byte, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return r.ReadRaw(int(n))
}

// ReadValue decodes one value of type T from the cursor.
func ReadValue[T any, P interface {
	*T
	Decodable
}](r *Reader) (T, error) {
	var v T
	err := P(&v).Decode(r)
	return v, err
}

// ReadValues decodes n consecutive values of type T. Used when the
// element count was consumed separately, so no count prefix is re-read.
func ReadValues[T any, P interface {
	*T
	Decodable
}](r *Reader, n int) ([]T, error) {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := ReadValue[T, P](r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadList decodes a uint16 element count followed by that many values.
func ReadList[T any, P interface {
	*T
	Decodable
}](r *Reader) ([]T, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return ReadValues[T, P](r, int(n))
}
