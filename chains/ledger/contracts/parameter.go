package contracts

import (
	"encoding/binary"
	"fmt"
	"math"
)

// MaxParameterSize is the largest parameter the node accepts.
const MaxParameterSize = math.MaxUint16

// Parameter is the serialized argument of an init or receive function.
type Parameter []byte

// NewParameter checks the size of b.
func NewParameter(b []byte) (Parameter, error) {
	if len(b) > MaxParameterSize {
		return nil, fmt.Errorf("parameter of %d bytes exceeds %d bytes", len(b), MaxParameterSize)
	}
	return Parameter(b), nil
}

// Serial is implemented by values with a contract serialization.
type Serial interface {
	Serial(w *Writer) error
}

// ParameterFromSerial serializes v into a Parameter.
func ParameterFromSerial(v Serial) (Parameter, error) {
	w := &Writer{}
	if err := v.Serial(w); err != nil {
		return nil, err
	}
	return NewParameter(w.Bytes())
}

// Writer accumulates the little endian contract serialization of values.
type Writer struct {
	buf []byte
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) U16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) U64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// ULEB128 writes v as unsigned LEB128.
func (w *Writer) ULEB128(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			w.buf = append(w.buf, b)
			return
		}
		w.buf = append(w.buf, b|0x80)
	}
}

// Bytes16 writes b prefixed with its length as u16.
func (w *Writer) Bytes16(b []byte) error {
	if len(b) > math.MaxUint16 {
		return fmt.Errorf("length %d exceeds %d", len(b), math.MaxUint16)
	}
	w.U16(uint16(len(b))) //nolint:gosec // G115: checked above
	w.Raw(b)
	return nil
}

// U16Param is the parameter of init functions that take a single u16.
type U16Param uint16

func (p U16Param) Serial(w *Writer) error {
	w.U16(uint16(p))
	return nil
}
