package converter

import "github.com/pkg/errors"

// DataStream instances provide methods to read the fields of a decoded RawData frame.
// byteOffset acts as the cursor; the read functions update it.
type DataStream struct {
	data []uint8

	byteOffset int
}

// NewDataStream returns a new DataStream over data.
func NewDataStream(data []uint8) *DataStream {
	return &DataStream{
		data:       data,
		byteOffset: 0,
	}
}

// remaining returns the number of bytes after the cursor.
func (s *DataStream) remaining() int {
	return len(s.data) - s.byteOffset
}

// skip advances the cursor by n bytes.
func (s *DataStream) skip(n int) error {
	if n > s.remaining() {
		return errors.Errorf("skip %d bytes at offset %d: only %d remaining", n, s.byteOffset, s.remaining())
	}
	s.byteOffset += n
	return nil
}

// readUint8 reads one byte.
func (s *DataStream) readUint8() (uint8, error) {
	if s.remaining() < 1 {
		return 0, errors.Errorf("read uint8 at offset %d: end of data", s.byteOffset)
	}
	v := s.data[s.byteOffset]
	s.byteOffset++
	return v, nil
}

// readUint16 reads a big-endian 16 bit value, the byte order of KNX addresses.
func (s *DataStream) readUint16() (uint16, error) {
	if s.remaining() < 2 {
		return 0, errors.Errorf("read uint16 at offset %d: end of data", s.byteOffset)
	}
	v := uint16(s.data[s.byteOffset])<<8 | uint16(s.data[s.byteOffset+1])
	s.byteOffset += 2
	return v, nil
}
