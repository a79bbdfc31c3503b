package frameinfo

import (
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/zeebo/xxh3"
)

// Unavailable is the value a sample reports when it has no BCI or line number
// for a frame.
const Unavailable int32 = -1

type (
	// StackFrame is one frame of a raw stack sample.
	StackFrame interface {
		MethodID() int64
		BCI() int32
		LineNumber() int32
	}

	// FrameInfo identifies the execution point recorded in a frame: the method,
	// and if available, the byte code index and the source line number.
	FrameInfo struct {
		methodID int64
		bci      int32
		lineNr   int32
	}
)

// New builds a FrameInfo from its three fields. Sentinel values are kept as is.
func New(methodID int64, bci, lineNr int32) FrameInfo {
	return FrameInfo{
		methodID: methodID,
		bci:      bci,
		lineNr:   lineNr,
	}
}

// FromStackFrame copies the metadata out of a sampled frame.
func FromStackFrame(sf StackFrame) FrameInfo {
	return New(sf.MethodID(), sf.BCI(), sf.LineNumber())
}

// MethodID returns the id of the method the frame executed.
func (f FrameInfo) MethodID() int64 {
	return f.methodID
}

// BCI returns the byte code index of the sampled execution point, or
// Unavailable.
func (f FrameInfo) BCI() int32 {
	return f.bci
}

// LineNr returns the source line of the sampled execution point, or
// Unavailable.
func (f FrameInfo) LineNr() int32 {
	return f.lineNr
}

// HasBCI reports whether the sample carried a byte code index.
func (f FrameInfo) HasBCI() bool {
	return f.bci >= 0
}

// HasLineNr reports whether the sample carried a source line number.
func (f FrameInfo) HasLineNr() bool {
	return f.lineNr >= 0
}

// Equal reports whether both frames have the same method, bci and line number.
func (f FrameInfo) Equal(o FrameInfo) bool {
	return f.bci == o.bci && f.lineNr == o.lineNr && f.methodID == o.methodID
}

// HashCode returns the same 32-bit hash the JVM side computes for a frame,
// so both can be correlated.
func (f FrameInfo) HashCode() int32 {
	m := uint64(f.methodID)
	h := int32(1)
	h = 31*h + f.bci
	h = 31*h + f.lineNr
	h = 31*h + int32(m^(m>>32))
	return h
}

// bytes encodes the frame as the little-endian method id, bci and line number,
// 16 bytes in total.
func (f FrameInfo) bytes() []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint64(b, uint64(f.methodID))
	binary.LittleEndian.PutUint32(b[8:], uint32(f.bci))
	binary.LittleEndian.PutUint32(b[12:], uint32(f.lineNr))
	return b
}

// Fingerprint returns the xxh3 hash of the 16 byte little-endian encoding of
// method id, bci and line number.
func (f FrameInfo) Fingerprint() uint64 {
	return xxh3.Hash(f.bytes())
}

// WriteToHash writes the same 16 byte encoding Fingerprint hashes into h.
func (f FrameInfo) WriteToHash(h hash.Hash) {
	h.Write(f.bytes())
}

// String renders the frame as frame[methodID:lineNr:bci].
func (f FrameInfo) String() string {
	return fmt.Sprintf("frame[%d:%d:%d]", f.methodID, f.lineNr, f.bci)
}
