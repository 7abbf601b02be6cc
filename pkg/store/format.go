package store

import (
	"encoding/binary"
	"fmt"

	"github.com/latchd/latch/pkg/credential"
)

// Image format v1.
//
// The image is a fixed-size byte arena:
//
//	offset 0..3   magic "LTCH"
//	offset 4      format version (1)
//	offset 5      master-defined marker (0xA5 when provisioned, else 0x00)
//	offset 6..9   master credential
//	offset 10..11 record count, big endian
//	offset 12..   capacity x 5-byte slots: populated flag (0x01) + credential
//
// Slots 0..count-1 are populated and distinct; every later slot is zeroed.
// The explicit populated flag replaces the legacy trick of treating a zero
// first byte as "slot empty", so credentials that legitimately begin with a
// zero byte are first-class.
const (
	formatVersion = 1

	masterDefinedMarker = 0xA5
	slotPopulated       = 0x01

	offVersion       = 4
	offMasterDefined = 5
	offMaster        = 6
	offCount         = 10
	headerSize       = 12

	slotSize = 1 + credential.IDLen
)

var magic = [4]byte{'L', 'T', 'C', 'H'}

// imageSize returns the arena size for a given slot capacity.
func imageSize(capacity int) int {
	return headerSize + capacity*slotSize
}

// slotOffset returns the arena offset of slot i.
func slotOffset(i int) int {
	return headerSize + i*slotSize
}

// blankImage returns a zeroed arena with the header initialized for an
// unprovisioned store.
func blankImage(capacity int) []byte {
	buf := make([]byte, imageSize(capacity))
	copy(buf[:4], magic[:])
	buf[offVersion] = formatVersion
	return buf
}

// validateImage checks structural invariants of a loaded arena: magic,
// version, size, count bound, and slot contiguity.
func validateImage(buf []byte, capacity int) error {
	if len(buf) != imageSize(capacity) {
		return fmt.Errorf("%w: image is %d bytes, want %d for capacity %d",
			ErrCorrupt, len(buf), imageSize(capacity), capacity)
	}
	if [4]byte(buf[:4]) != magic {
		return fmt.Errorf("%w: bad magic %q", ErrCorrupt, buf[:4])
	}
	if buf[offVersion] != formatVersion {
		return fmt.Errorf("%w: unsupported format version %d", ErrCorrupt, buf[offVersion])
	}
	count := int(binary.BigEndian.Uint16(buf[offCount:]))
	if count > capacity {
		return fmt.Errorf("%w: record count %d exceeds capacity %d", ErrCorrupt, count, capacity)
	}
	for i := 0; i < capacity; i++ {
		populated := buf[slotOffset(i)] == slotPopulated
		if i < count && !populated {
			return fmt.Errorf("%w: gap at slot %d (count %d)", ErrCorrupt, i, count)
		}
		if i >= count && populated {
			return fmt.Errorf("%w: populated slot %d beyond count %d", ErrCorrupt, i, count)
		}
	}
	return nil
}
