package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/latchd/latch/pkg/credential"
)

// DefaultCapacity is the slot capacity used when none is configured. It
// matches the 1KB EEPROM class of part the controller is designed around.
const DefaultCapacity = 64

// Store is the persistent, order-preserving credential store. One image file
// backs one store; all mutations are flushed before they return.
type Store struct {
	path     string
	capacity int
	buf      []byte
}

// DefaultPath returns the default image path following the XDG spec.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "latch", "latch.img")
}

// Open opens or creates a credential image at the given path. A new image is
// zeroed and unprovisioned. An existing image is validated against the
// configured capacity; validation failure is fatal rather than repaired, so
// a corrupt image never silently loses records.
func Open(path string, capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{path: path, capacity: capacity}

	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.buf = blankImage(capacity)
		if err := s.flush(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential image: %w", err)
	}
	if err := validateImage(buf, capacity); err != nil {
		return nil, err
	}
	s.buf = buf
	return s, nil
}

// Close releases the store. The image is already durable; Close exists so
// callers can treat the store like any other closable resource.
func (s *Store) Close() error {
	s.buf = nil
	return nil
}

// flush writes the arena to disk. Write-then-rename keeps a crash from
// leaving a torn image behind.
func (s *Store) flush() error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, s.buf, 0600); err != nil {
		return fmt.Errorf("failed to write credential image: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace credential image: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	return int(binary.BigEndian.Uint16(s.buf[offCount:]))
}

// Capacity returns the slot capacity of the image.
func (s *Store) Capacity() int {
	return s.capacity
}

func (s *Store) setCount(n int) {
	binary.BigEndian.PutUint16(s.buf[offCount:], uint16(n))
}

func (s *Store) slotID(i int) credential.ID {
	var id credential.ID
	copy(id[:], s.buf[slotOffset(i)+1:])
	return id
}

func (s *Store) setSlot(i int, id credential.ID) {
	off := slotOffset(i)
	s.buf[off] = slotPopulated
	copy(s.buf[off+1:], id[:])
}

func (s *Store) clearSlot(i int) {
	off := slotOffset(i)
	for j := 0; j < slotSize; j++ {
		s.buf[off+j] = 0
	}
}

// Lookup scans the record list for id and returns its slot index. The scan
// is linear over the first Count slots; relative order is the storage order.
func (s *Store) Lookup(id credential.ID) (int, bool) {
	for i := 0; i < s.Count(); i++ {
		if s.slotID(i) == id {
			return i, true
		}
	}
	return 0, false
}

// Append adds id at the end of the record list. It returns
// ErrDuplicateCredential if id is already stored and ErrStorageFull when the
// image has no free slot; in both cases the store is unchanged.
func (s *Store) Append(id credential.ID) error {
	if _, ok := s.Lookup(id); ok {
		return ErrDuplicateCredential
	}
	count := s.Count()
	if count >= s.capacity {
		return ErrStorageFull
	}
	s.setSlot(count, id)
	s.setCount(count + 1)
	return s.flush()
}

// RemoveAt removes id from the record list, shifting every later record down
// one slot so the list stays contiguous and order-preserving. It returns
// ErrCredentialNotFound if id is not stored.
func (s *Store) RemoveAt(id credential.ID) error {
	slot, ok := s.Lookup(id)
	if !ok {
		return ErrCredentialNotFound
	}
	count := s.Count()
	for i := slot; i < count-1; i++ {
		s.setSlot(i, s.slotID(i+1))
	}
	s.clearSlot(count - 1)
	s.setCount(count - 1)
	return s.flush()
}

// Records returns the stored credentials in storage order.
func (s *Store) Records() []credential.ID {
	out := make([]credential.ID, s.Count())
	for i := range out {
		out[i] = s.slotID(i)
	}
	return out
}

// Master returns the master credential and whether one has been provisioned.
func (s *Store) Master() (credential.ID, bool) {
	var id credential.ID
	if s.buf[offMasterDefined] != masterDefinedMarker {
		return id, false
	}
	copy(id[:], s.buf[offMaster:])
	return id, true
}

// SetMaster provisions or redefines the master credential. The master lives
// outside the record list and is never touched by Append or RemoveAt.
func (s *Store) SetMaster(id credential.ID) error {
	s.buf[offMasterDefined] = masterDefinedMarker
	copy(s.buf[offMaster:], id[:])
	return s.flush()
}

// WipeMaster clears the master-defined marker only. The master bytes and the
// record list are left intact, matching the controller's wipe semantics: the
// next boot re-enters provisioning, records survive.
func (s *Store) WipeMaster() error {
	s.buf[offMasterDefined] = 0
	return s.flush()
}
