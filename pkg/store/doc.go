// Package store provides the persistent credential store for the door
// controller.
//
// The store manages two things:
//
//   - Records: an ordered, contiguous list of credential identifiers that are
//     allowed to open the door
//   - Master: one distinguished credential that toggles program mode,
//     persisted separately from the record list
//
// Persistence is a single fixed-size image file standing in for the
// controller's non-volatile memory. The layout is count-prefixed and
// gap-free: removing a record shifts everything behind it down one slot, so
// lookup is always a bounded linear scan over the first count slots.
//
// # Usage
//
// Open a store with [Open] and close it when done:
//
//	db, err := store.Open("latch.img", 64)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
// # Thread Safety
//
// The store is NOT safe for concurrent use. The controller is the only
// writer and runs a single-threaded loop; each operation completes before
// the next event is read.
package store
