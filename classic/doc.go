// Package classic implements a MIFARE Classic (S50/S70) driver: the
// command/frame layer and sector-access state machine for ISO/IEC 14443-3
// Type A contactless memory cards.
//
// A Handle is the exclusively-owned, per-card value this package centers
// on — it replaces the original C driver's five linked function pointers
// and its single global gs_handle with a capability object
// (transceiver.Port) passed in at construction and an ordinary Go value
// the caller threads through its own call graph. Nothing in this package
// is safe for concurrent use from multiple goroutines against the same
// Handle; drive multiple cards with multiple Handles, each owning its own
// Port.
//
// Authentication (the MIFARE stream cipher's three-pass challenge and
// response) is delegated entirely to the transceiver.Port implementation;
// this package only builds and sends the AUTH frame and trusts the
// port's success/failure signal.
package classic
