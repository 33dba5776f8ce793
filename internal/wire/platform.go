package wire

import "unsafe"

// sizeOfPointer is this build's pointer width in bytes, embedded in the
// region header so a client opening a region built for a different
// pointer width (e.g. 32-bit vs 64-bit) fails the handshake instead of
// misparsing every offset past the header (spec §6, §9 "Pointer-width
// coupling").
var sizeOfPointer = unsafe.Sizeof(uintptr(0))
