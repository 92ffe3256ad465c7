// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

package internal

import "sync"

var linePool = sync.Pool{New: func() interface{} {
	return []byte(nil)
}}

// ReserveLineBuffer fetches a byte slice of length 0 from an internal
// sync.Pool, to be used for formatting a single SAM line. The slice
// may have a non-zero capacity left over from earlier use.
//
// Use ReleaseLineBuffer to return the slice to the pool.
func ReserveLineBuffer() []byte {
	return linePool.Get().([]byte)[:0]
}

// ReleaseLineBuffer returns the given byte slice to the internal
// sync.Pool from which ReserveLineBuffer can fetch it again.
func ReleaseLineBuffer(buf []byte) {
	linePool.Put(buf)
}
