// Package zeroize overwrites sensitive byte slices before they are
// released, on every exit path including error returns and panics.
package zeroize

// Bytes overwrites b with zeros in place. Safe to call on a nil or
// already-zeroized slice.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Multiple zeroizes every slice given to it. Convenient in a single
// defer at the top of a function that owns several secret buffers.
func Multiple(bs ...[]byte) {
	for _, b := range bs {
		Bytes(b)
	}
}
