// Package bytesx holds the zero-allocation byte-to-string cast the query
// tool uses when echoing query lines read from stdin: converting a read
// buffer to a string for output without copying it.
package bytesx

import "unsafe"

// B2s converts b to a string without copying. The caller must not mutate
// b afterward, since the returned string would observe the mutation.
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
