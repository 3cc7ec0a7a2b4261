//go:build !unix

package storage

// lockFile is a no-op where flock is unavailable; the in-process mutex
// still serialises writers within one process.
func lockFile(string) (func(), error) {
	return func() {}, nil
}
