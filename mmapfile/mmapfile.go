// Package mmapfile memory-maps a dictionary file read-only, so a large
// index is opened without first reading the whole file into a heap buffer
// (the darts loaders still decode its unit array into a slice, while the
// tail region stays a view of the mapping). golang.org/x/sys/unix
// already ships as a transitive dependency pulled in by golang.org/x/crypto;
// this package is what promotes it to a direct one.
package mmapfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only memory-mapped file. The mapped bytes remain valid
// until Close is called.
type File struct {
	f    *os.File
	data []byte
}

// Open maps path read-only for the lifetime of the returned File.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("darts: opening %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("darts: stat %s: %w", path, err)
	}
	size := st.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("darts: %s is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("darts: mmap %s: %w", path, err)
	}
	return &File{f: f, data: data}, nil
}

// Bytes returns the mapped region. It must not be retained past Close.
func (m *File) Bytes() []byte { return m.data }

// Close unmaps the file and releases the underlying descriptor.
func (m *File) Close() error {
	err := unix.Munmap(m.data)
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
