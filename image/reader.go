// Package image provides random-access byte reads over a FAT12 disk image.
package image

import (
	"io"
	"sync"

	"github.com/relvacode/fat12nav/errs"
	"github.com/relvacode/fat12nav/layout"
	"github.com/xaionaro-go/bytesextra"
)

// Reader is a random-access byte source over a FAT12 image. It presents
// read-at-offset semantics even though the underlying stream, built with
// bytesextra.NewReadWriteSeeker, only supports seek-then-read: the mutex
// below serializes the two calls so the internal cursor is never observable
// across Reader method calls, and interleaved ReadAt calls from different
// callers never see each other's seek position.
type Reader struct {
	mu     sync.Mutex
	stream io.ReadSeeker
	size   int64
}

// New wraps a byte-addressable image blob for random-access reads.
func New(data []byte) *Reader {
	return &Reader{
		stream: bytesextra.NewReadWriteSeeker(data),
		size:   int64(len(data)),
	}
}

// Size returns the total number of bytes in the image.
func (r *Reader) Size() int64 {
	return r.size
}

// ReadAt returns exactly length bytes starting at the given absolute byte
// offset, or an errs.ShortRead error if the image does not contain that
// many bytes from that offset.
func (r *Reader) ReadAt(offset uint64, length int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset > uint64(r.size) {
		return nil, errs.NewShortRead(offset, length, 0)
	}

	if _, err := r.stream.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, errs.OpenFailed.WrapError(err)
	}

	buf := make([]byte, length)
	n, err := io.ReadFull(r.stream, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errs.OpenFailed.WrapError(err)
	}
	if n < length {
		return nil, errs.NewShortRead(offset, length, n)
	}

	return buf, nil
}

// ReadSector reads the entirety of the n'th 512-byte sector.
func (r *Reader) ReadSector(n uint64) ([]byte, error) {
	return r.ReadAt(n*layout.SectorSize, layout.SectorSize)
}
