// Package pager implements the bounded page cache and file I/O layer that
// sits underneath the B+-tree: a process-exclusive array of fixed-size page
// buffers backed by a single file descriptor.
package pager

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
)

const (
	// PageSize is the fixed width, in bytes, of every page on disk and in
	// the cache. Every page is exactly one B+-tree node.
	PageSize = 4096

	// TableMaxPages bounds the number of page buffers the pager will ever
	// hold in memory. Index TableMaxPages itself is out of bounds: the
	// pages array has exactly TableMaxPages slots.
	TableMaxPages = 100
)

// Pager owns the file descriptor and the bounded array of page buffers.
// A nil entry in pages means the page has not yet been loaded from disk.
type Pager struct {
	file     *os.File
	fileLen  int64
	numPages uint32
	pages    [TableMaxPages]*[PageSize]byte
}

// Open opens path read/write, creating it with user rw permissions if it
// does not exist. The file length must be a whole multiple of PageSize;
// anything else means the file is torn or corrupt and Open refuses to
// operate on it.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "pager: open %s", path)
	}

	length, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrapf(err, "pager: seek to end of %s", path)
	}

	if length%PageSize != 0 {
		log.Fatalf("pager: db file is not a whole number of pages. Corrupt file.")
	}

	return &Pager{
		file:     f,
		fileLen:  length,
		numPages: uint32(length / PageSize),
	}, nil
}

// NumPages reports the highest page number ever allocated, plus one.
func (p *Pager) NumPages() uint32 {
	return p.numPages
}

// GetPage returns the in-memory buffer for pageNum, lazily loading it from
// disk on first reference. Pages beyond the current file extent are
// zero-initialized and the page count is bumped to cover them; the caller
// is responsible for stamping a fresh node layout into a newly allocated
// page.
func (p *Pager) GetPage(pageNum uint32) (*[PageSize]byte, error) {
	if pageNum >= TableMaxPages {
		return nil, errors.Errorf("pager: page number %d out of bounds (max %d)", pageNum, TableMaxPages)
	}

	if p.pages[pageNum] == nil {
		page := &[PageSize]byte{}

		// This condition is inclusive (<=, not <) and so can attempt to
		// read one page past the last full page on disk; that is benign
		// because Open enforces a file length that is a clean multiple of
		// PageSize, so the one-past read lands exactly at EOF and
		// ReadFull just returns io.EOF.
		numPagesOnDisk := uint32(p.fileLen / PageSize)
		if pageNum <= numPagesOnDisk {
			if _, err := p.file.Seek(int64(pageNum)*PageSize, io.SeekStart); err != nil {
				return nil, errors.Wrapf(err, "pager: seek to page %d", pageNum)
			}
			if _, err := io.ReadFull(p.file, page[:]); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
				return nil, errors.Wrapf(err, "pager: read page %d", pageNum)
			}
			// A short read (or zero bytes) leaves the remainder of the
			// buffer at its zero value; that is fine for the final,
			// partially-written page and is tolerated rather than
			// treated as an error.
		}

		p.pages[pageNum] = page
	}

	if pageNum >= p.numPages {
		p.numPages = pageNum + 1
	}

	return p.pages[pageNum], nil
}

// GetUnusedPageNum returns the next page number available for allocation.
// There is no free list: pages are append-only, so this is simply the
// current page count.
func (p *Pager) GetUnusedPageNum() uint32 {
	return p.numPages
}

// Flush writes the full PageSize bytes of page pageNum to disk. Flushing an
// absent page is a programming error and is fatal.
func (p *Pager) Flush(pageNum uint32) error {
	page := p.pages[pageNum]
	if page == nil {
		log.Fatalf("pager: tried to flush null page %d", pageNum)
	}

	if _, err := p.file.Seek(int64(pageNum)*PageSize, io.SeekStart); err != nil {
		return errors.Wrapf(err, "pager: seek to flush page %d", pageNum)
	}
	n, err := p.file.Write(page[:])
	if err != nil {
		return errors.Wrapf(err, "pager: write page %d", pageNum)
	}
	if n != PageSize {
		log.Fatalf("pager: short write flushing page %d (%d of %d bytes)", pageNum, n, PageSize)
	}

	if end := int64(pageNum+1) * PageSize; end > p.fileLen {
		p.fileLen = end
	}

	return nil
}

// Close flushes every present page in [0, NumPages) and closes the
// underlying file descriptor. This is the only point at which mutations
// reach disk; a process that dies before Close loses everything written
// since the last close.
func (p *Pager) Close() error {
	for i := uint32(0); i < p.numPages; i++ {
		if p.pages[i] == nil {
			continue
		}
		if err := p.Flush(i); err != nil {
			return errors.Wrapf(err, "pager: close: flush page %d", i)
		}
	}

	if err := p.file.Close(); err != nil {
		return errors.Wrap(err, "pager: close file")
	}

	for i := range p.pages {
		p.pages[i] = nil
	}

	return nil
}
