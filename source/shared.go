package source

import "sync/atomic"

// Shared gives several borrowers joint ownership of one Source. The source
// is closed when the owner and every handle returned by Acquire have been
// closed.
type Shared struct {
	src    Source
	refs   atomic.Int32
	closed atomic.Bool
}

// NewShared takes ownership of src. The returned value holds one reference,
// released by its Close method.
func NewShared(src Source) *Shared {
	s := &Shared{src: src}
	s.refs.Store(1)
	return s
}

// Acquire returns a handle on the shared source. Closing the handle releases
// its reference; reading after that returns ErrClosed.
func (s *Shared) Acquire() Source {
	s.refs.Add(1)
	return &sharedHandle{shared: s}
}

// Window returns a window over the shared source that holds its own
// reference. Closing the window releases it.
func (s *Shared) Window(offset, length int64) (Source, error) {
	h := s.Acquire()
	w, err := NewWindow(h, offset, length)
	if err != nil {
		h.Close()
		return nil, err
	}
	return &ownedWindow{Window: w, handle: h}, nil
}

// Refs returns the number of outstanding references.
func (s *Shared) Refs() int { return int(s.refs.Load()) }

// Close releases the owner's reference. Further calls do nothing.
func (s *Shared) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.release()
}

func (s *Shared) release() error {
	if s.refs.Add(-1) == 0 {
		return s.src.Close()
	}
	return nil
}

type sharedHandle struct {
	shared *Shared
	closed atomic.Bool
}

func (h *sharedHandle) ByteAt(pos int64) (byte, error) {
	if h.closed.Load() {
		return 0, ErrClosed
	}
	return h.shared.src.ByteAt(pos)
}

func (h *sharedHandle) ReadAt(p []byte, off int64) (int, error) {
	if h.closed.Load() {
		return 0, ErrClosed
	}
	return h.shared.src.ReadAt(p, off)
}

func (h *sharedHandle) Len() int64 { return h.shared.src.Len() }

func (h *sharedHandle) Close() error {
	if h.closed.Swap(true) {
		return nil
	}
	return h.shared.release()
}

// ownedWindow is a Window whose Close releases the handle it reads through.
type ownedWindow struct {
	*Window
	handle Source
}

func (w *ownedWindow) Close() error { return w.handle.Close() }
