package scene

import (
	"image"
	"sync"
)

// Mailbox hands the latest rendered frame from a loop goroutine to a consumer
// on another thread. Older frames are overwritten, never queued.
type Mailbox struct {
	mu    sync.Mutex
	buf   *image.RGBA
	seq   uint64
	taken uint64
}

// Put copies img into the mailbox. The caller keeps ownership of img.
func (m *Mailbox) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buf == nil || m.buf.Rect != img.Rect {
		m.buf = image.NewRGBA(img.Rect)
	}
	copy(m.buf.Pix, img.Pix)
	m.seq++
}

// Take calls fn with the latest frame if one arrived since the last Take.
// fn must not retain the image.
func (m *Mailbox) Take(fn func(img *image.RGBA)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buf == nil || m.seq == m.taken {
		return false
	}
	m.taken = m.seq
	fn(m.buf)
	return true
}

// Seq is the number of frames put so far.
func (m *Mailbox) Seq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}

// Hook returns an OnFrame callback that posts the scene surface.
func (m *Mailbox) Hook() func(Scene) {
	return func(s Scene) { m.Put(s.Surface().Image()) }
}
