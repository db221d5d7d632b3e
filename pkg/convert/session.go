package convert

import (
	"sync"
	"unsafe"

	"github.com/goopsie/crnbridge/pkg/codec"
	"github.com/goopsie/crnbridge/pkg/ownership"
)

// Session is a conversion context: a Converter with its own registry and a
// last-error slot. Sessions share nothing with each other.
type Session struct {
	conv *Converter

	mu      sync.Mutex
	lastErr error
}

// NewSession creates a session with a fresh registry. A WithRegistry option
// overrides it.
func NewSession(cdc codec.Codec, opts ...Option) *Session {
	opts = append([]Option{WithRegistry(ownership.NewRegistry())}, opts...)
	return &Session{conv: New(cdc, opts...)}
}

// Convert runs req, recording any failure as the session's last error.
func (s *Session) Convert(req Request) (*ownership.Buffer, error) {
	buf, err := s.conv.Convert(req)
	if err != nil {
		s.SetLastError(err)
	}
	return buf, err
}

// Release frees a buffer returned by Convert.
func (s *Session) Release(p unsafe.Pointer) bool {
	return s.conv.Release(p)
}

// LastError returns the most recent failure, or nil if none occurred.
// Successful calls leave it unchanged.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetLastError replaces the last error.
func (s *Session) SetLastError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Tracked returns the number of output buffers not yet released.
func (s *Session) Tracked() int {
	return s.conv.Registry().Len()
}

// Close releases every buffer still tracked and returns how many there were.
func (s *Session) Close() int {
	return s.conv.Registry().ReleaseAll()
}
