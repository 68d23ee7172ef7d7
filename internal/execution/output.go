package execution

import (
	"bytes"
	"sync"
)

const truncatedNotice = "\n[output truncated]\n"

// outputBuffer collects the merged stdout/stderr stream. Writes never fail so
// the collector keeps draining the pipe even after the buffer stops growing.
type outputBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int64
	truncated bool
	frozen    bool
}

func newOutputBuffer(limit int64) *outputBuffer {
	return &outputBuffer{limit: limit}
}

func (b *outputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen || b.truncated {
		return len(p), nil
	}
	if b.limit > 0 && int64(b.buf.Len()+len(p)) > b.limit {
		room := int(b.limit) - b.buf.Len()
		if room > 0 {
			b.buf.Write(p[:room])
		}
		b.buf.WriteString(truncatedNotice)
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

// freeze stops capturing; later writes are discarded.
func (b *outputBuffer) freeze() {
	b.mu.Lock()
	b.frozen = true
	b.mu.Unlock()
}

// appendNote adds text regardless of the frozen/limit state.
func (b *outputBuffer) appendNote(note string) {
	b.mu.Lock()
	b.buf.WriteString(note)
	b.mu.Unlock()
}

func (b *outputBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
