package protocol

// OutputBuffer provides an abstraction for writing outgoing frame data
type OutputBuffer interface {
	// Output writes data to the buffer
	Output(data []byte)
}

// ScratchOutput implements OutputBuffer using a fixed-size scratch buffer
type ScratchOutput struct {
	buf [FrameMax]byte
	pos int
}

// NewScratchOutput creates a new ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{pos: 0}
}

// Output copies data in; anything past FrameMax is dropped
func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// LineQueue is a circular byte queue that accepts whole lines only.
// A line that does not fit is dropped so the reader never sees a torn frame.
type LineQueue struct {
	buf     []byte
	read    int
	write   int
	size    int
	dropped uint32
}

// NewLineQueue creates a queue holding up to capacity-1 bytes
func NewLineQueue(capacity int) *LineQueue {
	return &LineQueue{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// PushLine appends line if it fits entirely, otherwise counts a drop
func (q *LineQueue) PushLine(line []byte) bool {
	if len(line) > q.Free() {
		q.dropped++
		return false
	}
	for _, b := range line {
		q.buf[q.write] = b
		q.write = (q.write + 1) % q.size
	}
	return true
}

// Read drains up to len(data) bytes from the queue
func (q *LineQueue) Read(data []byte) int {
	read := 0
	for i := range data {
		if q.read == q.write {
			break
		}
		data[i] = q.buf[q.read]
		q.read = (q.read + 1) % q.size
		read++
	}
	return read
}

// Available returns the number of bytes available for reading
func (q *LineQueue) Available() int {
	if q.write >= q.read {
		return q.write - q.read
	}
	return q.size - q.read + q.write
}

// Free returns the number of bytes available for writing
func (q *LineQueue) Free() int {
	return q.size - q.Available() - 1
}

// Dropped returns how many lines were rejected for lack of space
func (q *LineQueue) Dropped() uint32 {
	return q.dropped
}

// IsEmpty returns true if the queue is empty
func (q *LineQueue) IsEmpty() bool {
	return q.read == q.write
}

// Reset clears the queue and the drop counter
func (q *LineQueue) Reset() {
	q.read = 0
	q.write = 0
	q.dropped = 0
}
