// ring.go
//
// Lock-free single-producer/single-consumer ring buffer.  Producer and
// consumer cursors sit on separate cache-lines to avoid false-sharing, and
// each slot carries a sequence stamp so Push/Pop are wait-free: the stamp
// is read with a sequentially consistent load and published with a release
// store through cell accessors bound once per ring.

package ring

import (
	"errors"
	"sync/atomic"
	"unsafe"

	"atomiccell/cell"
)

// ErrSize is returned for capacities that are not a positive power of two.
var ErrSize = errors.New("ring: size must be >0 and a power of two")

// slot couples a payload with its sequence stamp.  Each slot fills a whole
// cache-line, and the aligner keeps seq 8-byte aligned on 32-bit targets.
type slot[T any] struct {
	_   [0]atomic.Int64
	seq int64 // position in the sequence space
	val *T    // user payload
	//lint:ignore U1000 pads the slot to one cache-line
	_ [64 - 8 - unsafe.Sizeof(uintptr(0))]byte
}

// Ring is a fixed-capacity circular buffer dedicated to one producer and
// one consumer.
type Ring[T any] struct {
	_    [64]byte // consumer head isolated on its own cache-line
	head int64
	//lint:ignore U1000 padding to keep head & tail on different cache-lines
	_pad1 [64]byte
	tail  int64
	//lint:ignore U1000 padding to keep hot fields from colliding with metadata
	_pad2 [64]byte
	mask  int64
	buf   []slot[T]
	seq   *cell.Int64[slot[T]]
	val   *cell.Reference[slot[T], T]
	relax func()
}

// Bind allocates a ring of the given size whose slots are accessed through
// s.  Size must be a power of two.
func Bind[T any](s cell.Strategy, size int) (*Ring[T], error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, ErrSize
	}
	seq, err := cell.BindInt64[slot[T]](s, "seq")
	if err != nil {
		return nil, err
	}
	val, err := cell.BindReference[slot[T], T](s, "val")
	if err != nil {
		return nil, err
	}
	r := &Ring[T]{
		mask:  int64(size - 1),
		buf:   make([]slot[T], size),
		seq:   seq,
		val:   val,
		relax: s.SpinHint,
	}
	for i := range r.buf {
		r.buf[i].seq = int64(i)
	}
	return r, nil
}

// New allocates a ring through the process strategy.  It panics if size is
// not a power of two, so that the bit-masking arithmetic stays valid.
func New[T any](size int) *Ring[T] {
	r, err := Bind[T](cell.Lookup(), size)
	if err != nil {
		panic(err)
	}
	return r
}

// Cap returns the ring's capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Push enqueues p, returning false if the buffer is full.  p must be
// non-nil; nil is how Pop reports an empty ring.
func (r *Ring[T]) Push(p *T) bool {
	if p == nil {
		return false
	}
	t := r.tail
	s := &r.buf[t&r.mask]
	if r.seq.Get(s) != t {
		return false // consumer has not yet reclaimed the slot
	}
	r.val.Set(s, p)
	r.seq.SetOrdered(s, t+1)
	r.tail = t + 1
	return true
}

// Pop dequeues one item or nil if the buffer is empty.
func (r *Ring[T]) Pop() *T {
	h := r.head
	s := &r.buf[h&r.mask]
	if r.seq.Get(s) != h+1 {
		return nil // producer has not yet published to the slot
	}
	p := r.val.Get(s)
	r.val.Set(s, nil) // drop the reference so the payload can be collected
	r.seq.SetOrdered(s, h+int64(len(r.buf)))
	r.head = h + 1
	return p
}

// PopWait busy-spins until an item becomes available, hinting the CPU
// between polls.
func (r *Ring[T]) PopWait() *T {
	for {
		if p := r.Pop(); p != nil {
			return p
		}
		r.relax()
	}
}
