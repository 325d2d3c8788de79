package simulator

import "fmt"

// ServerPool holds c identical server slots and the FIFO queue of customers waiting for one.
// It belongs to a single run and is never shared.
type ServerPool struct {
	capacity int
	busy     int
	waiting  []*customer
}

func NewServerPool(capacity int) *ServerPool {
	return &ServerPool{
		capacity: capacity,
	}
}

func (p *ServerPool) Capacity() int {
	return p.capacity
}

func (p *ServerPool) ServersBusy() int {
	return p.busy
}

func (p *ServerPool) QueueLength() int {
	return len(p.waiting)
}

func (p *ServerPool) HasIdleServer() bool {
	return p.busy < p.capacity
}

// enqueue a customer at the tail of the waiting line
func (p *ServerPool) enqueue(c *customer) {
	p.waiting = append(p.waiting, c)
}

// acquire a server for the longest-waiting customer
func (p *ServerPool) acquire() (*customer, error) {
	if !p.HasIdleServer() {
		return nil, fmt.Errorf("acquire with all %d servers busy", p.capacity)
	}
	if len(p.waiting) == 0 {
		return nil, fmt.Errorf("acquire with empty queue")
	}
	c := p.waiting[0]
	p.waiting[0] = nil
	p.waiting = p.waiting[1:]
	p.busy++
	return c, nil
}

// release a server slot
func (p *ServerPool) release() error {
	if p.busy == 0 {
		return fmt.Errorf("release with no busy server")
	}
	p.busy--
	return nil
}

func (p *ServerPool) snapshot(now float64) OccupancySample {
	return OccupancySample{
		Timestamp:   now,
		ServersBusy: p.busy,
		QueueLength: len(p.waiting),
	}
}

func (p *ServerPool) String() string {
	return fmt.Sprintf("{busy=%d/%d, queue=%d}", p.busy, p.capacity, len(p.waiting))
}
