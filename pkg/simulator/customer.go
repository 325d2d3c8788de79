package simulator

import "fmt"

// Lifecycle of a simulated customer
type CustomerState int

const (
	CustomerPending   CustomerState = iota // not arrived yet
	CustomerWaiting                        // enqueued for a server
	CustomerInService                      // holds one server slot
	CustomerDeparted                       // left the system
)

func (s CustomerState) String() string {
	switch s {
	case CustomerPending:
		return "Pending"
	case CustomerWaiting:
		return "Waiting"
	case CustomerInService:
		return "InService"
	case CustomerDeparted:
		return "Departed"
	default:
		return "Unknown"
	}
}

// transient customer, dropped once its waiting times are recorded
type customer struct {
	id               int
	state            CustomerState
	arrivalTime      float64
	serviceStartTime float64
	departureTime    float64
}

// advance moves the customer to the next state; states are only visited in order.
func (c *customer) advance(to CustomerState) error {
	if to != c.state+1 {
		return fmt.Errorf("customer %d: illegal transition %s -> %s", c.id, c.state, to)
	}
	c.state = to
	return nil
}

func (c *customer) queueWait() float64 {
	return c.serviceStartTime - c.arrivalTime
}

func (c *customer) systemWait() float64 {
	return c.departureTime - c.arrivalTime
}
