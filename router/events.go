package router

import (
	"math/big"
	"sync"

	"github.com/custodia-chain/router/types"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type EventType int

const (
	EventKeyUpdated    EventType = iota // Authoritative key replaced
	EventInInstruction                  // Incoming transfer accepted
	EventExecuted                       // Batch executed
	EventEscapeHatch                    // Escape hatch invoked
	EventEscaped                        // Asset swept to the escape target
)

// Event is the engine notification passed to the listeners. Fields are
// populated per event type.
type Event struct {
	Type EventType

	// Nonce is the consumed nonce for authorized actions
	Nonce uint64

	// Key is the new authoritative key (KeyUpdated)
	Key types.Hash

	// From is the depositing caller (InInstruction)
	From types.Address

	// Coin is the asset (InInstruction, Executed, Escaped)
	Coin types.Address

	// Amount is the moved amount (InInstruction, Escaped)
	Amount *big.Int

	// Instruction is the opaque deposit payload (InInstruction)
	Instruction []byte

	// Digest is the signed-message digest (Executed)
	Digest types.Hash

	// Results is the per-instruction success bitmask (Executed)
	Results []byte

	// Target is the escape target (EscapeHatch)
	Target types.Address
}

// Subscription is the engine event subscription interface
type Subscription interface {
	GetEvent() <-chan *Event

	IsClosed() bool
	Unsubscribe()
}

const subscriptionBuffer = 32

// subscription is the engine event subscription object
type subscription struct {
	id uuid.UUID

	// close from eventStream
	updateCh chan *Event

	closed *atomic.Bool
}

// GetEvent returns the event channel of the subscription
func (s *subscription) GetEvent() <-chan *Event {
	return s.updateCh
}

// IsClosed returns true if the subscription is closed
func (s *subscription) IsClosed() bool {
	return s.closed.Load()
}

// Unsubscribe closes the subscription
func (s *subscription) Unsubscribe() {
	// don't close updateCh, it's closed from eventStream
	s.closed.CAS(false, true)
}

// eventStream fans engine events out to subscribers. Pushes never
// block: a subscriber that stops draining loses events past its buffer
// rather than stalling the engine.
type eventStream struct {
	lock sync.Mutex

	subscriptions map[uuid.UUID]*subscription
}

func newEventStream() *eventStream {
	return &eventStream{
		subscriptions: map[uuid.UUID]*subscription{},
	}
}

func (e *eventStream) subscribe() Subscription {
	sub := &subscription{
		id:       uuid.New(),
		updateCh: make(chan *Event, subscriptionBuffer),
		closed:   atomic.NewBool(false),
	}

	e.lock.Lock()
	e.subscriptions[sub.id] = sub
	e.lock.Unlock()

	return sub
}

func (e *eventStream) push(event *Event) {
	e.lock.Lock()
	defer e.lock.Unlock()

	for id, sub := range e.subscriptions {
		if sub.IsClosed() {
			delete(e.subscriptions, id)
			close(sub.updateCh)

			continue
		}

		select {
		case sub.updateCh <- event:
		default:
		}
	}
}
