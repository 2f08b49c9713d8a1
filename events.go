package feather2d

import "fmt"

const (
	SENSOR_ENTER EventType = iota
	CONTACT_ENTER
	SENSOR_STAY
	CONTACT_STAY
	SENSOR_EXIT
	CONTACT_EXIT
)

type pairKey struct {
	a, b string
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}

	return pairKey{a: a, b: b}
}

type EventType uint8

var eventTypeNames = [...]string{
	SENSOR_ENTER:  "sensor_enter",
	CONTACT_ENTER: "contact_enter",
	SENSOR_STAY:   "sensor_stay",
	CONTACT_STAY:  "contact_stay",
	SENSOR_EXIT:   "sensor_exit",
	CONTACT_EXIT:  "contact_exit",
}

func (t EventType) String() string {
	if int(t) >= len(eventTypeNames) {
		return fmt.Sprintf("EventType(%d)", t)
	}
	return eventTypeNames[t]
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Sensor events
type SensorEnterEvent struct {
	A, B string
}

func (e SensorEnterEvent) Type() EventType { return SENSOR_ENTER }

type SensorStayEvent struct {
	A, B string
}

func (e SensorStayEvent) Type() EventType { return SENSOR_STAY }

type SensorExitEvent struct {
	A, B string
}

func (e SensorExitEvent) Type() EventType { return SENSOR_EXIT }

// Contact events
type ContactEnterEvent struct {
	A, B string
}

func (e ContactEnterEvent) Type() EventType { return CONTACT_ENTER }

type ContactStayEvent struct {
	A, B string
}

func (e ContactStayEvent) Type() EventType { return CONTACT_STAY }

type ContactExitEvent struct {
	A, B string
}

func (e ContactExitEvent) Type() EventType { return CONTACT_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks the pairs in contact between successive narrow phases, and
// reports when they start touching, keep touching, or separate.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	// Active pairs, mapped to whether a sensor is involved
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() *Events {
	return &Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// Record marks the pairs of contacts as active for the current frame. It
// returns contacts without the sensor ones, reusing the same backing array.
func (e *Events) Record(contacts []Contact) []Contact {
	n := 0
	for _, c := range contacts {
		pair := makePairKey(c.A, c.B)
		e.currentActivePairs[pair] = e.currentActivePairs[pair] || c.Sensor

		if !c.Sensor {
			contacts[n] = c
			n++
		}
	}

	return contacts[:n]
}

// processContactEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processContactEvents() {
	for pair, sensor := range e.currentActivePairs {
		_, wasActive := e.previousActivePairs[pair]

		switch {
		case wasActive && sensor:
			e.buffer = append(e.buffer, SensorStayEvent{A: pair.a, B: pair.b})
		case wasActive:
			e.buffer = append(e.buffer, ContactStayEvent{A: pair.a, B: pair.b})
		case sensor:
			e.buffer = append(e.buffer, SensorEnterEvent{A: pair.a, B: pair.b})
		default:
			e.buffer = append(e.buffer, ContactEnterEvent{A: pair.a, B: pair.b})
		}
	}

	for pair, sensor := range e.previousActivePairs {
		if _, active := e.currentActivePairs[pair]; active {
			continue
		}

		if sensor {
			e.buffer = append(e.buffer, SensorExitEvent{A: pair.a, B: pair.b})
		} else {
			e.buffer = append(e.buffer, ContactExitEvent{A: pair.a, B: pair.b})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// Flush ends the frame: it sends the events of the recorded pairs to the
// listeners and clears the buffer.
func (e *Events) Flush() {
	e.processContactEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
