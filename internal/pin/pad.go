// Package pin implements the app-lock keypad: a 4-digit entry buffer driven
// by a small set of modes.
package pin

import (
	"errors"
	"fmt"
)

// Length is the number of digits in a PIN.
const Length = 4

var (
	// ErrIncorrect is returned by Credentials.VerifyPin on a mismatch.
	ErrIncorrect = errors.New("incorrect PIN")
	// ErrLocked is returned while verification is suspended after repeated failures.
	ErrLocked = errors.New("PIN entry locked")
	// ErrInvalid rejects anything other than exactly four ASCII digits.
	ErrInvalid = fmt.Errorf("PIN must be %d digits", Length)
)

// Credentials is the persisted PIN the keypad checks against.
type Credentials interface {
	IsPinSet() (bool, error)
	VerifyPin(pin string) error
	SetPin(pin string) error
	RemovePin() error
}

type EventKind int

const (
	EventError EventKind = iota
	EventUnlockSuccess
	EventPinSet
	EventPinRemoved
	EventPinChanged
)

func (k EventKind) String() string {
	switch k {
	case EventUnlockSuccess:
		return "unlock_success"
	case EventPinSet:
		return "pin_set"
	case EventPinRemoved:
		return "pin_removed"
	case EventPinChanged:
		return "pin_changed"
	default:
		return "error"
	}
}

type Event struct {
	Kind    EventKind
	Message string
	Err     error
}

// State is a read-only view of the keypad.
type State struct {
	Entered  int    `json:"entered"`
	IsPinSet bool   `json:"is_pin_set"`
	Mode     string `json:"mode"`
	Title    string `json:"title"`
	Error    string `json:"error,omitempty"`
}

// Pad is not safe for concurrent use.
type Pad struct {
	creds    Credentials
	entered  []byte
	isPinSet bool
	mode     Mode
	title    string
	errMsg   string
	pending  string
}

// NewPad starts in Unlock when a PIN is stored, otherwise in Create.
func NewPad(creds Credentials) (*Pad, error) {
	set, err := creds.IsPinSet()
	if err != nil {
		return nil, fmt.Errorf("pin status: %w", err)
	}
	p := &Pad{creds: creds, isPinSet: set, entered: make([]byte, 0, Length)}
	if set {
		p.SetMode(Unlock)
	} else {
		p.SetMode(Create)
	}
	return p, nil
}

func (p *Pad) Mode() Mode {
	return p.mode
}

func (p *Pad) State() State {
	return State{
		Entered:  len(p.entered),
		IsPinSet: p.isPinSet,
		Mode:     p.mode.String(),
		Title:    p.title,
		Error:    p.errMsg,
	}
}

// SetMode switches mode and clears the buffer and the last error.
func (p *Pad) SetMode(m Mode) {
	p.mode = m
	p.entered = p.entered[:0]
	p.errMsg = ""
	p.title = m.Title()
}

// EnterDigit appends d to the buffer. Non-digits and input past the fourth
// digit are ignored. The fourth digit submits the PIN for the current mode.
func (p *Pad) EnterDigit(d rune) *Event {
	if d < '0' || d > '9' || len(p.entered) >= Length {
		return nil
	}
	p.entered = append(p.entered, byte(d))
	if len(p.entered) < Length {
		return nil
	}
	return p.process(string(p.entered))
}

func (p *Pad) Backspace() {
	if len(p.entered) > 0 {
		p.entered = p.entered[:len(p.entered)-1]
	}
}

// Enter clears the buffer and types a whole PIN.
func (p *Pad) Enter(pin string) *Event {
	if !Valid(pin) {
		return p.fail(ErrInvalid.Error(), ErrInvalid)
	}
	p.entered = p.entered[:0]
	var ev *Event
	for _, d := range pin {
		ev = p.EnterDigit(d)
	}
	return ev
}

// Valid reports whether pin is exactly four ASCII digits.
func Valid(pin string) bool {
	if len(pin) != Length {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}

func (p *Pad) process(pin string) *Event {
	t := transitions[p.mode]
	switch p.mode {
	case Unlock:
		if err := p.creds.VerifyPin(pin); err != nil {
			return p.verifyFailed(err)
		}
		p.entered = p.entered[:0]
		return &Event{Kind: EventUnlockSuccess}

	case Create, ChangeNew:
		p.pending = pin
		p.SetMode(t.ok)
		return nil

	case Confirm, ChangeConfirm:
		if pin != p.pending {
			ev := p.fail("PINs do not match", nil)
			p.mode = t.retry
			p.title = t.retry.Title()
			return ev
		}
		if err := p.creds.SetPin(pin); err != nil {
			return p.fail("Could not save PIN", err)
		}
		kind := EventPinSet
		if p.mode == ChangeConfirm {
			kind = EventPinChanged
		}
		p.pending = ""
		p.isPinSet = true
		p.SetMode(t.ok)
		return &Event{Kind: kind}

	case Remove:
		if err := p.creds.VerifyPin(pin); err != nil {
			return p.verifyFailed(err)
		}
		if err := p.creds.RemovePin(); err != nil {
			return p.fail("Could not remove PIN", err)
		}
		p.isPinSet = false
		p.SetMode(t.ok)
		return &Event{Kind: EventPinRemoved}

	case ChangeOld:
		if err := p.creds.VerifyPin(pin); err != nil {
			return p.verifyFailed(err)
		}
		p.SetMode(t.ok)
		return nil
	}
	return p.fail("Unknown PIN mode", nil)
}

func (p *Pad) verifyFailed(err error) *Event {
	switch {
	case errors.Is(err, ErrLocked):
		return p.fail("Too many attempts, try again later", err)
	case errors.Is(err, ErrIncorrect):
		return p.fail("Incorrect PIN", err)
	default:
		return p.fail("Could not verify PIN", err)
	}
}

// fail records message as the current error and clears the buffer.
func (p *Pad) fail(message string, err error) *Event {
	p.errMsg = message
	p.entered = p.entered[:0]
	return &Event{Kind: EventError, Message: message, Err: err}
}
