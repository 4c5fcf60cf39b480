// Package dom is the narrow document surface the controllers are built
// against: element lookup by test identifier, attributes, values, file
// selections, event listeners and a modal dialog.
package dom

import "context"

// File is a file selected in a file input
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Event is dispatched to the listeners of an element
type Event struct {
	Type   string
	Target Element

	defaultPrevented bool
}

// PreventDefault suppresses the default action of the event (e.g. page
// navigation on form submit)
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Handler reacts to an event
type Handler func(ctx context.Context, ev *Event)

// Element is an interactive node of the rendered view
type Element interface {
	// ID is a stable identity for the element within its document
	ID() string

	// TestID is the test identifier the element was rendered with
	TestID() string

	Attr(name string) string
	SetAttr(name, value string)

	// Value returns the current value of a form control
	Value() string

	// SetValue sets the value of a form control. Setting a file input
	// to the empty string clears its selection.
	SetValue(value string)

	// Files returns the selection of a file input
	Files() []File

	AddEventListener(eventType string, h Handler)
}

// Modal is a dialog showing a receipt image
type Modal interface {
	// Width is the rendered width of the dialog in pixels
	Width() int

	SetImage(src string, width int)
	Show()
}

// Document gives access to the rendered view
type Document interface {
	// ByTestID returns the first element with the test identifier, or nil
	ByTestID(id string) Element

	// AllByTestID returns every element with the test identifier in
	// document order
	AllByTestID(id string) []Element

	// Modal returns the dialog with the given id, or nil
	Modal(id string) Modal
}

// Event types
const (
	Click  = "click"
	Change = "change"
	Submit = "submit"
)
