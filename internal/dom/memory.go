package dom

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

var nodeSeq atomic.Uint64

// Node is an in-memory element
type Node struct {
	id     string
	tag    string
	testID string

	mu        sync.Mutex
	text      string
	attrs     map[string]string
	value     string
	files     []File
	listeners map[string][]Handler
	children  []*Node
}

// NewNode creates a detached node with the given tag name
func NewNode(tag string) *Node {
	return &Node{
		id:        fmt.Sprintf("%s-%d", tag, nodeSeq.Add(1)),
		tag:       tag,
		attrs:     make(map[string]string),
		listeners: make(map[string][]Handler),
	}
}

// WithTestID sets the data-testid of the node
func (n *Node) WithTestID(id string) *Node {
	n.testID = id
	return n
}

// WithAttr sets an attribute and returns the node
func (n *Node) WithAttr(name, value string) *Node {
	n.SetAttr(name, value)
	return n
}

// WithText sets the text content and returns the node
func (n *Node) WithText(text string) *Node {
	n.mu.Lock()
	n.text = text
	n.mu.Unlock()
	return n
}

// Append adds children and returns the node
func (n *Node) Append(children ...*Node) *Node {
	n.mu.Lock()
	n.children = append(n.children, children...)
	n.mu.Unlock()
	return n
}

func (n *Node) ID() string     { return n.id }
func (n *Node) TestID() string { return n.testID }
func (n *Node) Tag() string    { return n.tag }

// Text returns the text content of the node
func (n *Node) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// Children returns the direct children of the node
func (n *Node) Children() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*Node(nil), n.children...)
}

func (n *Node) Attr(name string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attrs[name]
}

func (n *Node) SetAttr(name, value string) {
	n.mu.Lock()
	n.attrs[name] = value
	n.mu.Unlock()
}

func (n *Node) Value() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value
}

func (n *Node) SetValue(value string) {
	n.mu.Lock()
	n.value = value
	if value == "" {
		n.files = nil
	}
	n.mu.Unlock()
}

func (n *Node) Files() []File {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]File(nil), n.files...)
}

func (n *Node) AddEventListener(eventType string, h Handler) {
	n.mu.Lock()
	n.listeners[eventType] = append(n.listeners[eventType], h)
	n.mu.Unlock()
}

// Dispatch runs the listeners registered for ev.Type on the calling
// goroutine and returns the event once they are done
func (n *Node) Dispatch(ctx context.Context, ev *Event) *Event {
	n.mu.Lock()
	handlers := append([]Handler(nil), n.listeners[ev.Type]...)
	n.mu.Unlock()

	ev.Target = n
	for _, h := range handlers {
		h(ctx, ev)
	}
	return ev
}

// Click dispatches a click event
func (n *Node) Click(ctx context.Context) *Event {
	return n.Dispatch(ctx, &Event{Type: Click})
}

// Upload selects files on a file input and dispatches a change event.
// The value mirrors what browsers report for a file input.
func (n *Node) Upload(ctx context.Context, files ...File) *Event {
	n.mu.Lock()
	n.files = append([]File(nil), files...)
	if len(files) > 0 {
		n.value = `C:\fakepath\` + files[0].Name
	} else {
		n.value = ""
	}
	n.mu.Unlock()
	return n.Dispatch(ctx, &Event{Type: Change})
}

// Type sets the value of a form control and dispatches a change event
func (n *Node) Type(ctx context.Context, value string) *Event {
	n.SetValue(value)
	return n.Dispatch(ctx, &Event{Type: Change})
}

// Submit dispatches a submit event
func (n *Node) Submit(ctx context.Context) *Event {
	return n.Dispatch(ctx, &Event{Type: Submit})
}

func (n *Node) walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.Children() {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// ModalDialog is an in-memory modal
type ModalDialog struct {
	mu       sync.Mutex
	width    int
	title    string
	src      string
	imgWidth int
	shown    bool
}

func (m *ModalDialog) Width() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

func (m *ModalDialog) SetImage(src string, width int) {
	m.mu.Lock()
	m.src = src
	m.imgWidth = width
	m.mu.Unlock()
}

func (m *ModalDialog) Show() {
	m.mu.Lock()
	m.shown = true
	m.mu.Unlock()
}

// Hide closes the dialog
func (m *ModalDialog) Hide() {
	m.mu.Lock()
	m.shown = false
	m.mu.Unlock()
}

func (m *ModalDialog) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

// Image returns the image source and width last set on the dialog
func (m *ModalDialog) Image() (string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src, m.imgWidth
}

func (m *ModalDialog) Shown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// Page is an in-memory Document. Replacing its content is the equivalent of
// assigning the body's innerHTML.
type Page struct {
	mu     sync.Mutex
	body   []*Node
	modals map[string]*ModalDialog
}

// NewPage returns an empty page
func NewPage() *Page {
	return &Page{modals: make(map[string]*ModalDialog)}
}

// Replace swaps the whole content of the page
func (p *Page) Replace(nodes ...*Node) {
	p.mu.Lock()
	p.body = append([]*Node(nil), nodes...)
	p.modals = make(map[string]*ModalDialog)
	p.mu.Unlock()
}

// Append adds nodes at the end of the page
func (p *Page) Append(nodes ...*Node) {
	p.mu.Lock()
	p.body = append(p.body, nodes...)
	p.mu.Unlock()
}

// AddModal registers a dialog rendered with the given width
func (p *Page) AddModal(id, title string, width int) *ModalDialog {
	m := &ModalDialog{width: width, title: title}
	p.mu.Lock()
	p.modals[id] = m
	p.mu.Unlock()
	return m
}

// Find returns the nodes matching the predicate in document order
func (p *Page) Find(match func(*Node) bool) []*Node {
	p.mu.Lock()
	body := append([]*Node(nil), p.body...)
	p.mu.Unlock()

	var found []*Node
	for _, n := range body {
		n.walk(func(c *Node) bool {
			if match(c) {
				found = append(found, c)
			}
			return true
		})
	}
	return found
}

// Node returns the first node with the test identifier, or nil
func (p *Page) Node(testID string) *Node {
	found := p.Find(func(n *Node) bool { return n.testID == testID })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// Nodes returns every node with the test identifier
func (p *Page) Nodes(testID string) []*Node {
	return p.Find(func(n *Node) bool { return n.testID == testID })
}

// TextContaining returns the nodes whose text contains s
func (p *Page) TextContaining(s string) []*Node {
	return p.Find(func(n *Node) bool { return strings.Contains(n.Text(), s) })
}

func (p *Page) ByTestID(id string) Element {
	n := p.Node(id)
	if n == nil {
		return nil
	}
	return n
}

func (p *Page) AllByTestID(id string) []Element {
	nodes := p.Nodes(id)
	elements := make([]Element, len(nodes))
	for i, n := range nodes {
		elements[i] = n
	}
	return elements
}

func (p *Page) Modal(id string) Modal {
	m := p.ModalDialog(id)
	if m == nil {
		return nil
	}
	return m
}

// ModalDialog returns the concrete dialog with the given id, or nil
func (p *Page) ModalDialog(id string) *ModalDialog {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modals[id]
}
