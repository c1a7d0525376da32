// Package search holds the search widget state machine. It knows nothing
// about terminals or HTTP: the host feeds it input, timer and response
// events and reads the derived candidate list back.
package search

import "github.com/qyinm/storesearch/types"

// Key is a navigation event
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
)

// Change reports which parts of the state an event touched, so the host
// can run side effects (scrolling, clearing its input box, redrawing the
// selection panel).
type Change uint8

const (
	ChangeHighlight Change = 1 << iota
	ChangeSelection
	ChangeQuery
)

// Has reports whether all bits of f are set
func (c Change) Has(f Change) bool { return c&f == f }

// Request asks the host to load products. Catalog requests load the full
// list and ignore Query.
type Request struct {
	ID      uint64
	Query   string
	Catalog bool
}

// Response carries the outcome of a Request back, tagged with its ID.
type Response struct {
	ID       uint64
	Products []types.Product
	Err      error
}

// State is the search widget state. It is not safe for concurrent use;
// the host's event loop is its only writer.
type State struct {
	mode       types.Mode
	selectMode types.SelectMode

	raw       string
	committed string
	inputSeq  uint64

	lastID  uint64
	pending uint64
	status  types.FetchStatus
	results []types.Product

	catalog       []types.Product
	catalogLoaded bool

	highlight  int
	selected   []types.Product
	current    types.Product
	hasCurrent bool
}

// New creates an empty State
func New(mode types.Mode, selectMode types.SelectMode) *State {
	return &State{
		mode:       mode,
		selectMode: selectMode,
		status:     types.Idle,
		highlight:  -1,
	}
}

// SetInput records a raw keystroke value and returns the sequence number
// the host must hand back to Commit once the debounce window is quiet.
// Each call makes every earlier sequence number stale.
func (s *State) SetInput(raw string) uint64 {
	s.raw = raw
	s.inputSeq++
	return s.inputSeq
}

// Commit promotes the raw value to the committed query if seq is still
// the latest input. It returns the request the host has to run, if any.
func (s *State) Commit(seq uint64) (Request, bool) {
	if seq != s.inputSeq {
		return Request{}, false
	}
	s.committed = s.raw
	s.highlight = -1

	if s.mode == types.ClientFilter {
		return s.commitClient()
	}
	return s.commitServer()
}

func (s *State) commitServer() (Request, bool) {
	s.results = nil
	if s.committed == "" {
		// Drops whatever is still in flight.
		s.pending = 0
		s.status = types.Idle
		return Request{}, false
	}
	s.status = types.Loading
	return s.issue(Request{Query: s.committed}), true
}

func (s *State) commitClient() (Request, bool) {
	if s.catalogLoaded {
		return Request{}, false
	}
	// A catalog request still in flight stays pending either way.
	if s.committed == "" {
		s.status = types.Idle
		return Request{}, false
	}
	s.status = types.Loading
	if s.pending != 0 {
		return Request{}, false
	}
	return s.issue(Request{Catalog: true}), true
}

func (s *State) issue(req Request) Request {
	s.lastID++
	req.ID = s.lastID
	s.pending = req.ID
	return req
}

// Resolve applies a response. Responses for anything but the pending
// request are stale and ignored; the return value reports whether resp
// was applied.
func (s *State) Resolve(resp Response) bool {
	if resp.ID == 0 || resp.ID != s.pending {
		return false
	}
	s.pending = 0
	s.highlight = -1

	if resp.Err != nil {
		s.status = types.Error
		s.results = nil
		return true
	}

	s.status = types.Success
	if s.mode == types.ClientFilter {
		s.catalog = resp.Products
		s.catalogLoaded = true
		return true
	}
	s.results = resp.Products
	return true
}

// Candidates derives the visible list from the committed query and the
// loaded data.
func (s *State) Candidates() []types.Product {
	if s.committed == "" || s.status != types.Success {
		return nil
	}
	if s.mode == types.ClientFilter {
		return FilterByTitle(s.catalog, s.committed)
	}
	return s.results
}

// Press applies a navigation key. Unknown keys are no-ops.
func (s *State) Press(k Key) Change {
	switch k {
	case KeyDown:
		n := len(s.Candidates())
		if n == 0 {
			return 0
		}
		return s.moveTo(min(s.highlight+1, n-1))
	case KeyUp:
		if s.highlight < 0 {
			return 0
		}
		return s.moveTo(max(s.highlight-1, 0))
	case KeyEnter:
		candidates := s.Candidates()
		if s.highlight < 0 || s.highlight >= len(candidates) {
			return 0
		}
		return s.confirm(candidates[s.highlight])
	case KeyEscape:
		return s.moveTo(-1)
	default:
		return 0
	}
}

// Click confirms the candidate with the given id, as if it had been
// highlighted and Enter pressed. Ids not in the current list are ignored.
func (s *State) Click(id int64) Change {
	for i, p := range s.Candidates() {
		if p.ID() == id {
			s.highlight = i
			return s.confirm(p)
		}
	}
	return 0
}

func (s *State) moveTo(i int) Change {
	if i == s.highlight {
		return 0
	}
	s.highlight = i
	return ChangeHighlight
}

func (s *State) confirm(p types.Product) Change {
	s.highlight = -1
	change := ChangeHighlight

	if s.selectMode == types.SingleSelect {
		s.current = p
		s.hasCurrent = true
		return change | ChangeSelection
	}

	if !s.IsSelected(p.ID()) {
		s.selected = append(s.selected, p)
		change |= ChangeSelection
	}
	s.Commit(s.SetInput(""))
	return change | ChangeQuery
}

// IsSelected reports whether a product id has been confirmed.
func (s *State) IsSelected(id int64) bool {
	if s.selectMode == types.SingleSelect {
		return s.hasCurrent && s.current.ID() == id
	}
	for _, p := range s.selected {
		if p.ID() == id {
			return true
		}
	}
	return false
}

func (s *State) Raw() string                    { return s.raw }
func (s *State) Committed() string              { return s.committed }
func (s *State) Status() types.FetchStatus      { return s.status }
func (s *State) Highlight() int                 { return s.highlight }
func (s *State) Mode() types.Mode               { return s.mode }
func (s *State) SelectMode() types.SelectMode   { return s.selectMode }
func (s *State) Current() (types.Product, bool) { return s.current, s.hasCurrent }

// Selections returns a copy of the confirmed products in order.
func (s *State) Selections() []types.Product {
	return append([]types.Product(nil), s.selected...)
}
