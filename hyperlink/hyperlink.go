// Package hyperlink implements storage for OSC 8 hyperlinks attached to
// grid cells.
//
// Hyperlinks are interned in a ref-counted table the same way cell styles
// are: a cell only stores a small handle (ID), and the grid looks up the
// full URI/params when a renderer or snapshot consumer needs them. This
// keeps cells fixed-size regardless of how long a URI is.
package hyperlink

import "github.com/google/uuid"

// ID is the handle stored on a cell. The zero value means "no hyperlink".
type ID uint32

const NoID ID = 0

// Link is the interned value: the target URI plus whatever OSC 8 params
// accompanied it (explicit "id" param, if any).
type Link struct {
	URI    string
	Params map[string]string
	// ExplicitID is the id= param the host supplied, if any. Two OSC 8
	// sequences with the same ExplicitID refer to the same logical link
	// even if written far apart, which matters for hover-highlighting
	// every cell belonging to the same link.
	ExplicitID string

	refs int
}

// Store interns Links behind small integer handles with reference
// counting, so that resizing/scrolling/clearing cells can cheaply release
// a link without having to scan the whole grid for other references.
type Store struct {
	byID   map[ID]*Link
	byExplicit map[string]ID
	nextID ID
}

func NewStore() *Store {
	return &Store{
		byID:       map[ID]*Link{},
		byExplicit: map[string]ID{},
		nextID:     1,
	}
}

// Open interns uri/params and returns a handle with its ref count set to 1.
// If params carries an explicit id matching a link already open, that
// existing handle's ref count is bumped instead of creating a duplicate.
func (s *Store) Open(uri string, params map[string]string) ID {
	explicit := params["id"]
	if explicit != "" {
		if id, ok := s.byExplicit[explicit]; ok {
			if link := s.byID[id]; link != nil && link.URI == uri {
				link.refs++
				return id
			}
		}
	}
	id := s.nextID
	s.nextID++
	s.byID[id] = &Link{URI: uri, Params: params, ExplicitID: explicit, refs: 1}
	if explicit != "" {
		s.byExplicit[explicit] = id
	}
	return id
}

// Use increments the reference count of an already-open handle, used when
// copying a cell that already carries a hyperlink (e.g. during scroll).
func (s *Store) Use(id ID) {
	if id == NoID {
		return
	}
	if link, ok := s.byID[id]; ok {
		link.refs++
	}
}

// Release decrements the reference count of id, deleting it once no cell
// references it anymore.
func (s *Store) Release(id ID) {
	if id == NoID {
		return
	}
	link, ok := s.byID[id]
	if !ok {
		return
	}
	link.refs--
	if link.refs <= 0 {
		delete(s.byID, id)
		if link.ExplicitID != "" {
			delete(s.byExplicit, link.ExplicitID)
		}
	}
}

// Get returns the link data for id, or nil if unset/unknown.
func (s *Store) Get(id ID) *Link {
	if id == NoID {
		return nil
	}
	return s.byID[id]
}

// NewAnonymousID generates a synthetic explicit id for a hyperlink that
// the host didn't tag with id=, so cells sharing the same OSC 8 "run" can
// still be grouped together (matches how terminals expose hover regions
// for untagged links).
func NewAnonymousID() string {
	return uuid.NewString()
}
