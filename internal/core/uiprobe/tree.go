// Package uiprobe locates accept controls in a foreign app's UI.
// Two paths: exact-signature search over the accessibility tree (cheap, high
// confidence) and grayscale patch matching over a screen capture (expensive
// fallback, capped confidence). Both are pure; caching and per-package
// serialization live in the inspector service
package uiprobe

import (
	"strings"

	"ordersnag/internal/core/platformpack"
	"ordersnag/internal/core/textnorm"
)

// Rect is an element's on-screen bounds in pixels
type Rect struct {
	X, Y, W, H int
}

// Center returns the midpoint, the tap target for point handles
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Node is one element of the captured UI tree
type Node struct {
	ID        string // resource id, may be empty
	Text      string
	Role      string // widget class reported by the tree provider
	Clickable bool
	Visible   bool
	Enabled   bool
	Bounds    Rect
	Children  []*Node
}

// actionable reports whether the element can receive a trigger right now
func (n *Node) actionable() bool {
	return n.Clickable && n.Visible && n.Enabled
}

// HandleKind distinguishes how a located control is addressed
type HandleKind string

// Handle kinds
const (
	HandleNode  HandleKind = "node"  // addressed by tree element id
	HandlePoint HandleKind = "point" // addressed by tap coordinates
)

// Handle is an opaque reference to a located control, passed to the trigger
type Handle struct {
	Kind   HandleKind
	NodeID string
	X, Y   int
}

// MatchPath records which search strategy produced a match
type MatchPath string

// Match paths
const (
	PathTree  MatchPath = "tree"
	PathImage MatchPath = "image"
)

// Match is a successfully located control with its confidence
type Match struct {
	Handle     Handle
	Confidence float64
	Path       MatchPath
}

// Tree-path confidences. Exact label matches are near-certain; resource-id
// hints sit at the floor the executor treats as directly actionable
const (
	confTreeLabel = 0.95
	confTreeID    = 0.85
)

// Matcher runs the signature search. Safe for concurrent use
type Matcher struct {
	norm *textnorm.Normalizer
}

// NewMatcher constructs a Matcher
func NewMatcher() *Matcher {
	return &Matcher{norm: textnorm.New()}
}

// FindInTree searches the tree for the platform's accept control.
// Signatures are tried in pack order; for each, every actionable element is a
// candidate and the first hit wins. Label equality beats id hints
func (m *Matcher) FindInTree(root *Node, plat *platformpack.Platform) (Match, bool) {
	if root == nil || plat == nil {
		return Match{}, false
	}

	for _, label := range plat.AcceptLabels {
		if n := m.findByLabel(root, label); n != nil {
			return Match{Handle: handleFor(n), Confidence: confTreeLabel, Path: PathTree}, true
		}
	}
	for _, hint := range plat.AcceptIDHints {
		if n := m.findByIDHint(root, hint, plat.DeclineLabels); n != nil {
			return Match{Handle: handleFor(n), Confidence: confTreeID, Path: PathTree}, true
		}
	}
	return Match{}, false
}

func handleFor(n *Node) Handle {
	if n.ID != "" {
		return Handle{Kind: HandleNode, NodeID: n.ID}
	}
	x, y := n.Bounds.Center()
	return Handle{Kind: HandlePoint, X: x, Y: y}
}

func (m *Matcher) findByLabel(n *Node, label string) *Node {
	if n.actionable() && m.norm.Normalize(n.Text) == label {
		return n
	}
	for _, c := range n.Children {
		if hit := m.findByLabel(c, label); hit != nil {
			return hit
		}
	}
	return nil
}

// findByIDHint matches the trailing segment of the resource id, so
// "com.doordash.driverapp:id/accept_button" matches the hint "accept_button".
// Id hints are fuzzier than labels; an element carrying one of the platform's
// decline labels is refused even when its id matches
func (m *Matcher) findByIDHint(n *Node, hint string, decline []string) *Node {
	if n.actionable() && n.ID != "" && !m.declined(n, decline) {
		id := strings.ToLower(n.ID)
		if id == hint || strings.HasSuffix(id, "/"+hint) || strings.HasSuffix(id, ":"+hint) {
			return n
		}
	}
	for _, c := range n.Children {
		if hit := m.findByIDHint(c, hint, decline); hit != nil {
			return hit
		}
	}
	return nil
}

// declined reports whether the element's visible text is one of the
// platform's decline labels
func (m *Matcher) declined(n *Node, decline []string) bool {
	if n.Text == "" || len(decline) == 0 {
		return false
	}
	txt := m.norm.Normalize(n.Text)
	for _, d := range decline {
		if txt == d {
			return true
		}
	}
	return false
}
