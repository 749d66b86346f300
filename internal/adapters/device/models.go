package device

import (
	"ordersnag/internal/core/uiprobe"
)

// wireNode is the bridge's JSON form of one accessibility tree element
type wireNode struct {
	ID        string      `json:"id,omitempty"`
	Text      string      `json:"text,omitempty"`
	Role      string      `json:"role,omitempty"`
	Clickable bool        `json:"clickable"`
	Visible   bool        `json:"visible"`
	Enabled   bool        `json:"enabled"`
	Bounds    []int       `json:"bounds"` // [x y w h]
	Children  []*wireNode `json:"children,omitempty"`
}

func (w *wireNode) node() *uiprobe.Node {
	if w == nil {
		return nil
	}
	n := &uiprobe.Node{
		ID:        w.ID,
		Text:      w.Text,
		Role:      w.Role,
		Clickable: w.Clickable,
		Visible:   w.Visible,
		Enabled:   w.Enabled,
	}
	if len(w.Bounds) == 4 {
		n.Bounds = uiprobe.Rect{X: w.Bounds[0], Y: w.Bounds[1], W: w.Bounds[2], H: w.Bounds[3]}
	}
	for _, c := range w.Children {
		n.Children = append(n.Children, c.node())
	}
	return n
}

// snapshotResponse carries the tree plus an optional PNG screen capture
type snapshotResponse struct {
	Tree      *wireNode `json:"tree,omitempty"`
	ScreenPNG []byte    `json:"screen_png,omitempty"` // base64 in transit
}

// triggerRequest addresses the control to invoke
type triggerRequest struct {
	Kind   string `json:"kind"` // node or point
	NodeID string `json:"node_id,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
}

// triggerResponse reports whether the bridge saw the control take effect
type triggerResponse struct {
	OK bool `json:"ok"`
}
