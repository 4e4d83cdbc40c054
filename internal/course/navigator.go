package course

// Navigator walks the themes of a tree one at a time. Movement clamps at
// both ends.
type Navigator struct {
	tree  Tree
	index int
}

// NewNavigator positions a navigator on the first theme.
func NewNavigator(tree Tree) *Navigator {
	return &Navigator{tree: tree}
}

// Tree returns the navigated tree.
func (n *Navigator) Tree() Tree { return n.tree }

// Index returns the current theme index.
func (n *Navigator) Index() int { return n.index }

// Len returns the number of themes.
func (n *Navigator) Len() int { return len(n.tree.Themes) }

// Current returns the current theme. ok is false for an empty tree.
func (n *Navigator) Current() (Theme, bool) {
	if n.Len() == 0 {
		return Theme{}, false
	}
	return n.tree.Themes[n.index], true
}

// HasPrev reports whether Retreat would move.
func (n *Navigator) HasPrev() bool { return n.index > 0 }

// HasNext reports whether Advance would move.
func (n *Navigator) HasNext() bool { return n.index < n.Len()-1 }

// Advance moves to the next theme and reports whether it moved.
func (n *Navigator) Advance() bool {
	if !n.HasNext() {
		return false
	}
	n.index++
	return true
}

// Retreat moves to the previous theme and reports whether it moved.
func (n *Navigator) Retreat() bool {
	if !n.HasPrev() {
		return false
	}
	n.index--
	return true
}

// SetIndex jumps to theme i, clamped into range.
func (n *Navigator) SetIndex(i int) {
	switch {
	case n.Len() == 0, i < 0:
		n.index = 0
	case i >= n.Len():
		n.index = n.Len() - 1
	default:
		n.index = i
	}
}
