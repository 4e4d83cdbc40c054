package course

import "testing"

func threeThemes() Tree {
	return Tree{Themes: []Theme{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}}
}

func TestNavigator_ClampsAtEnds(t *testing.T) {
	n := NewNavigator(threeThemes())

	if n.HasPrev() || n.Retreat() {
		t.Fatal("retreat at first theme should not move")
	}
	if n.Index() != 0 {
		t.Fatalf("index = %d, want 0", n.Index())
	}

	for i := 1; i <= 2; i++ {
		if !n.Advance() {
			t.Fatalf("advance %d refused", i)
		}
	}
	if n.HasNext() || n.Advance() {
		t.Fatal("advance at last theme should not wrap")
	}
	if cur, _ := n.Current(); cur.Name != "c" {
		t.Errorf("current = %q, want c", cur.Name)
	}

	if !n.Retreat() || n.Index() != 1 {
		t.Errorf("retreat: index = %d, want 1", n.Index())
	}
}

func TestNavigator_SetIndex(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-4, 0},
		{0, 0},
		{2, 2},
		{9, 2},
	}
	for _, tt := range tests {
		n := NewNavigator(threeThemes())
		n.SetIndex(tt.in)
		if n.Index() != tt.want {
			t.Errorf("SetIndex(%d): index = %d, want %d", tt.in, n.Index(), tt.want)
		}
	}
}

func TestNavigator_EmptyTree(t *testing.T) {
	n := NewNavigator(Tree{})
	if _, ok := n.Current(); ok {
		t.Error("empty tree should have no current theme")
	}
	if n.Advance() || n.Retreat() {
		t.Error("empty tree should not move")
	}
	n.SetIndex(3)
	if n.Index() != 0 {
		t.Errorf("index = %d, want 0", n.Index())
	}
}
