package translate

import (
	"errors"
	"testing"

	"github.com/gemrst/rst2gem/pkg/gemtext"
	"github.com/gemrst/rst2gem/pkg/rstree"
)

func TestFrameStack_PushPop(t *testing.T) {
	var s frameStack
	outer := rstree.NewNode(rstree.KindBlockQuote, 1)
	inner := rstree.NewNode(rstree.KindParagraph, 2)

	s.push(outer)
	s.add(gemtext.NewSeparator(nil))
	s.push(inner)
	s.add(gemtext.NewParagraph(inner), gemtext.NewParagraph(inner))

	if s.depth() != 2 {
		t.Fatalf("depth = %d, want 2", s.depth())
	}

	nodes, err := s.pop(inner)
	if err != nil {
		t.Fatalf("pop(inner) error = %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("inner nodes = %d, want 2", len(nodes))
	}

	nodes, err = s.pop(outer)
	if err != nil {
		t.Fatalf("pop(outer) error = %v", err)
	}
	if len(nodes) != 1 {
		t.Errorf("outer nodes = %d, want 1", len(nodes))
	}
	if s.depth() != 0 {
		t.Errorf("depth = %d, want 0", s.depth())
	}
}

func TestFrameStack_PopWrongMarker(t *testing.T) {
	var s frameStack
	opened := rstree.NewNode(rstree.KindBulletList, 3)
	other := rstree.NewNode(rstree.KindBulletList, 9)

	s.push(opened)

	_, err := s.pop(other)
	if !errors.Is(err, ErrMarkerNotFound) {
		t.Fatalf("pop() error = %v, want ErrMarkerNotFound", err)
	}
	// The failed pop must not disturb the stack.
	if s.depth() != 1 {
		t.Errorf("depth = %d, want 1", s.depth())
	}
}

func TestFrameStack_PopEmpty(t *testing.T) {
	var s frameStack
	marker := rstree.NewNode(rstree.KindParagraph, 1)

	_, err := s.pop(marker)
	if !errors.Is(err, ErrMarkerNotFound) {
		t.Fatalf("pop() error = %v, want ErrMarkerNotFound", err)
	}
}

func TestFrameStack_AddTargetsTopFrame(t *testing.T) {
	var s frameStack
	outer := rstree.NewNode(rstree.KindDocument, 1)
	inner := rstree.NewNode(rstree.KindFigure, 2)

	s.push(outer)
	s.push(inner)
	s.add(gemtext.NewSeparator(nil))

	nodes, err := s.pop(inner)
	if err != nil {
		t.Fatalf("pop(inner) error = %v", err)
	}
	if len(nodes) != 1 {
		t.Errorf("inner nodes = %d, want 1", len(nodes))
	}

	nodes, err = s.pop(outer)
	if err != nil {
		t.Fatalf("pop(outer) error = %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("outer nodes = %d, want 0", len(nodes))
	}
}
