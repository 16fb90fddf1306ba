package translate

import (
	"fmt"

	"github.com/gemrst/rst2gem/pkg/gemtext"
	"github.com/gemrst/rst2gem/pkg/rstree"
)

// frame is one open construct: the source node that opened it and the
// Gemtext nodes collected while it was open.
type frame struct {
	marker *rstree.Node
	nodes  []gemtext.Node
}

// frameStack is the stack of open-group builders. Every construct's enter
// pushes a frame; its leave pops the frame and restructures the collected
// nodes into the parent frame. A pop with the wrong marker means the
// enter/leave events are mismatched, which is a structural bug, never a
// recoverable condition.
type frameStack struct {
	frames []*frame
}

func (s *frameStack) push(marker *rstree.Node) {
	s.frames = append(s.frames, &frame{marker: marker})
}

// pop removes the top frame and returns its collected nodes. It fails when
// the stack is empty or the top frame was opened by a different node.
func (s *frameStack) pop(marker *rstree.Node) ([]gemtext.Node, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("%w: %s at line %d (empty stack)",
			ErrMarkerNotFound, marker.Kind, marker.Line)
	}
	top := s.frames[len(s.frames)-1]
	if top.marker != marker {
		return nil, fmt.Errorf("%w: %s at line %d (open construct is %s at line %d)",
			ErrMarkerNotFound, marker.Kind, marker.Line, top.marker.Kind, top.marker.Line)
	}
	s.frames = s.frames[:len(s.frames)-1]
	return top.nodes, nil
}

// add appends nodes to the top frame.
func (s *frameStack) add(nodes ...gemtext.Node) {
	top := s.frames[len(s.frames)-1]
	top.nodes = append(top.nodes, nodes...)
}

func (s *frameStack) depth() int {
	return len(s.frames)
}
