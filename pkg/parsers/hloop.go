package parsers

import (
	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/x12"
)

// HL element indexes.
const (
	hlIndexID        = 1
	hlIndexParentID  = 2
	hlIndexLevelCode = 3
	hlIndexChildCode = 4
)

// loopTree reconstructs the hierarchical-loop tree shared by the
// eligibility and claim-status grammars. The wire format guarantees parents
// precede children, so a declaration referencing an unseen parent is dropped
// rather than retroactively attached.
type loopTree struct {
	nodes   map[string]*model.LoopNode
	roots   []*model.LoopNode
	current *model.LoopNode
}

func newLoopTree() *loopTree {
	return &loopTree{nodes: make(map[string]*model.LoopNode)}
}

// add consumes one HL declaration and returns the created node, or nil when
// the declaration was dropped.
func (t *loopTree) add(id, parentID, levelCode string, hasChild bool) *model.LoopNode {
	if id == "" {
		return nil
	}
	node := &model.LoopNode{
		ID:        id,
		ParentID:  parentID,
		LevelCode: levelCode,
		HasChild:  hasChild,
	}
	if parentID == "" {
		t.nodes[id] = node
		t.roots = append(t.roots, node)
		t.current = node
		return node
	}
	parent, ok := t.nodes[parentID]
	if !ok {
		// Forward reference: the parent was never seen. Drop the node.
		return nil
	}
	node.Parent = parent
	parent.Children = append(parent.Children, node)
	t.nodes[id] = node
	t.current = node
	return node
}

// addSegment consumes an HL segment directly.
func (t *loopTree) addSegment(seg x12.Segment) *model.LoopNode {
	return t.add(
		seg.Element(hlIndexID),
		seg.Element(hlIndexParentID),
		seg.Element(hlIndexLevelCode),
		seg.Element(hlIndexChildCode) == "1",
	)
}

// level returns the level code of the nearest enclosing loop node, which
// selects the semantic role of subsequently attached entities.
func (t *loopTree) level() string {
	if t.current == nil {
		return ""
	}
	return t.current.LevelCode
}
