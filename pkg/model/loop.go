package model

// Loop level codes select the semantic role of entities attached under a
// hierarchical loop node.
const (
	LevelInformationSource   = "20"
	LevelInformationReceiver = "21"
	LevelProvider            = "19"
	LevelSubscriber          = "22"
	LevelDependent           = "23"
	LevelServiceLine         = "PT"
)

// LoopNode is one HL (hierarchical loop) declaration: a parent-referencing
// node used to express nested business roles within a transaction.
type LoopNode struct {
	ID        string
	ParentID  string
	LevelCode string
	HasChild  bool

	Parent   *LoopNode
	Children []*LoopNode
}

// Ancestors returns the ids of the node's ancestor chain, nearest first.
func (n *LoopNode) Ancestors() []string {
	var ids []string
	for p := n.Parent; p != nil; p = p.Parent {
		ids = append(ids, p.ID)
	}
	return ids
}
