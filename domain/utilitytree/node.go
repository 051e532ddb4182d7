// Package utilitytree implements the utility-annotated prefix tree
// (UP-Tree) shared by all transactions of a mining run, together with
// its header table and the incremental updater.
//
// Each tree node carries an item, the number of transactions whose
// prefix passes through it, and the utility those transactions
// contributed at this position. Items are inserted in descending
// transaction-weighted utility (TWU) order so that high-utility items
// cluster near the root, which maximizes path sharing and pruning
// effectiveness during mining.
package utilitytree

// Node is one path segment of the utility tree. Nodes are owned by
// their parent; the header table and the same-item node-link chain hold
// non-owning references only.
type Node struct {
	// ItemID is empty for the root node.
	ItemID string

	// Count is the number of transactions whose prefix passes through
	// this node.
	Count int

	// Utility is the accumulated utility contributed at this node by
	// those transactions (quantity times external utility, summed).
	Utility float64

	// PathUtility maps each ancestor item to the exact utility it
	// contributed across the transactions passing through this node.
	// Quantities vary per transaction, so this cannot be recovered from
	// the ancestor's own aggregates; it is recorded at insertion.
	PathUtility map[string]float64

	// Parent points back toward the root; nil for the root itself.
	Parent *Node

	// Children holds the exclusively owned child nodes keyed by item.
	Children map[string]*Node

	// NodeLink chains to the next node carrying the same item in
	// another branch. Non-owning; the chain starts at the header entry.
	NodeLink *Node
}

func newNode(itemID string, parent *Node) *Node {
	return &Node{
		ItemID:      itemID,
		Parent:      parent,
		Children:    make(map[string]*Node),
		PathUtility: make(map[string]float64),
	}
}

// IsRoot reports whether the node is the distinguished root.
func (n *Node) IsRoot() bool {
	return n.Parent == nil && n.ItemID == ""
}

// PrefixPath returns the item IDs on the path from the root down to,
// but excluding, this node. Root-first order.
func (n *Node) PrefixPath() []string {
	var rev []string
	for p := n.Parent; p != nil && p.ItemID != ""; p = p.Parent {
		rev = append(rev, p.ItemID)
	}
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}
