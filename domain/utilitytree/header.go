package utilitytree

// HeaderEntry summarizes one item across every branch of the tree.
type HeaderEntry struct {
	// First is the traversal starting point of the node-link chain.
	// Non-owning.
	First *Node

	// last is the chain tail, kept for O(1) appends.
	last *Node

	// TotalUtility is the sum of Node.Utility over the whole chain:
	// the exact utility of the singleton itemset {item}.
	TotalUtility float64

	// PotentialUtility is the item's transaction-weighted utility, the
	// upper bound on the utility of any itemset containing the item.
	PotentialUtility float64

	// Count is the number of transactions containing the item.
	Count int
}

// link appends a newly created node to the chain.
func (e *HeaderEntry) link(n *Node) {
	if e.First == nil {
		e.First = n
		e.last = n
		return
	}
	e.last.NodeLink = n
	e.last = n
}

// Chain returns every node of the item in link order.
func (e *HeaderEntry) Chain() []*Node {
	var nodes []*Node
	for n := e.First; n != nil; n = n.NodeLink {
		nodes = append(nodes, n)
	}
	return nodes
}
