package grove

//TreeNode is a node of a tree. The tree is stored in an array.
//LeftIndex and RightIndex are equal to -1 when the current node is a
//leaf, otherwise they contain array indices of children. A leaf node
//carries a LeafIndex into the LeafNodes payload table; on internal
//nodes LeafIndex is -1.
type TreeNode struct {
	Depth        int     `json:"depth"`
	Impurity     float64 `json:"impurity"`
	NSamples     int     `json:"n_samples"`
	FeatureIndex int     `json:"feature_index"`
	Threshold    float64 `json:"threshold"`
	LeftIndex    int     `json:"left_index"`
	RightIndex   int     `json:"right_index"`
	LeafIndex    int     `json:"leaf_index"`
}

//IsLeaf returns whether this node carries a leaf payload.
func (node TreeNode) IsLeaf() bool {
	return node.LeafIndex != -1
}

//LeafNode stores the prediction payload of one leaf: a class
//probability vector, a mean target vector, or a single Newton step
//weight for boosting trees.
type LeafNode struct {
	LeafNodeID int       `json:"leaf_node_id"`
	Value      []float64 `json:"value"`
	NSamples   int       `json:"n_samples"`
}

//Tree is an induced binary decision tree. TreeNodes[0] is the root.
//LeafNodes is the dense leaf payload table, indexed by the leaf ids
//assigned in construction order starting at 0. A tree is built once per
//Fit call and traversed read only afterwards.
type Tree struct {
	TreeNodes []TreeNode `json:"tree_nodes"`
	LeafNodes []LeafNode `json:"leaf_nodes"`
}

//NLeaves returns the number of leaves of the tree.
func (tree *Tree) NLeaves() int {
	return len(tree.LeafNodes)
}

//applyRow descends from the root, going left when the feature value is
//less than or equal to the threshold, and returns the id of the leaf
//the row lands in.
func (tree *Tree) applyRow(row []float64) int {
	ind := 0
	for !tree.TreeNodes[ind].IsLeaf() {
		node := tree.TreeNodes[ind]
		if row[node.FeatureIndex] <= node.Threshold {
			ind = node.LeftIndex
		} else {
			ind = node.RightIndex
		}
	}
	return tree.TreeNodes[ind].LeafIndex
}
