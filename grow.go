package grove

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

//grower owns the recursive induction of one tree. A grower is created
//per Fit call and never shared: the generator state is threaded
//explicitly through the recursion and the leaf budget is an explicit
//counter reference, so independent fits cannot race on either.
type grower struct {
	x              *mat.Dense
	eval           nodeEvaluator
	nFeatures      int
	maxDepth       int // -1 when unlimited
	maxLeafNodes   int // -1 when unlimited
	minSamplesLeaf int
	maxFeatures    int
	tree           *Tree
}

//newGrower resolves the per fit limits. MaxFeatures is clamped to
//[1, nFeatures]; nil means a deterministic full feature search.
func newGrower(x *mat.Dense, eval nodeEvaluator, params Params) *grower {
	_, nFeatures := x.Dims()
	g := &grower{
		x:              x,
		eval:           eval,
		nFeatures:      nFeatures,
		maxDepth:       -1,
		maxLeafNodes:   -1,
		minSamplesLeaf: params.MinSamplesLeaf,
		maxFeatures:    nFeatures,
		tree:           &Tree{TreeNodes: make([]TreeNode, 0), LeafNodes: make([]LeafNode, 0)},
	}
	if params.MaxDepth != nil {
		g.maxDepth = *params.MaxDepth
	}
	if params.MaxLeafNodes != nil {
		g.maxLeafNodes = *params.MaxLeafNodes
	}
	if params.MaxFeatures != nil && *params.MaxFeatures < nFeatures {
		g.maxFeatures = *params.MaxFeatures
	}
	if g.maxFeatures < 1 {
		g.maxFeatures = 1
	}
	return g
}

//grow builds the whole tree over the given sample ids. A dataset too
//small to clear the minimum leaf size still yields a root only tree.
func (g *grower) grow(ids []int, rng *rand.Rand) *Tree {
	nLeaves := 0
	impurity := g.eval.impurity(ids)
	if g.growNode(0, ids, impurity, rng, &nLeaves) == -1 {
		g.makeLeaf(0, ids, impurity, &nLeaves)
	}
	return g.tree
}

//growNode recursively induces the subtree over ids and returns its node
//index, or -1 when the leaf budget or the minimum leaf size suppresses
//any node here. The parent decides what a suppressed side becomes.
func (g *grower) growNode(depth int, ids []int, impurity float64, rng *rand.Rand, nLeaves *int) int {
	if g.maxLeafNodes != -1 && *nLeaves >= g.maxLeafNodes {
		return -1
	}
	if len(ids) <= g.minSamplesLeaf {
		return -1
	}

	nodeIndex := len(g.tree.TreeNodes)
	g.tree.TreeNodes = append(g.tree.TreeNodes, TreeNode{
		Depth:        depth,
		Impurity:     impurity,
		NSamples:     len(ids),
		FeatureIndex: -1,
		LeftIndex:    -1,
		RightIndex:   -1,
		LeafIndex:    -1,
	})

	if g.eval.pure(ids) {
		g.putLeaf(nodeIndex, ids, nLeaves)
		return nodeIndex
	}
	if g.maxDepth != -1 && depth == g.maxDepth {
		g.putLeaf(nodeIndex, ids, nLeaves)
		return nodeIndex
	}

	best := splitInfo{}
	for _, featureIndex := range g.sampleFeatureIDs(rng) {
		candidate := g.eval.bestSplit(ids, featureIndex, impurity)
		if candidate.valid && candidate.gain > best.gain {
			best = candidate
		}
	}
	if !best.valid {
		g.putLeaf(nodeIndex, ids, nLeaves)
		return nodeIndex
	}

	leftIDs, rightIDs := partitionIDs(g.x, ids, best.featureIndex, best.threshold)

	markNodes := len(g.tree.TreeNodes)
	markLeaves := len(g.tree.LeafNodes)
	markCount := *nLeaves

	leftIndex := g.growNode(depth+1, leftIDs, best.leftImpurity, childRNG(rng), nLeaves)
	rightIndex := g.growNode(depth+1, rightIDs, best.rightImpurity, childRNG(rng), nLeaves)

	if leftIndex == -1 && rightIndex == -1 {
		//neither side could be materialized, so the split is abandoned
		g.putLeaf(nodeIndex, ids, nLeaves)
		return nodeIndex
	}

	//a single suppressed side still becomes a leaf so that no internal
	//node is ever left with only one child
	if leftIndex == -1 {
		leftIndex = g.sideLeaf(depth+1, leftIDs, best.leftImpurity, nLeaves)
	}
	if rightIndex == -1 {
		rightIndex = g.sideLeaf(depth+1, rightIDs, best.rightImpurity, nLeaves)
	}
	if leftIndex == -1 || rightIndex == -1 {
		//the leaf budget ran out under this split; drop everything the
		//children produced and emit a leaf here instead
		g.tree.TreeNodes = g.tree.TreeNodes[:markNodes]
		g.tree.LeafNodes = g.tree.LeafNodes[:markLeaves]
		*nLeaves = markCount
		g.putLeaf(nodeIndex, ids, nLeaves)
		return nodeIndex
	}

	node := &g.tree.TreeNodes[nodeIndex]
	node.FeatureIndex = best.featureIndex
	node.Threshold = best.threshold
	node.LeftIndex = leftIndex
	node.RightIndex = rightIndex
	return nodeIndex
}

//putLeaf converts an existing node into a leaf and appends its payload
//to the dense leaf table; leaf ids follow construction order.
func (g *grower) putLeaf(nodeIndex int, ids []int, nLeaves *int) {
	leafID := len(g.tree.LeafNodes)
	g.tree.LeafNodes = append(g.tree.LeafNodes, LeafNode{
		LeafNodeID: leafID,
		Value:      g.eval.leafValue(ids),
		NSamples:   len(ids),
	})
	g.tree.TreeNodes[nodeIndex].LeafIndex = leafID
	*nLeaves++
}

//makeLeaf appends a fresh node and immediately turns it into a leaf.
func (g *grower) makeLeaf(depth int, ids []int, impurity float64, nLeaves *int) int {
	nodeIndex := len(g.tree.TreeNodes)
	g.tree.TreeNodes = append(g.tree.TreeNodes, TreeNode{
		Depth:        depth,
		Impurity:     impurity,
		NSamples:     len(ids),
		FeatureIndex: -1,
		LeftIndex:    -1,
		RightIndex:   -1,
		LeafIndex:    -1,
	})
	g.putLeaf(nodeIndex, ids, nLeaves)
	return nodeIndex
}

//sideLeaf materializes a suppressed split side as a leaf, or reports -1
//when the leaf budget is exhausted.
func (g *grower) sideLeaf(depth int, ids []int, impurity float64, nLeaves *int) int {
	if g.maxLeafNodes != -1 && *nLeaves >= g.maxLeafNodes {
		return -1
	}
	return g.makeLeaf(depth, ids, impurity, nLeaves)
}

//sampleFeatureIDs draws maxFeatures distinct feature indices from the
//threaded generator. When every feature is searched anyway the identity
//order is used, keeping the full search deterministic.
func (g *grower) sampleFeatureIDs(rng *rand.Rand) []int {
	if g.maxFeatures >= g.nFeatures {
		ids := make([]int, g.nFeatures)
		for i := range ids {
			ids[i] = i
		}
		return ids
	}
	return rng.Perm(g.nFeatures)[:g.maxFeatures]
}

//childRNG derives an independent generator state for one recursive
//branch, so sibling subtrees never share mutable generator state.
func childRNG(rng *rand.Rand) *rand.Rand {
	return rand.New(rand.NewSource(rng.Int63()))
}

//partitionIDs splits ids in place around the threshold with a single
//two pointer pass: rows with feature value <= threshold go left. The
//caller's id array is reused, no data matrix is ever copied.
func partitionIDs(x *mat.Dense, ids []int, featureIndex int, threshold float64) (left, right []int) {
	i, j := 0, len(ids)
	for i < j {
		if x.At(ids[i], featureIndex) <= threshold {
			i++
		} else {
			j--
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	return ids[:i], ids[i:]
}

//allIDs returns the identity sample index set [0, n).
func allIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}
