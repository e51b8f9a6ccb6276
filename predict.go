package grove

import "gonum.org/v1/gonum/mat"

//Apply returns the leaf id each row of x lands in. A fitted tree is
//read only, so Apply is safe to call concurrently.
func (tree *Tree) Apply(x *mat.Dense) []int {
	h, _ := x.Dims()
	leafIDs := make([]int, h)
	for p := 0; p < h; p++ {
		leafIDs[p] = tree.applyRow(x.RawRowView(p))
	}
	return leafIDs
}

//lookupValues gathers the leaf payload of every row of x into a dense
//matrix with one payload entry per column.
func (tree *Tree) lookupValues(x *mat.Dense, width int) *mat.Dense {
	h, _ := x.Dims()
	out := mat.NewDense(h, width, nil)
	for p, leafID := range tree.Apply(x) {
		out.SetRow(p, tree.LeafNodes[leafID].Value)
	}
	return out
}
