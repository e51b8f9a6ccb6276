package grove

//featureImportances accumulates the sample weighted impurity decrease of
//every internal node onto its split feature, scaled by the root sample
//count and normalized to sum to one. A tree with no internal node yields
//the zero vector.
func featureImportances(tree *Tree, nFeatures int) []float64 {
	importances := make([]float64, nFeatures)
	if len(tree.TreeNodes) == 0 {
		return importances
	}
	rootN := float64(tree.TreeNodes[0].NSamples)
	total := 0.0
	for _, node := range tree.TreeNodes {
		if node.IsLeaf() {
			continue
		}
		left := tree.TreeNodes[node.LeftIndex]
		right := tree.TreeNodes[node.RightIndex]
		decrease := float64(node.NSamples)*node.Impurity -
			float64(left.NSamples)*left.Impurity -
			float64(right.NSamples)*right.Impurity
		decrease /= rootN
		importances[node.FeatureIndex] += decrease
		total += decrease
	}
	if total == 0 {
		return importances
	}
	for q := range importances {
		importances[q] /= total
	}
	return importances
}
