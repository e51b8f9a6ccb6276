package grove

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

//nodeDescription returns the label of an internal node for tree
//rendering as a graph.
func (tree *Tree) nodeDescription(ind int) string {
	node := tree.TreeNodes[ind]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("#", node.NSamples))
	sb.WriteString(fmt.Sprintln("impurity: ", node.Impurity))
	sb.WriteString(fmt.Sprintf("f_%d <= %6.5f", node.FeatureIndex, node.Threshold))
	return sb.String()
}

//leafDescription returns the label of a leaf node for tree rendering as
//a graph.
func (tree *Tree) leafDescription(ind int) string {
	leaf := tree.LeafNodes[tree.TreeNodes[ind].LeafIndex]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("id: ", leaf.LeafNodeID))
	sb.WriteString("[")
	for _, val := range leaf.Value {
		sb.WriteString(fmt.Sprintf("  %6.2f,\n", val))
	}
	sb.WriteString("]\n")
	sb.WriteString(fmt.Sprintln(leaf.NSamples))
	return sb.String()
}

func recurrentDraw(g *cgraph.Graph, tree *Tree, nodeNumber int, parentNode *cgraph.Node) {
	currentNode, err := g.CreateNode(fmt.Sprint(nodeNumber))
	HandleError(err)

	if parentNode != nil {
		g.CreateEdge("", parentNode, currentNode)
	}

	if tree.TreeNodes[nodeNumber].IsLeaf() {
		currentNode.Set("label", tree.leafDescription(nodeNumber))
		currentNode.Set("shape", "box")
	} else {
		currentNode.Set("label", tree.nodeDescription(nodeNumber))
		recurrentDraw(g, tree, tree.TreeNodes[nodeNumber].LeftIndex, currentNode)
		recurrentDraw(g, tree, tree.TreeNodes[nodeNumber].RightIndex, currentNode)
	}
}

//DrawGraph builds a graphviz graph of the tree with internal nodes as
//ellipses and leaves as boxes.
func (tree *Tree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	HandleError(err)

	recurrentDraw(graph, tree, 0, nil)

	return graphViz, graph
}

//RenderGraph renders the tree into an image file. Supported figure
//types are "png", "svg" and "jpg".
func (tree *Tree) RenderGraph(filename, figureType string) {
	graphvizType := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]

	graphViz, graph := tree.DrawGraph()
	HandleError(graphViz.RenderFilename(graph, graphvizType, filename))
}
