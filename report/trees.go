package report

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
)

var treeFormats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

// RenderTrees writes one human-readable diagram per tree of the fitted
// ensemble into dir, named tree_00000.<format> onward.
func RenderTrees(fm *model.FittedModel, dir, format string) error {
	gvFormat, ok := treeFormats[format]
	if !ok {
		return errors.NewValueError("RenderTrees", "unsupported format "+format)
	}
	m := fm.Regressor.Model
	if m == nil {
		return errors.NewNotFittedError("FittedModel", "RenderTrees")
	}

	for i := range m.Trees {
		filename := filepath.Join(dir, fmt.Sprintf("tree_%05d.%s", i, format))
		if err := renderTree(&m.Trees[i], fm.FeatureNames, gvFormat, filename); err != nil {
			return errors.Wrapf(err, "render tree %d", i)
		}
	}

	log.Stage("report").Info().
		Int("trees", len(m.Trees)).
		Str("dir", dir).
		Msg("rendered tree diagrams")
	return nil
}

func renderTree(tree *lightgbm.Tree, names []string, format graphviz.Format, filename string) error {
	ctx := context.Background()
	g, err := graphviz.New(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	graph, err := g.Graph()
	if err != nil {
		return err
	}
	defer func() { _ = graph.Close() }()

	if len(tree.Nodes) > 0 {
		if err := drawNode(graph, tree, names, 0, nil); err != nil {
			return err
		}
	}
	return g.RenderFilename(ctx, graph, format, filename)
}

func drawNode(graph *cgraph.Graph, tree *lightgbm.Tree, names []string, idx int, parent *cgraph.Node) error {
	if idx < 0 || idx >= len(tree.Nodes) {
		return errors.Newf("claimfreq: tree %d: node index %d out of range", tree.TreeIndex, idx)
	}
	node := &tree.Nodes[idx]

	gvNode, err := graph.CreateNodeByName(fmt.Sprintf("t%d_n%d", tree.TreeIndex, idx))
	if err != nil {
		return err
	}
	if parent != nil {
		if _, err := graph.CreateEdgeByName("", parent, gvNode); err != nil {
			return err
		}
	}

	if node.IsLeaf() {
		gvNode.SetLabel(fmt.Sprintf("rate %.5f\n# %d", node.LeafValue, node.LeafCount))
		gvNode.SetShape(cgraph.BoxShape)
		return nil
	}

	gvNode.SetLabel(fmt.Sprintf("%s < %.5g\ngain %.3f", splitName(names, node.SplitFeature), node.Threshold, node.Gain))
	if err := drawNode(graph, tree, names, node.LeftChild, gvNode); err != nil {
		return err
	}
	return drawNode(graph, tree, names, node.RightChild, gvNode)
}

func splitName(names []string, feature int) string {
	if feature >= 0 && feature < len(names) {
		return names[feature]
	}
	return fmt.Sprintf("f_%d", feature)
}
