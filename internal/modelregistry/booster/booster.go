// Package booster evaluates gradient-boosted tree ensembles exported in the
// XGBoost JSON dump format.
package booster

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Objective names the learning task the ensemble was trained for.
type Objective string

const (
	ObjectiveRegression Objective = "reg:squarederror"
	ObjectiveLinear     Objective = "reg:linear"
	ObjectiveLogistic   Objective = "binary:logistic"
)

// ErrNotClassifier is returned by PredictProba on a regression ensemble.
var ErrNotClassifier = errors.New("booster: probability requested from a regression model")

// Node is one entry of a dumped tree. Leaves carry Leaf; split nodes carry
// Split, SplitCondition and the yes/no/missing child ids.
type Node struct {
	NodeID         int      `json:"nodeid"`
	Split          string   `json:"split,omitempty"`
	SplitCondition float64  `json:"split_condition,omitempty"`
	Yes            int      `json:"yes,omitempty"`
	No             int      `json:"no,omitempty"`
	Missing        int      `json:"missing,omitempty"`
	Leaf           *float64 `json:"leaf,omitempty"`
	Children       []Node   `json:"children,omitempty"`
}

// Document is the on-disk model.
type Document struct {
	Objective Objective `json:"objective"`
	BaseScore float64   `json:"base_score"`
	Trees     []Node    `json:"trees"`
}

type node struct {
	feature int
	cond    float64
	yes, no int
	missing int
	leaf    float64
	isLeaf  bool
}

type tree []node

// Booster is an immutable compiled ensemble, safe for concurrent use.
type Booster struct {
	objective  Objective
	baseMargin float64
	trees      []tree
	nFeatures  int
}

// Parse decodes raw JSON and compiles it against the ordered feature columns.
func Parse(raw []byte, columns []string) (*Booster, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return Compile(doc, columns)
}

// Compile resolves split feature names to column indexes and checks that every
// tree is well formed.
func Compile(doc Document, columns []string) (*Booster, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	b := &Booster{objective: doc.Objective, nFeatures: len(columns)}
	switch doc.Objective {
	case ObjectiveRegression, ObjectiveLinear:
		b.baseMargin = doc.BaseScore
	case ObjectiveLogistic:
		if doc.BaseScore <= 0 || doc.BaseScore >= 1 {
			return nil, fmt.Errorf("base_score %v outside (0,1) for %s", doc.BaseScore, doc.Objective)
		}
		b.baseMargin = math.Log(doc.BaseScore / (1 - doc.BaseScore))
	default:
		return nil, fmt.Errorf("unsupported objective %q", doc.Objective)
	}

	for i, root := range doc.Trees {
		t, err := compileTree(root, index)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		b.trees = append(b.trees, t)
	}
	return b, nil
}

func compileTree(root Node, index map[string]int) (tree, error) {
	flat := map[int]Node{}
	var walk func(n Node) error
	walk = func(n Node) error {
		if _, dup := flat[n.NodeID]; dup {
			return fmt.Errorf("duplicate node id %d", n.NodeID)
		}
		flat[n.NodeID] = n
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	if root.NodeID != 0 {
		return nil, fmt.Errorf("root node id must be 0, got %d", root.NodeID)
	}
	// Pruned trees keep their original ids, so the table is sized by the
	// largest id and may have unused slots.
	maxID := 0
	for id := range flat {
		if id < 0 {
			return nil, fmt.Errorf("node id %d out of range", id)
		}
		maxID = max(maxID, id)
	}

	t := make(tree, maxID+1)
	for id, n := range flat {
		if n.Leaf != nil {
			t[id] = node{leaf: *n.Leaf, isLeaf: true}
			continue
		}
		col, ok := index[n.Split]
		if !ok {
			return nil, fmt.Errorf("node %d splits on unknown feature %q", id, n.Split)
		}
		for _, child := range []int{n.Yes, n.No, n.Missing} {
			if _, ok := flat[child]; !ok || child <= id {
				return nil, fmt.Errorf("node %d references invalid child %d", id, child)
			}
		}
		t[id] = node{feature: col, cond: n.SplitCondition, yes: n.Yes, no: n.No, missing: n.Missing}
	}
	return t, nil
}

// eval walks one tree. Children always exist and have larger ids than their
// parent, so the walk never lands on an unused slot and terminates.
func (t tree) eval(values []float64) float64 {
	i := 0
	for !t[i].isLeaf {
		n := t[i]
		x := values[n.feature]
		switch {
		case math.IsNaN(x):
			i = n.missing
		case x < n.cond:
			i = n.yes
		default:
			i = n.no
		}
	}
	return t[i].leaf
}

func (b *Booster) margin(values []float64) (float64, error) {
	if len(values) != b.nFeatures {
		return 0, fmt.Errorf("booster: got %d features, model expects %d", len(values), b.nFeatures)
	}
	sum := b.baseMargin
	for _, t := range b.trees {
		sum += t.eval(values)
	}
	return sum, nil
}

// Predict returns the regression value, or 1/0 for a binary classifier.
func (b *Booster) Predict(values []float64) (float64, error) {
	m, err := b.margin(values)
	if err != nil {
		return 0, err
	}
	if b.objective == ObjectiveLogistic {
		if sigmoid(m) > 0.5 {
			return 1, nil
		}
		return 0, nil
	}
	return m, nil
}

// PredictProba returns the positive-class probability.
func (b *Booster) PredictProba(values []float64) (float64, error) {
	if b.objective != ObjectiveLogistic {
		return 0, ErrNotClassifier
	}
	m, err := b.margin(values)
	if err != nil {
		return 0, err
	}
	return sigmoid(m), nil
}

func (b *Booster) Objective() Objective { return b.objective }

func (b *Booster) NumTrees() int { return len(b.trees) }

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
