package inference

import (
	"github.com/herballink/herballink-be/internal/knowledge"
)

// Sentinel labels returned when confidence is insufficient or no model is
// available.
const (
	LabelUnknownLeaf = "Unknown"
	LabelNotALeaf    = "Not a Leaf"
	LabelUnknownSkin = "unknown"
)

// Confidence gates. Leaf confidence is a percentage, skin confidence is
// fractional; the asymmetry matches the trained models' calibration.
const (
	leafMinConfidence = 10.0
	skinMinConfidence = 0.05
)

// Classifier wraps the two models behind uniform classify calls. Either
// predictor may be nil, in which case its classify call degrades to a
// sentinel result instead of failing.
type Classifier struct {
	leaf        Predictor
	skin        Predictor
	skinClasses []string
}

// NewClassifier assembles a classifier from the loaded predictors and the
// ordered skin class-name list.
func NewClassifier(leaf, skin Predictor, skinClasses []string) *Classifier {
	return &Classifier{leaf: leaf, skin: skin, skinClasses: skinClasses}
}

// ClassifyLeaf predicts the leaf species on the image at path. Confidence is
// a percentage. Below the gate the label collapses to "Not a Leaf" with the
// measured confidence kept; with no model loaded the result is always
// ("Unknown", 0).
func (c *Classifier) ClassifyLeaf(path string) (string, float64, error) {
	if c.leaf == nil {
		return LabelUnknownLeaf, 0.0, nil
	}

	pixels, err := preprocess(path)
	if err != nil {
		return "", 0, err
	}
	preds, err := c.leaf.Predict(pixels)
	if err != nil {
		return "", 0, err
	}

	idx, max := argmax(preds)
	conf := float64(max) * 100
	name := LabelUnknownLeaf
	if idx < len(knowledge.LeafClassNames) {
		name = knowledge.LeafClassNames[idx]
	}
	if conf < leafMinConfidence {
		return LabelNotALeaf, conf, nil
	}
	return name, conf, nil
}

// ClassifySkin predicts the skin condition on the image at path. Confidence
// is fractional. Below the gate, or with no model or class list loaded, the
// result is ("unknown", 0).
func (c *Classifier) ClassifySkin(path string) (string, float64, error) {
	if c.skin == nil || len(c.skinClasses) == 0 {
		return LabelUnknownSkin, 0.0, nil
	}

	pixels, err := preprocess(path)
	if err != nil {
		return "", 0, err
	}
	preds, err := c.skin.Predict(pixels)
	if err != nil {
		return "", 0, err
	}

	idx, max := argmax(preds)
	conf := float64(max)
	if conf < skinMinConfidence {
		return LabelUnknownSkin, 0.0, nil
	}
	if idx >= len(c.skinClasses) {
		return LabelUnknownSkin, conf, nil
	}
	return c.skinClasses[idx], conf, nil
}

// Close releases any loaded models.
func (c *Classifier) Close() {
	if c.leaf != nil {
		c.leaf.Close()
	}
	if c.skin != nil {
		c.skin.Close()
	}
}

func argmax(v []float32) (int, float32) {
	best, bestVal := 0, float32(0)
	for i, p := range v {
		if i == 0 || p > bestVal {
			best, bestVal = i, p
		}
	}
	return best, bestVal
}
