package model

// FactType is the kind of literal claim pulled out of text.
type FactType string

const (
	FactDate     FactType = "date"
	FactQuantity FactType = "quantity"
	FactName     FactType = "name"
	FactBoolean  FactType = "boolean"
)

// Fact is a typed claim with the text surrounding it. Facts live only for the
// duration of one comparison.
type Fact struct {
	Type    FactType `json:"type"`
	Value   string   `json:"value"`
	Context string   `json:"context"`
}
