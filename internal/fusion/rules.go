package fusion

import (
	"embed"
	"fmt"
	"math"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/agrisense/backend/internal/crops"
	"github.com/agrisense/backend/internal/domain"
)

//go:embed definitions/*.yaml
var definitionFS embed.FS

// Category identifies one of the three rule sets
type Category string

const (
	CategoryPest       Category = "pest"
	CategoryIrrigation Category = "irrigation"
	CategoryMarket     Category = "market"
)

// Categories lists the rule categories in evaluation order
var Categories = []Category{CategoryPest, CategoryIrrigation, CategoryMarket}

// Operator is the closed comparison set for rule conditions
type Operator string

const (
	OpGT     Operator = ">"
	OpLT     Operator = "<"
	OpGTE    Operator = ">="
	OpLTE    Operator = "<="
	OpEQ     Operator = "=="
	OpNEQ    Operator = "!="
	OpAbsGTE Operator = "abs_gte" // |feature| >= threshold, for signed deltas
)

// compare applies the operator to a feature value and threshold.
// Operators outside the closed set never match.
func (op Operator) compare(v, threshold float64) bool {
	switch op {
	case OpGT:
		return v > threshold
	case OpLT:
		return v < threshold
	case OpGTE:
		return v >= threshold
	case OpLTE:
		return v <= threshold
	case OpEQ:
		return v == threshold
	case OpNEQ:
		return v != threshold
	case OpAbsGTE:
		return math.Abs(v) >= threshold
	default:
		return false
	}
}

// conditionKind tags the compiled evaluation strategy for a condition
type conditionKind int

const (
	condInvalid conditionKind = iota // malformed definition, always false
	condNumeric                      // numeric comparison against a literal
	condMetaRef                      // numeric comparison against a crop metadata threshold
	condCategorical                  // exact string equality on a derived feature
)

// condition is one compiled rule condition
type condition struct {
	feature   string
	op        Operator
	kind      conditionKind
	threshold float64 // condNumeric
	metaKey   string  // condMetaRef
	expect    string  // condCategorical
}

// evaluate reports whether the condition holds for the context. Any
// missing feature, unresolved metadata key or malformed definition
// fails the condition (fail-safe, not fail-open).
func (c condition) evaluate(ctx *FeatureContext, meta crops.Metadata) bool {
	switch c.kind {
	case condCategorical:
		val, ok := ctx.Categorical(c.feature)
		if !ok {
			return false
		}
		if c.op == OpNEQ {
			return val != c.expect
		}
		return val == c.expect
	case condMetaRef:
		threshold, ok := meta.Threshold(c.metaKey)
		if !ok {
			return false
		}
		val, ok := ctx.Numeric(c.feature)
		if !ok {
			return false
		}
		return c.op.compare(val, threshold)
	case condNumeric:
		val, ok := ctx.Numeric(c.feature)
		if !ok {
			return false
		}
		return c.op.compare(val, c.threshold)
	default:
		return false
	}
}

// Rule is one compiled declarative rule. It fires only when every
// condition evaluates true, in definition order, short-circuiting on
// the first failure.
type Rule struct {
	Name        string
	Description string
	Score       float64
	conditions  []condition
}

// raw definition shapes as they appear in the YAML files
type conditionDef struct {
	Feature string      `yaml:"feature"`
	Op      string      `yaml:"op"`
	Value   interface{} `yaml:"value"`
	Meta    string      `yaml:"meta"`
}

type ruleDef struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Score       float64        `yaml:"score"`
	Conditions  []conditionDef `yaml:"conditions"`
}

var validOperators = map[Operator]bool{
	OpGT: true, OpLT: true, OpGTE: true, OpLTE: true,
	OpEQ: true, OpNEQ: true, OpAbsGTE: true,
}

// compileCondition turns a raw definition into a tagged condition.
// Anything it cannot make sense of compiles to condInvalid, which
// evaluates false without aborting the rest of the rule set.
func compileCondition(def conditionDef) condition {
	c := condition{feature: def.Feature, op: Operator(def.Op), kind: condInvalid}
	if def.Feature == "" || !validOperators[c.op] {
		return c
	}

	if def.Meta != "" {
		c.kind = condMetaRef
		c.metaKey = def.Meta
		return c
	}

	switch v := def.Value.(type) {
	case int:
		c.kind = condNumeric
		c.threshold = float64(v)
	case float64:
		c.kind = condNumeric
		c.threshold = v
	case string:
		// String expectations only make sense for exact (in)equality
		if c.op == OpEQ || c.op == OpNEQ {
			c.kind = condCategorical
			c.expect = v
		}
	}
	return c
}

func compileRules(defs []ruleDef) []Rule {
	rules := make([]Rule, 0, len(defs))
	for _, def := range defs {
		rule := Rule{
			Name:        def.Name,
			Description: def.Description,
			Score:       def.Score,
			conditions:  make([]condition, 0, len(def.Conditions)),
		}
		for _, cd := range def.Conditions {
			rule.conditions = append(rule.conditions, compileCondition(cd))
		}
		rules = append(rules, rule)
	}
	return rules
}

// Engine evaluates the declarative rule sets. The per-category cache
// is populated lazily from the embedded definitions and never mutated
// afterwards, so it is safe for concurrent readers.
type Engine struct {
	mu    sync.Mutex
	cache map[Category][]Rule
}

// NewEngine creates a rule engine with an empty definition cache
func NewEngine() *Engine {
	return &Engine{cache: make(map[Category][]Rule)}
}

// Rules returns the compiled rule set for a category, loading it on
// first access. A missing definition file yields an empty set.
func (e *Engine) Rules(category Category) ([]Rule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rules, ok := e.cache[category]; ok {
		return rules, nil
	}

	raw, err := definitionFS.ReadFile(fmt.Sprintf("definitions/%s.yaml", category))
	if err != nil {
		e.cache[category] = nil
		return nil, nil
	}

	var defs []ruleDef
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("fusion: failed to parse %s rules: %w", category, err)
	}

	rules := compileRules(defs)
	e.cache[category] = rules
	return rules, nil
}

// Evaluate runs every rule of a category against the context in
// definition order. The score is the maximum among fired rules, 0.0
// when nothing fired.
func (e *Engine) Evaluate(category Category, ctx *FeatureContext, meta crops.Metadata) (domain.CategoryResult, error) {
	rules, err := e.Rules(category)
	if err != nil {
		return domain.CategoryResult{Fired: []string{}}, err
	}

	result := domain.CategoryResult{Fired: []string{}}
	for _, rule := range rules {
		fired := true
		for _, cond := range rule.conditions {
			if !cond.evaluate(ctx, meta) {
				fired = false
				break
			}
		}
		if fired {
			result.Fired = append(result.Fired, rule.Description)
			if rule.Score > result.Score {
				result.Score = rule.Score
			}
		}
	}
	return result, nil
}
