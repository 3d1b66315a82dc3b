package inspect

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"go.uber.org/zap"
)

// PlaceholderIdent is the one module-level identifier the converter can
// resolve. Agent metadata references it for model defaults; everything else
// degrades to a sentinel.
const PlaceholderIdent = "DefaultModelID"

// Converter turns a bounded subset of go/ast expressions into native Go
// values: basic literals, slice literals, string-keyed map literals, the
// resolvable placeholder identifier, and the owner's Name selector. It is
// total: unsupported constructs come back as conspicuous sentinel strings
// plus a logged warning, never as errors.
type Converter struct {
	log *zap.Logger

	// modelID substitutes for PlaceholderIdent when non-nil.
	modelID any

	// owner is the local variable whose Name selector converts to the empty
	// string; the real agent id is filled in later from the registry key.
	owner string
}

// NewConverter creates a converter. modelID may be nil (placeholder
// unresolvable) and owner may be empty (no selector resolves).
func NewConverter(log *zap.Logger, modelID any, owner string) *Converter {
	return &Converter{log: log, modelID: modelID, owner: owner}
}

// Convert maps one expression to a native value. Never returns an error.
func (c *Converter) Convert(expr ast.Expr) any {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return basicValue(e)

	case *ast.CompositeLit:
		if isMapLit(e) {
			return c.ConvertMap(e)
		}
		out := make([]any, 0, len(e.Elts))
		for _, elt := range e.Elts {
			out = append(out, c.Convert(elt))
		}
		return out

	case *ast.Ident:
		switch e.Name {
		case "true":
			return true
		case "false":
			return false
		case "nil":
			return nil
		}
		if e.Name == PlaceholderIdent && c.modelID != nil {
			return c.modelID
		}
		c.log.Warn("skipping unsupported identifier", zap.String("ident", e.Name))
		return "UNRESOLVED_IDENT_" + e.Name

	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok && c.owner != "" && x.Name == c.owner && e.Sel.Name == "Name" {
			// Placeholder for the agent's own id; overwritten downstream.
			return ""
		}
		dump := types.ExprString(e)
		c.log.Warn("skipping unsupported selector", zap.String("expr", dump))
		return "UNSUPPORTED_SELECTOR_" + dump

	default:
		c.log.Warn("skipping unsupported node type", zap.String("type", fmt.Sprintf("%T", expr)))
		return fmt.Sprintf("UNSUPPORTED_NODE_%T", expr)
	}
}

// ConvertMap maps a map composite literal to a map[string]any. Entries whose
// key is not a constant string are dropped with a warning; a partial mapping
// is acceptable.
func (c *Converter) ConvertMap(lit *ast.CompositeLit) map[string]any {
	result := make(map[string]any, len(lit.Elts))
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			c.log.Warn("skipping keyless entry in map literal", zap.String("type", fmt.Sprintf("%T", elt)))
			continue
		}
		key, ok := stringKey(kv.Key)
		if !ok {
			c.log.Warn("skipping non-constant key in map literal", zap.String("type", fmt.Sprintf("%T", kv.Key)))
			continue
		}
		result[key] = c.Convert(kv.Value)
	}
	return result
}

// RestrictedMap converts a map literal accepting only constants, slice
// literals, and nested map literals as values. Entries outside that subset
// are dropped silently; slice elements outside it degrade to nil. Used for
// metadata update calls and tool schemas, where the owner and placeholder
// contexts do not apply.
func (c *Converter) RestrictedMap(lit *ast.CompositeLit) map[string]any {
	result := make(map[string]any, len(lit.Elts))
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := stringKey(kv.Key)
		if !ok {
			continue
		}
		if v, ok := c.restrictedValue(kv.Value); ok {
			result[key] = v
		}
	}
	return result
}

func (c *Converter) restrictedValue(expr ast.Expr) (any, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return basicValue(e), true
	case *ast.Ident:
		switch e.Name {
		case "true":
			return true, true
		case "false":
			return false, true
		case "nil":
			return nil, true
		}
		return nil, false
	case *ast.CompositeLit:
		if isMapLit(e) {
			return c.RestrictedMap(e), true
		}
		out := make([]any, 0, len(e.Elts))
		for _, elt := range e.Elts {
			switch inner := elt.(type) {
			case *ast.CompositeLit:
				if isMapLit(inner) {
					out = append(out, c.RestrictedMap(inner))
				} else {
					out = append(out, nil)
				}
			case *ast.BasicLit:
				out = append(out, basicValue(inner))
			default:
				// Anything that is neither a constant nor a mapping literal
				// degrades to a nil placeholder.
				if v, ok := c.restrictedValue(elt); ok {
					out = append(out, v)
				} else {
					out = append(out, nil)
				}
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// basicValue decodes a basic literal. Unparseable literals (which the parser
// would normally reject anyway) fall back to their raw text.
func basicValue(lit *ast.BasicLit) any {
	switch lit.Kind {
	case token.STRING, token.CHAR:
		if s, err := strconv.Unquote(lit.Value); err == nil {
			return s
		}
	case token.INT:
		if n, err := strconv.Atoi(lit.Value); err == nil {
			return n
		}
	case token.FLOAT:
		if f, err := strconv.ParseFloat(lit.Value, 64); err == nil {
			return f
		}
	}
	return lit.Value
}

// stringKey extracts a constant string key from a map literal key node.
func stringKey(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok {
		return "", false
	}
	s, ok := basicValue(lit).(string)
	return s, ok
}

// isMapLit classifies a composite literal as a mapping rather than an
// ordered sequence. Untyped and named-type literals count as mappings when
// every element is key/value shaped.
func isMapLit(lit *ast.CompositeLit) bool {
	switch lit.Type.(type) {
	case *ast.MapType:
		return true
	case *ast.ArrayType:
		return false
	}
	if len(lit.Elts) == 0 {
		return lit.Type != nil
	}
	for _, elt := range lit.Elts {
		if _, ok := elt.(*ast.KeyValueExpr); !ok {
			return false
		}
	}
	return true
}
