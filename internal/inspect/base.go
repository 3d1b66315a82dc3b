package inspect

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"go.uber.org/zap"
)

const (
	// BaseTypeName is the shared base struct every agent embeds. It never
	// appears in the registry itself.
	BaseTypeName = "MeshAgent"

	baseCtorName  = "NewMeshAgent"
	metadataField = "Metadata"
)

// Template is the default metadata mapping shared by every agent, extracted
// once from the base file. Callers must clone it before mutating.
type Template map[string]any

// ErrTemplateMissing reports that the base file lacks the qualifying
// Metadata assignment. No agent output is meaningful without the template,
// so callers treat this as fatal.
var ErrTemplateMissing = errors.New("base metadata template not found")

// ExtractBaseTemplate parses the base agent file and pulls the default
// metadata mapping out of the constructor without importing the package.
//
// Two passes: the first resolves the model-id placeholder constant at the
// top level, the second finds the constructor's Metadata assignment and
// converts its mapping literal.
func ExtractBaseTemplate(path string, log *zap.Logger) (Template, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateMissing, path, err)
	}

	modelID := findPlaceholderConst(file, log)

	template := findBaseMetadata(file, modelID, log)
	if template == nil {
		return nil, fmt.Errorf("%w: no %s = {...} assignment in %s", ErrTemplateMissing, metadataField, path)
	}
	return template, nil
}

// findPlaceholderConst scans top-level declarations for the first basic
// literal bound to PlaceholderIdent. A non-literal initializer is tolerated:
// the template proceeds without a resolvable placeholder.
func findPlaceholderConst(file *ast.File, log *zap.Logger) any {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || (gen.Tok != token.CONST && gen.Tok != token.VAR) {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok || len(vs.Names) != 1 || vs.Names[0].Name != PlaceholderIdent {
				continue
			}
			if len(vs.Values) == 1 {
				if lit, ok := vs.Values[0].(*ast.BasicLit); ok {
					return basicValue(lit)
				}
			}
			log.Warn("placeholder constant is not a basic literal",
				zap.String("ident", PlaceholderIdent))
			return nil
		}
	}
	return nil
}

// findBaseMetadata locates the base constructor and converts the first
// top-level `<owner>.Metadata = {...}` assignment in its body.
func findBaseMetadata(file *ast.File, modelID any, log *zap.Logger) Template {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != baseCtorName || fn.Body == nil {
			continue
		}
		for _, stmt := range fn.Body.List {
			assign, ok := stmt.(*ast.AssignStmt)
			if !ok || len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
				continue
			}
			sel, ok := assign.Lhs[0].(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != metadataField {
				continue
			}
			owner, ok := sel.X.(*ast.Ident)
			if !ok {
				continue
			}
			lit, ok := assign.Rhs[0].(*ast.CompositeLit)
			if !ok || !isMapLit(lit) {
				continue
			}
			conv := NewConverter(log, modelID, owner.Name)
			return Template(conv.ConvertMap(lit))
		}
	}
	return nil
}
