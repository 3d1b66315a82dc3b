package inspect

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"go.uber.org/zap"
)

const (
	agentSuffix  = "Agent"
	updateMethod = "Update"
	toolsMethod  = "GetToolSchemas"
	ctorPrefix   = "New"
)

// ModuleRecord is one agent type's statically extracted declaration: the
// accumulated metadata updates and the tool schemas its factory method
// returns, in source order.
type ModuleRecord struct {
	ClassName string
	Metadata  map[string]any
	Tools     []any
	File      string
}

// ExtractModule parses one agent source file and returns a record per
// qualifying agent type. Parse errors are logged and yield zero records;
// files are independent and the caller continues with the rest.
func ExtractModule(path string, log *zap.Logger) []ModuleRecord {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		log.Warn("error parsing agent file", zap.String("file", path), zap.Error(err))
		return nil
	}

	byName := make(map[string]*ModuleRecord)
	var order []string
	for _, name := range agentTypeNames(file) {
		byName[name] = &ModuleRecord{
			ClassName: name,
			Metadata:  map[string]any{},
			Tools:     []any{},
			File:      path,
		}
		order = append(order, name)
	}

	conv := NewConverter(log, nil, "")
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		rec, ok := byName[ownerType(fn)]
		if !ok {
			continue
		}
		collectMetadataUpdates(fn.Body, rec, conv)
		if fn.Recv != nil && fn.Name.Name == toolsMethod {
			collectToolSchemas(fn.Body, rec, conv)
		}
	}

	records := make([]ModuleRecord, 0, len(order))
	for _, name := range order {
		records = append(records, *byName[name])
	}
	return records
}

// agentTypeNames collects struct type names ending in the agent suffix,
// excluding the base type, in declaration order.
func agentTypeNames(file *ast.File) []string {
	var names []string
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, ok := ts.Type.(*ast.StructType); !ok {
				continue
			}
			name := ts.Name.Name
			if strings.HasSuffix(name, agentSuffix) && name != BaseTypeName {
				names = append(names, name)
			}
		}
	}
	return names
}

// ownerType resolves which agent type a function belongs to: the receiver's
// type for methods, the New<Type> convention for constructors.
func ownerType(fn *ast.FuncDecl) string {
	if fn.Recv != nil && len(fn.Recv.List) == 1 {
		t := fn.Recv.List[0].Type
		if star, ok := t.(*ast.StarExpr); ok {
			t = star.X
		}
		if ident, ok := t.(*ast.Ident); ok {
			return ident.Name
		}
		return ""
	}
	return strings.TrimPrefix(fn.Name.Name, ctorPrefix)
}

// collectMetadataUpdates shallow-merges every `<recv>.Metadata.Update({...})`
// call in the body into the record, in source order. Later calls' keys win.
func collectMetadataUpdates(body *ast.BlockStmt, rec *ModuleRecord, conv *Converter) {
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		outer, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || outer.Sel.Name != updateMethod {
			return true
		}
		inner, ok := outer.X.(*ast.SelectorExpr)
		if !ok || inner.Sel.Name != metadataField {
			return true
		}
		if _, ok := inner.X.(*ast.Ident); !ok {
			return true
		}
		if len(call.Args) != 1 {
			return true
		}
		lit, ok := call.Args[0].(*ast.CompositeLit)
		if !ok || !isMapLit(lit) {
			return true
		}
		for k, v := range conv.RestrictedMap(lit) {
			rec.Metadata[k] = v
		}
		return true
	})
}

// collectToolSchemas takes the first return statement whose value is a slice
// literal and extracts its mapping-literal elements as the tools list,
// preserving element order.
func collectToolSchemas(body *ast.BlockStmt, rec *ModuleRecord, conv *Converter) {
	done := false
	ast.Inspect(body, func(n ast.Node) bool {
		if done {
			return false
		}
		ret, ok := n.(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			return true
		}
		lit, ok := ret.Results[0].(*ast.CompositeLit)
		if !ok || isMapLit(lit) {
			return true
		}
		tools := make([]any, 0, len(lit.Elts))
		for _, elt := range lit.Elts {
			inner, ok := elt.(*ast.CompositeLit)
			if !ok || !isMapLit(inner) {
				continue
			}
			tools = append(tools, conv.RestrictedMap(inner))
		}
		rec.Tools = tools
		done = true
		return false
	})
}
