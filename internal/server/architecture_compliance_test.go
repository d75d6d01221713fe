package server

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"testing"
)

// serverMethod is what one *Server method touches: dependency fields it calls
// into (s.records.X) and sibling methods it calls (s.helper).
type serverMethod struct {
	fields  map[string]bool
	helpers []string
}

func TestHandlersRespectDependencyBoundaries(t *testing.T) {
	// Every HandleFunc route must be listed so new routes get an explicit decision.
	tests := map[string]struct {
		require []string
		forbid  []string
	}{
		"GET /health":                 {require: []string{"store"}, forbid: []string{"blobs", "records"}},
		"GET /{$}":                    {forbid: []string{"store", "blobs"}},
		"GET /visualization":          {forbid: []string{"store", "blobs"}},
		"GET /ingestion":              {require: []string{"records"}, forbid: []string{"store", "blobs"}},
		"POST /ingestion":             {require: []string{"records"}, forbid: []string{"store", "blobs"}},
		"GET /otolith":                {require: []string{"records"}, forbid: []string{"store", "blobs"}},
		"POST /otolith":               {require: []string{"records"}, forbid: []string{"store", "blobs"}},
		"GET /edna":                   {require: []string{"records"}, forbid: []string{"store", "blobs"}},
		"POST /edna":                  {require: []string{"records"}, forbid: []string{"store", "blobs"}},
		"GET /api/visualization_data": {require: []string{"stats"}, forbid: []string{"store", "blobs", "records"}},
		"GET /api/records/{kind}":     {require: []string{"records"}, forbid: []string{"store", "blobs"}},
		"GET /static/uploads/{name}":  {require: []string{"blobs"}, forbid: []string{"store", "records"}},
	}

	routes := parseRouteHandlers(t)
	methods := parseServerMethods(t)

	for pattern := range routes {
		if _, ok := tests[pattern]; !ok {
			t.Errorf("route %q has no boundary expectation", pattern)
		}
	}

	for pattern, tt := range tests {
		t.Run(pattern, func(t *testing.T) {
			handler, ok := routes[pattern]
			if !ok {
				t.Fatalf("route %q is not registered", pattern)
			}
			if _, ok := methods[handler]; !ok {
				t.Fatalf("handler %q not found", handler)
			}
			reached := reachableFields(methods, handler)
			for _, field := range tt.require {
				if !reached[field] {
					t.Errorf("%s (%s) never calls s.%s", pattern, handler, field)
				}
			}
			for _, field := range tt.forbid {
				if reached[field] {
					t.Errorf("%s (%s) reaches s.%s directly", pattern, handler, field)
				}
			}
		})
	}
}

// reachableFields follows helper calls from start and unions the fields touched.
func reachableFields(methods map[string]serverMethod, start string) map[string]bool {
	out := map[string]bool{}
	seen := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		m, ok := methods[name]
		if !ok {
			continue
		}
		for field := range m.fields {
			out[field] = true
		}
		queue = append(queue, m.helpers...)
	}
	return out
}

func parseRouteHandlers(t *testing.T) map[string]string {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filepath.Join(serverPackageDir(t), "routes.go"), nil, 0)
	if err != nil {
		t.Fatalf("parse routes.go: %v", err)
	}

	routes := map[string]string{}
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) != 2 {
			return true
		}
		if sel, ok := call.Fun.(*ast.SelectorExpr); !ok || sel.Sel.Name != "HandleFunc" {
			return true
		}
		lit, ok := call.Args[0].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}
		pattern, err := strconv.Unquote(lit.Value)
		if err != nil {
			t.Fatalf("unquote route pattern %s: %v", lit.Value, err)
		}
		if handler, ok := serverSelector(call.Args[1]); ok {
			routes[pattern] = handler
		}
		return true
	})
	return routes
}

func parseServerMethods(t *testing.T) map[string]serverMethod {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(serverPackageDir(t), "*.go"))
	if err != nil {
		t.Fatalf("glob package files: %v", err)
	}

	out := map[string]serverMethod{}
	fset := token.NewFileSet()
	for _, path := range files {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil || !isServerReceiver(fn.Recv) {
				continue
			}
			out[fn.Name.Name] = inspectServerMethod(fn)
		}
	}
	if len(out) == 0 {
		t.Fatal("no *Server methods found")
	}
	return out
}

func inspectServerMethod(fn *ast.FuncDecl) serverMethod {
	m := serverMethod{fields: map[string]bool{}}
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		// s.helper(...)
		if name, ok := serverSelector(sel); ok {
			m.helpers = append(m.helpers, name)
			return true
		}
		// s.field.Method(...)
		if field, ok := serverSelector(sel.X); ok {
			m.fields[field] = true
		}
		return true
	})
	slices.Sort(m.helpers)
	m.helpers = slices.Compact(m.helpers)
	return m
}

// serverSelector matches `s.name` and returns name.
func serverSelector(expr ast.Expr) (string, bool) {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	recv, ok := sel.X.(*ast.Ident)
	if !ok || recv.Name != "s" {
		return "", false
	}
	return sel.Sel.Name, true
}

func isServerReceiver(recv *ast.FieldList) bool {
	if recv == nil || len(recv.List) != 1 {
		return false
	}
	star, ok := recv.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	ident, ok := star.X.(*ast.Ident)
	return ok && ident.Name == "Server"
}

func serverPackageDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Dir(file)
}
