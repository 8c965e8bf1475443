package invariant

import (
	"encoding/json"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/sentinelcore/core/pkg/state"
)

// celEnv is a package-level, immutable-after-init CEL environment exposing
// "before" and "after" as dynamic maps derived from a Snapshot's canonical
// JSON shape. It is built once and shared by every compiled expression
// rather than rebuilt per expression.
var celEnv = func() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("before", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("after", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic("invariant: building CEL environment: " + err.Error())
	}
	return env
}()

// CompileCELPredicate compiles expr, a CEL boolean expression over the
// "before" and "after" state variables, into a Predicate. Custom invariants
// use this as their extension point instead of hand-written Go.
func CompileCELPredicate(expr string) (Predicate, error) {
	ast, issues := celEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invariant: compile CEL expression %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("invariant: CEL expression %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prg, err := celEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("invariant: build CEL program for %q: %w", expr, err)
	}

	return func(before, after state.Snapshot) bool {
		beforeMap, err := snapshotToMap(before)
		if err != nil {
			return false
		}
		afterMap, err := snapshotToMap(after)
		if err != nil {
			return false
		}
		out, _, err := prg.Eval(map[string]interface{}{
			"before": beforeMap,
			"after":  afterMap,
		})
		if err != nil {
			return false
		}
		result, ok := out.Value().(bool)
		return ok && result
	}, nil
}

// snapshotToMap renders a Snapshot into the generic map[string]interface{}
// shape CEL programs index into, by round-tripping through the same
// canonical JSON encoding the ledger hashes.
func snapshotToMap(s state.Snapshot) (map[string]interface{}, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("invariant: marshal snapshot for CEL evaluation: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("invariant: unmarshal snapshot for CEL evaluation: %w", err)
	}
	return m, nil
}
