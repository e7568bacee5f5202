// Package engine evaluates named MRL rules loaded from a ruleset source.
//
// The engine sits one level above the pure mrl packages: it owns a
// compiled RuleSet (loaded from YAML or memory), answers Evaluate calls
// by name, and supports atomic hot reload. Every evaluation produces a
// Decision with a unique ID suitable for audit logging and metrics.
//
// # Basic Usage
//
//	src := source.NewFileSource("rules.yaml")
//	eng, err := engine.NewInterpreterEngine(ctx, src, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	decision, err := eng.Evaluate(ctx, "can-view-reports", eval.Context{
//	    "role": "user", "dept": "finance", "resource": "reports",
//	})
//
// # Hot Reload
//
// A Watcher can drive Reload from file change events:
//
//	w, _ := engine.NewWatcher("rules.yaml", 0, logger)
//	go w.Watch(ctx, func() error { return eng.Reload(ctx) })
//
// A failed reload keeps the previous ruleset active, so a broken edit
// never takes down evaluation.
package engine
