// Package audit provides persistent decision logging for rule evaluations.
//
// Every evaluation performed by the policy engine can be captured as a
// DecisionRecord: which rule ran, against what context, what the outcome
// was, and how long it took. Records flow through an asynchronous Recorder
// into a Storage backend, so recording never sits on the evaluation path.
//
// Two backends are provided: MemoryStorage for tests and ephemeral
// deployments, and SQLiteStorage for durable logs (WAL mode, prepared
// statements). The Pruner enforces retention limits by age and by record
// count, either on demand or on a cron schedule.
//
// Typical wiring:
//
//	storage, err := audit.NewSQLiteStorage(nil)
//	if err != nil {
//		return err
//	}
//	recorder := audit.NewRecorder(storage, nil)
//	defer recorder.Close()
//
//	decision, err := eng.Evaluate(ctx, "can_edit", input)
//	if err == nil {
//		recorder.Record(audit.FromDecision(decision))
//	}
package audit
