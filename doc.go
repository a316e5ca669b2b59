// Package approvals pauses an automated agent at a sensitive step,
// durably records a request for human sign-off and later resolves it with
// an outcome: approved, rejected or expired.
//
// The core is the lifecycle engine (service/engine): idempotent creation
// keyed by a caller-supplied idempotency key, decision application guarded
// by optimistic conditional writes, and a timeout sweeper
// (service/sweeper) that forces expiry of overdue requests. Storage
// backends implement the four-operation contract in service/store;
// lifecycle notifications fan out through service/notifier sinks.
//
// Runtime wires the pieces together:
//
//	runtime, err := approvals.New()
//	if err != nil { ... }
//	runtime.Start(ctx)
//	defer runtime.Shutdown()
//
//	record, err := runtime.Engine().Create(ctx, &engine.CreateInput{
//		IdempotencyKey: "deploy-42",
//		Action:         "deploy to production",
//		RequestedBy:    "release-agent",
//		Timeout:        30 * time.Minute,
//	})
package approvals
