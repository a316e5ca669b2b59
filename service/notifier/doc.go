// Package notifier defines the lifecycle-event dispatch contract and the
// built-in sinks: a log line, an in-process queue for programmatic
// consumers, and an HTTP webhook. Sinks compose via Multi fan-out.
package notifier
