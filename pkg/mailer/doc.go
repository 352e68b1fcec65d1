// Package mailer orchestrates certificate delivery: it validates the
// encoded document, renders the notification email from a markdown
// template, builds the outbound message, and drives the send with bounded
// retries.
//
// The orchestrator is the single place that decides retry versus give-up.
// Transport and validation layers below it only report typed outcomes.
// Retry policy itself is a pure decision function over (attempt number,
// error), so it is testable without a socket.
//
// Delivery is at-least-once from this package's point of view: delivering
// the same request twice sends two emails. Callers needing at-most-once
// must track sent state themselves.
package mailer
