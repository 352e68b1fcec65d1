// Package queue provides an in-memory background job queue with a single
// worker. Enqueue acknowledges immediately; jobs run strictly in
// submission order, one at a time, with an optional delay between jobs.
//
// The queue holds no durable state: jobs still buffered at shutdown are
// lost. That trade-off keeps the accepted/attempted boundary explicit —
// callers get a job ID at enqueue time and outcomes appear in the logs.
package queue
