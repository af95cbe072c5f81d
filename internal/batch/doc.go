// Package batch applies one operation to every buildable unit with bounded
// concurrency. Units are independent: a failing unit is recorded and its
// siblings keep running.
package batch
