/*
Package middleware provides ready-made interceptors for a flume store:
structured logging of every dispatch and Prometheus instrumentation.

Both are ordinary flume.Middleware implementations; register them with
Store.Add in the order they should run.
*/
package middleware
