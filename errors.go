package flume

import "errors"

// ErrStoreClosed is returned when dispatching, subscribing, or watching
// after Close. It is also what an in-flight async dispatch reports through
// the async error handler when its reduction resolves after Close.
var ErrStoreClosed = errors.New("store closed")

// ErrSubjectClosed is returned by Subject operations after Close.
var ErrSubjectClosed = errors.New("subject closed")
