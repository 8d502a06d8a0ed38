package flume

// Version is the library version, overridden at release time.
var Version = "0.1.0"
