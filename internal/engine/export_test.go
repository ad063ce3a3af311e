package engine

// Internals exposed for black-box tests.

var ParseDuration = parseDuration
