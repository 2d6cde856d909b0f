// Package logger provides the logging surface used by residue. It exposes
// a small Logger interface with console and rotating file implementations,
// so library consumers can plug in their own sink while the defaults stay
// dependency free at call sites.
package logger
