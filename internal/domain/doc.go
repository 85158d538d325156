// Package domain contains the core entities for CAN log signal resolution:
// raw frames, message and signal definitions, resolved time series,
// selection plans and cursor intervals.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on stores, decoding or I/O. Frames and definitions are treated
// as read-only after load; the resolution pipeline never mutates them.
package domain
