// Package log provides a small structured logging facade.
//
// Library code logs through the Logger interface so embedders can plug in
// their own logging backend. ZerologAdapter is the default console
// implementation; NoopLogger discards everything.
package log
