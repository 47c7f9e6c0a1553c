// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing console output to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing and configuration utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Both CLIs accept a context and extract the logger from it, enabling
// scoped, structured logging throughout the codebase.
package logger
