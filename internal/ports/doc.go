// Package ports defines the collaborator contracts the resolution pipeline
// consumes: a LogStore yielding raw frames and a DefinitionStore yielding
// message and signal definitions.
//
// Implementations live under internal/adapters. Callers embedding the
// library can supply their own stores (for example one backed by a BLF
// reader) without touching the pipeline.
package ports
