// Package eval evaluates compiled MRL expression trees against runtime
// contexts.
//
// Evaluation is a stateless recursive walk over the immutable tree: no
// I/O, no errors, no mutation of the context. Comparison semantics follow
// the language definition:
//
//   - numeric comparison when both the field value and the literal are
//     interpretable as finite numbers
//   - otherwise lower-cased string comparison, where only = and != are
//     meaningful and ordering operators are always false
//   - IN set membership is case-insensitive and false for absent fields
//
// Because trees are immutable and contexts are read-only during a call, a
// single parsed rule can be evaluated concurrently from many goroutines.
package eval
