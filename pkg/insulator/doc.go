// Package insulator provides byte buffers that compare, order, and hash
// case-insensitively while preserving the exact bytes that were stored.
//
// The package is built around two pieces:
//
//   - A case-fold engine (Fold, Compare, Equal, Hash) that defines a single
//     equivalence relation over byte sequences: ASCII uppercase letters fold
//     to lowercase, every other byte folds to itself. All three of equality,
//     ordering, and hashing consult the same fold, so insulator values are
//     safe to use as keys in hash-based containers.
//   - A Buf value type that owns its bytes, stores short content in a
//     fixed-size inline array (no heap allocation, reinterpretable as a raw
//     block) and transparently switches to heap storage when content grows
//     past the inline capacity.
//
// Folding is deliberately ASCII-only. Bytes outside the ASCII range are
// equal only to themselves, so two buffers that differ in multi-byte UTF-8
// case variants (for example "Å" vs "å") are NOT equal. This is a documented
// limitation, chosen so that equality, ordering, and hashing stay total,
// predictable, and allocation-free. Use AppendLower/AppendUpper for
// UTF-8-aware case rendering when display output needs it.
//
// Example:
//
//	a := insulator.NewString("Content-Type")
//	b := insulator.NewString("CONTENT-TYPE")
//	a.Equal(&b)               // true
//	a.Hash() == b.Hash()      // true
//	string(a.Bytes())         // "Content-Type" (original case retained)
package insulator
