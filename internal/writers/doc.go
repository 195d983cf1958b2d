// Package writers serializes pipeline artifacts as TSV tables.
//
// Design:
//   • Writers own all presentation knowledge (column order, round tags in
//     filenames).
//   • The matching and classification packages stay domain-only; app stays
//     orchestration-only.
package writers
