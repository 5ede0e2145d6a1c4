// Package lineage infers column-level derivation chains from SQL
// statements.
//
// Given an INSERT INTO ... SELECT statement, Chains returns one chain
// per derivation path: an ordered sequence of qualified column
// identifiers from the target column down through intermediate CTE
// columns to the physical source columns. Tables without an explicit
// schema qualifier are marked with the <default> schema so downstream
// consumers can normalize them uniformly.
package lineage
