// Package types defines the Store and Table interfaces, record schemas,
// entity types, and standard errors shared by the flat-file and relational
// backends.
package types
