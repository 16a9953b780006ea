// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage mechanism from the
// scheduling and session logic, so the engines stay independent of the
// local database technology.
package store
