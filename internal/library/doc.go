// Package library implements the borrow/return workflow: the rules that move a
// loan record from active to returned and keep book inventory consistent with
// the set of active loans.
//
// Business rejections (not enough copies, loan cap reached, duplicate hold,
// already returned) are reported as values inside a Result. Storage faults are
// returned as errors: *StorageError for a failed first write and
// *InconsistencyError when the loan write committed but the inventory
// adjustment did not.
//
// The workflow reads and then writes without holding locks. Under concurrent
// requests the store must enforce quantity >= 0 and at most one active loan
// per (book, reader); the checks here are the fast path.
package library
