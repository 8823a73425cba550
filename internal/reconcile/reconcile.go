// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

// Package reconcile implements the positional merge applied to a recipe's
// nested child collections (ingredients, cook stages, tags) on edit.
//
// An edit supplies a new ordered list of child payloads. The merge walks the
// existing rows and the incoming payloads in lockstep by position: matched
// positions are overwritten in place, surplus payloads become new rows until
// the collection cap is exhausted, surplus existing rows are deleted. The
// cap counter decrements on every position consumed, so payloads beyond the
// cap are dropped without error.
//
// Matching is positional, not id-keyed, and there is no transactional
// atomicity: each row mutation is applied independently and a failure does
// not roll back mutations already applied.
package reconcile

import "context"

// Ops supplies the row mutations for one child kind. The walk itself never
// touches storage directly, which keeps the merge pure and unit-testable;
// internal/database binds these to pgx statements per child kind.
type Ops[E, P any] struct {
	// Update overwrites an existing row's fields with a payload's fields,
	// keeping the row's identity.
	Update func(ctx context.Context, existing E, payload P) error

	// Create inserts a new row from a payload, attached to the parent.
	Create func(ctx context.Context, payload P) error

	// Delete removes an existing row.
	Delete func(ctx context.Context, existing E) error

	// DeleteAll removes every existing row for the parent. Invoked only for
	// a present-but-empty incoming list.
	DeleteAll func(ctx context.Context) error
}

// Merge applies incoming payloads against existing rows for one child kind.
//
// incoming == nil means "no change requested": existing rows are untouched.
// An empty non-nil incoming list removes all existing rows. Otherwise the
// positional walk described in the package comment runs with max as the
// remaining-capacity counter.
//
// The first mutation error stops the walk and is returned; mutations already
// applied stay applied.
func Merge[E, P any](ctx context.Context, existing []E, incoming []P, max int, ops Ops[E, P]) error {
	if incoming == nil {
		return nil
	}
	if len(incoming) == 0 {
		return ops.DeleteAll(ctx)
	}

	i := 0
	for ; max > 0; i, max = i+1, max-1 {
		switch {
		case i < len(existing) && i < len(incoming):
			if err := ops.Update(ctx, existing[i], incoming[i]); err != nil {
				return err
			}
		case i < len(incoming):
			if err := ops.Create(ctx, incoming[i]); err != nil {
				return err
			}
		case i < len(existing):
			// Incoming exhausted: the rest of the existing rows go, without
			// consuming capacity.
			return deleteTail(ctx, existing[i:], ops)
		default:
			return nil
		}
	}

	// Cap exhausted. Excess payloads are silently dropped, but existing rows
	// beyond the last consumed position are still removed.
	if i < len(existing) && i >= len(incoming) {
		return deleteTail(ctx, existing[i:], ops)
	}
	return nil
}

// deleteTail removes the given existing rows one by one.
func deleteTail[E, P any](ctx context.Context, tail []E, ops Ops[E, P]) error {
	for _, e := range tail {
		if err := ops.Delete(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
