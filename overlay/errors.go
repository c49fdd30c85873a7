// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"errors"
	"fmt"
)

// Common errors returned by Sync operations.
var (
	// ErrClosed is returned when operations are attempted on a closed Sync.
	ErrClosed = errors.New("overlay: sync is closed")

	// ErrNilNode is reported when a factory returns neither node nor error.
	ErrNilNode = errors.New("overlay: factory returned nil node")

	// ErrPanic wraps a recovered panic from a factory or node.
	ErrPanic = errors.New("overlay: recovered panic")
)

// NodeConstructionError reports a single element whose node could not be
// built, attached or updated. It never aborts a batch.
type NodeConstructionError struct {
	ID  string
	Op  string
	Err error
}

func (e *NodeConstructionError) Error() string {
	return fmt.Sprintf("overlay: %s node %q: %v", e.Op, e.ID, e.Err)
}

func (e *NodeConstructionError) Unwrap() error { return e.Err }
