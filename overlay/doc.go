// Copyright 2026 The spacegen Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package overlay keeps a set of interactive nodes positioned over a separate
// draw surface, in the same world space, frame by frame.
//
// Sync owns every node between attach and detach. Each element with an
// interactive payload gets exactly one node; positioning is a single
// combined translate+scale matrix per node, written only when it changes.
// Nodes outside the viewport are hidden, not destroyed, so re-entering the
// viewport costs one transform write.
//
// Node lifecycle:
//
//	Detached --AddElements--> Attached{Hidden}
//	Attached{Visible|Hidden} --UpdateTransform--> Attached{Visible|Hidden}
//	Attached{*} --RemoveElements/Close--> Detached (destroyed)
//
// A payload that fails to build (error or panic) skips that element only.
// Sync is not safe for concurrent use.
package overlay
