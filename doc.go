// Package spacegen is a spatial coordinate and level-of-detail engine for
// large, semantically structured 2D scenes.
//
// # Overview
//
// An Engine holds a set of positioned elements and one ViewState. Each call
// to Frame runs a fixed pipeline:
//
//	visible world rect → semantic tier → collapse → cull → overlay sync → draw surface → metrics
//
// The renderable set of a frame is always cull(collapse(elements, tier), view):
// collapse runs first so summaries standing in for out-of-range elements are
// culled like any other element.
//
// # Quick Start
//
//	levels, _ := tier.ParseTable("0.1:quantum,0.5:atomic,2:standard,inf:system")
//	eng, err := spacegen.New(
//	    spacegen.WithSemanticLevels(levels),
//	    spacegen.WithOverlay(region, factory),
//	)
//	if err != nil {
//	    return err // *spacegen.ConfigurationError
//	}
//	defer eng.Close()
//
//	eng.AddElements(elements...)
//	eng.Pan(100, 50)
//	eng.Zoom(2)
//	m := eng.Frame()
//
// # Coordinate System
//
// World space is zoom independent. Screen space is container pixels:
//
//	screen = (world - view.XY) * view.Zoom + container/2
//
// The mapping package converts between an external design space and world
// space; its configuration is owned by the Engine and changed only through
// SetMapping.
//
// # Concurrency
//
// The Engine is single threaded and frame driven. It starts no goroutines and
// takes no locks; hosts that call it from several goroutines serialize access.
package spacegen
