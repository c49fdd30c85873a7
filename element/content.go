package element

import "fmt"

// Content is the typed payload of an element. The set of implementations is
// closed: one concrete type per Kind, all declared in this file.
type Content interface {
	Kind() Kind
	// Caption is a short label for draw surfaces. It may be empty.
	Caption() string
	sealed()
}

// FrameContent describes a top-level frame or artboard.
type FrameContent struct {
	Title string `json:"title,omitempty"`
}

// GroupContent describes a logical grouping of children.
type GroupContent struct {
	Name string `json:"name,omitempty"`
}

// TextContent carries a text run.
type TextContent struct {
	Text string `json:"text"`
}

// ShapeContent names a primitive shape ("rect", "ellipse", ...).
type ShapeContent struct {
	Shape string `json:"shape,omitempty"`
}

// ImageContent references an image asset.
type ImageContent struct {
	Ref string `json:"ref"`
}

// ComponentContent references a reusable component instance.
type ComponentContent struct {
	Name    string `json:"name"`
	Variant string `json:"variant,omitempty"`
}

// SummaryContent is the placeholder shown for a collapsed group.
type SummaryContent struct {
	Label string `json:"label,omitempty"`
	Count int    `json:"count,omitempty"`
}

func (FrameContent) Kind() Kind     { return KindFrame }
func (GroupContent) Kind() Kind     { return KindGroup }
func (TextContent) Kind() Kind      { return KindText }
func (ShapeContent) Kind() Kind     { return KindShape }
func (ImageContent) Kind() Kind     { return KindImage }
func (ComponentContent) Kind() Kind { return KindComponent }
func (SummaryContent) Kind() Kind   { return KindSummary }

func (c FrameContent) Caption() string { return c.Title }
func (c GroupContent) Caption() string { return c.Name }
func (c TextContent) Caption() string  { return c.Text }
func (c ShapeContent) Caption() string { return c.Shape }
func (c ImageContent) Caption() string { return c.Ref }
func (c ComponentContent) Caption() string {
	if c.Variant == "" {
		return c.Name
	}
	return c.Name + "/" + c.Variant
}

func (c SummaryContent) Caption() string {
	if c.Count > 0 {
		return fmt.Sprintf("%s (%d)", c.Label, c.Count)
	}
	return c.Label
}

func (FrameContent) sealed()     {}
func (GroupContent) sealed()     {}
func (TextContent) sealed()      {}
func (ShapeContent) sealed()     {}
func (ImageContent) sealed()     {}
func (ComponentContent) sealed() {}
func (SummaryContent) sealed()   {}

// NewContent returns the zero Content for k, or nil for an invalid kind.
func NewContent(k Kind) Content {
	switch k {
	case KindFrame:
		return &FrameContent{}
	case KindGroup:
		return &GroupContent{}
	case KindText:
		return &TextContent{}
	case KindShape:
		return &ShapeContent{}
	case KindImage:
		return &ImageContent{}
	case KindComponent:
		return &ComponentContent{}
	case KindSummary:
		return &SummaryContent{}
	}
	return nil
}
