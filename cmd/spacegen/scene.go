package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/kmadk/spacegen/element"
	"github.com/kmadk/spacegen/geom"
	"github.com/kmadk/spacegen/tier"
)

// sceneNamespace roots the deterministic element ids of synthetic scenes.
var sceneNamespace = uuid.MustParse("5f0c6a57-3c1e-4d0a-9a43-6c1b2f7de001")

func sceneID(parts ...any) string {
	return uuid.NewSHA1(sceneNamespace, []byte(fmt.Sprint(parts...))).String()
}

// buildScene lays out groups of cards on a ring. Cards render individually
// from the middle tier up and collapse into their group summary below it.
// Frames mark each group and are always visible.
func buildScene(tiers []tier.Tier, groups, perGroup int, seed uint64) []*element.Element {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var detail, overview *element.VisibilityRange
	detailTiers := tiers
	if len(tiers) >= 2 {
		mid := len(tiers) / 2
		detail = element.TierRange(tiers[mid].Name, "")
		overview = element.TierRange("", tiers[mid-1].Name)
		detailTiers = tiers[mid:]
	}

	const (
		radius   = 600.0
		card     = 24.0
		gap      = 8.0
		perRow   = 4
		framePad = 16.0
	)

	els := make([]*element.Element, 0, groups*(perGroup+2))
	for g := range groups {
		angle := 2 * math.Pi * float64(g) / float64(max(groups, 1))
		center := geom.Pt(radius*math.Cos(angle), radius*math.Sin(angle))

		rows := (perGroup + perRow - 1) / perRow
		size := geom.Size{
			Width:  perRow*(card+gap) - gap + 2*framePad,
			Height: float64(rows)*(card+gap) - gap + 2*framePad,
		}
		origin := center.Sub(geom.Pt(size.Width/2, size.Height/2))
		summaryID := sceneID("summary", g)

		els = append(els, &element.Element{
			ID:       sceneID("frame", g),
			Kind:     element.KindFrame,
			Position: origin,
			Bounds:   size,
			Content:  element.FrameContent{Title: fmt.Sprintf("Group %d", g+1)},
		})
		for c := range perGroup {
			jitter := geom.Pt(rng.Float64()*2-1, rng.Float64()*2-1)
			pos := origin.Add(geom.Pt(
				framePad+float64(c%perRow)*(card+gap),
				framePad+float64(c/perRow)*(card+gap),
			)).Add(jitter)

			el := &element.Element{
				ID:             sceneID("card", g, c),
				Kind:           element.KindComponent,
				Position:       pos,
				Bounds:         geom.Size{Width: card, Height: card},
				Visibility:     detail,
				CollapseTarget: summaryID,
				Content:        element.ComponentContent{Name: "Card", Variant: fmt.Sprint(c + 1)},
				SemanticData:   cardSemantics(detailTiers, g, c),
			}
			if c%4 == 0 {
				el.Interactive = &element.Payload{Role: "button", Label: fmt.Sprintf("Open card %d.%d", g+1, c+1)}
			}
			els = append(els, el)
		}
		els = append(els, &element.Element{
			ID:         summaryID,
			Kind:       element.KindSummary,
			Position:   center.Sub(geom.Pt(size.Width/4, size.Height/4)),
			Bounds:     geom.Size{Width: size.Width / 2, Height: size.Height / 2},
			Visibility: overview,
			Content:    element.SummaryContent{Label: fmt.Sprintf("Group %d", g+1), Count: perGroup},
		})
	}
	return els
}

// cardSemantics keys a card's payload by every tier it renders at.
func cardSemantics(tiers []tier.Tier, group, index int) map[string]any {
	m := make(map[string]any, len(tiers))
	for _, t := range tiers {
		m[t.Name] = map[string]any{"group": group, "index": index}
	}
	return m
}
