package sink

import (
	"encoding/json"

	"github.com/matzehuels/geofig/pkg/geometry"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/solver"
)

type jsonOutput struct {
	Type        string                  `json:"type,omitempty"`
	Description string                  `json:"description,omitempty"`
	Metadata    render.Metadata         `json:"metadata"`
	Scale       float64                 `json:"scale"`
	Points      []jsonPoint             `json:"points,omitempty"`
	Scene       solver.Scene            `json:"scene"`
	Labels      []layout.PlacedLabel    `json:"labels,omitempty"`
	Solid       *solver.SolidInfo       `json:"solid,omitempty"`
	Canonical   map[string]geometry.Vec `json:"canonical,omitempty"`
}

type jsonPoint struct {
	ID     string       `json:"id"`
	Canvas geometry.Vec `json:"canvas"`
}

// RenderJSON exports the placed geometry and its metadata as a
// pretty-printed JSON document. Canonical holds the solver coordinates
// before scaling, keyed by point id.
func RenderJSON(p *layout.Placed) ([]byte, error) {
	out := jsonOutput{
		Description: p.Description(),
		Metadata:    render.MetadataOf(p),
		Scale:       p.Scale,
		Scene:       p.Scene,
		Labels:      p.Labels,
	}
	for _, pt := range p.Scene.Points {
		out.Points = append(out.Points, jsonPoint{ID: pt.ID, Canvas: pt.Pos})
	}
	if r := p.Resolved; r != nil {
		out.Solid = r.Solid
		out.Canonical = r.Points
		if r.Spec != nil {
			out.Type = string(r.Spec.Type)
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// RenderMetadata exports metadata alone, as written beside each artifact.
func RenderMetadata(m render.Metadata) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
