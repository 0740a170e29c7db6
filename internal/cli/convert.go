package cli

import (
	"github.com/SeamusWaldron/facevalue"
	"github.com/SeamusWaldron/facevalue/internal/scenario"
	"github.com/SeamusWaldron/facevalue/internal/storage"
)

// toChange converts a stored change back into its scenario form.
func toChange(c storage.ChangeRecord) scenario.Change {
	result := facevalue.Propagate
	if c.Result == facevalue.Handled.String() {
		result = facevalue.Handled
	}
	return scenario.Change{
		Face:     facevalue.Face(c.Face),
		Field:    c.Field,
		Previous: byte(c.Previous),
		Current:  byte(c.Current),
		Result:   result,
	}
}
