package kernel

import "errors"

// Validation errors reported by primitive construction and the fillet
// builder. They are wrapped with detail, so match them with errors.Is.
var (
	ErrInvalidDimension     = errors.New("invalid dimension")
	ErrInvalidRadius        = errors.New("invalid fillet radius")
	ErrUnknownEdge          = errors.New("edge does not belong to the shape")
	ErrDuplicateEdge        = errors.New("edge already has a fillet")
	ErrNotCorner            = errors.New("edge is not a sharp corner")
	ErrInsufficientMaterial = errors.New("fillet radius exceeds adjacent faces")
	ErrNothingToFillet      = errors.New("no edges were added to the fillet")
	ErrFilletOverlap        = errors.New("fillet regions overlap")
	ErrEmptyMesh            = errors.New("tessellation produced no triangles")
)
