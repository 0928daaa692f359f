package carousel

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/types"
)

// Minimum zone dimensions in the 1080-unit template space. Rectangles below
// the threshold are treated as accidental drags, not zones.
const (
	MinZoneWidth  = 50.0
	MinZoneHeight = 30.0
)

// ValidateZone checks a zone's geometry. Type uniqueness is deliberately not
// enforced; templates may carry several body zones.
func ValidateZone(z types.TextZone) error {
	if z.Width < MinZoneWidth || z.Height < MinZoneHeight {
		return fmt.Errorf("%w: zone %.0fx%.0f below minimum %dx%d",
			errdef.ErrOutOfRange, z.Width, z.Height, int(MinZoneWidth), int(MinZoneHeight))
	}
	switch z.Type {
	case "headline", "body", "cta":
	default:
		return fmt.Errorf("%w: zone type %q", errdef.ErrUnsupported, z.Type)
	}
	if z.X < 0 || z.Y < 0 || z.X+z.Width > types.TemplateCanvasSize || z.Y+z.Height > types.TemplateCanvasSize {
		return fmt.Errorf("%w: zone outside %d-unit canvas", errdef.ErrOutOfRange, types.TemplateCanvasSize)
	}
	return nil
}

// FilterZones drops invalid zones, keeping authoring forgiving: a degenerate
// rectangle disappears instead of failing the save.
func FilterZones(zones []types.TextZone) []types.TextZone {
	out := make([]types.TextZone, 0, len(zones))
	for _, z := range zones {
		if ValidateZone(z) == nil {
			out = append(out, z)
		}
	}
	return out
}

// DecodeZones parses serialized zones with the lenient-parse policy.
func DecodeZones(raw datatypes.JSON) []types.TextZone {
	if len(raw) == 0 {
		return nil
	}
	var out []types.TextZone
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func EncodeZones(zones []types.TextZone) datatypes.JSON {
	if zones == nil {
		zones = []types.TextZone{}
	}
	raw, err := json.Marshal(zones)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
