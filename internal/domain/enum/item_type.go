package enum

import "strings"

// ItemType classifies an order line item. Values are stored as text.
type ItemType string

const (
	ItemTypeFrames      ItemType = "Frames"
	ItemTypeSunGlasses  ItemType = "Sun Glasses"
	ItemTypeLens        ItemType = "Lens"
	ItemTypeContactLens ItemType = "Contact Lens"
	ItemTypeOther       ItemType = "Other"
)

var itemCodePrefixes = map[ItemType]string{
	ItemTypeFrames:      "FRM",
	ItemTypeSunGlasses:  "SUN",
	ItemTypeLens:        "LEN",
	ItemTypeContactLens: "CON",
	ItemTypeOther:       "ITM",
}

// CodePrefix returns the item code prefix for the type
func (t ItemType) CodePrefix() string {
	if p, ok := itemCodePrefixes[t]; ok {
		return p
	}
	return itemCodePrefixes[ItemTypeOther]
}

// ParseItemType accepts the stored names plus a few UI spellings
func ParseItemType(s string) ItemType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "frames", "frame":
		return ItemTypeFrames
	case "sun glasses", "sunglasses", "sun glass":
		return ItemTypeSunGlasses
	case "lens", "lenses":
		return ItemTypeLens
	case "contact lens", "contact lenses", "contactlens":
		return ItemTypeContactLens
	case "":
		return ""
	default:
		return ItemTypeOther
	}
}

// InferItemType derives the type from the item code prefix, falling back
// to keywords in the item name
func InferItemType(code, name string) ItemType {
	upper := strings.ToUpper(code)
	for _, t := range []ItemType{ItemTypeFrames, ItemTypeSunGlasses, ItemTypeLens, ItemTypeContactLens} {
		if strings.HasPrefix(upper, itemCodePrefixes[t]) {
			return t
		}
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "frame"):
		return ItemTypeFrames
	case strings.Contains(lower, "contact"):
		return ItemTypeContactLens
	case strings.Contains(lower, "sun"), strings.Contains(lower, "glass"):
		return ItemTypeSunGlasses
	case strings.Contains(lower, "lens"):
		return ItemTypeLens
	}
	return ItemTypeOther
}
