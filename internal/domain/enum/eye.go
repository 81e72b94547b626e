package enum

import "strings"

// EyeSide identifies which eye a reading or lens belongs to
type EyeSide string

const (
	EyeRight EyeSide = "Right"
	EyeLeft  EyeSide = "Left"
	EyeBoth  EyeSide = "Both"
)

// ParseEyeSide accepts Right/Left/Both and the RE/LE/R/L shorthands.
// The second result is false for anything else.
func ParseEyeSide(s string) (EyeSide, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "re", "r", "od":
		return EyeRight, true
	case "left", "le", "l", "os":
		return EyeLeft, true
	case "both", "ou", "be":
		return EyeBoth, true
	}
	return "", false
}

// Short returns the RE/LE/Both label used on the counter
func (e EyeSide) Short() string {
	switch e {
	case EyeRight:
		return "RE"
	case EyeLeft:
		return "LE"
	}
	return "Both"
}

// VisionType separates distance and near readings
type VisionType string

const (
	VisionDistance VisionType = "distance"
	VisionNear     VisionType = "near"
)

// ParseVisionType accepts the spellings found in older eye_prescriptions rows
func ParseVisionType(s string) (VisionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distance", "dv", "distance_vision":
		return VisionDistance, true
	case "near", "nv", "near_vision":
		return VisionNear, true
	}
	return "", false
}

// DefaultVisualAcuity is the notation prefilled for an empty reading
func (v VisionType) DefaultVisualAcuity() string {
	if v == VisionNear {
		return "N"
	}
	return "6/"
}
