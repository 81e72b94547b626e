package enum

// RemarkType is one of the fixed prescription remarks
type RemarkType string

const (
	RemarkForConstantUse        RemarkType = "for_constant_use"
	RemarkForDistanceVisionOnly RemarkType = "for_distance_vision_only"
	RemarkForNearVisionOnly     RemarkType = "for_near_vision_only"
	RemarkSeparateGlasses       RemarkType = "separate_glasses"
	RemarkBifocalLenses         RemarkType = "bifocal_lenses"
	RemarkProgressiveLenses     RemarkType = "progressive_lenses"
	RemarkAntiReflectionLenses  RemarkType = "anti_reflection_lenses"
	RemarkAntiRadiationLenses   RemarkType = "anti_radiation_lenses"
	RemarkUnderCorrected        RemarkType = "under_corrected"
)

// RemarkTypes lists every remark in display order
var RemarkTypes = []RemarkType{
	RemarkForConstantUse,
	RemarkForDistanceVisionOnly,
	RemarkForNearVisionOnly,
	RemarkSeparateGlasses,
	RemarkBifocalLenses,
	RemarkProgressiveLenses,
	RemarkAntiReflectionLenses,
	RemarkAntiRadiationLenses,
	RemarkUnderCorrected,
}
