package record

import "github.com/sangkips/optica-api/internal/domain/enum"

// Lens focuses on a part A inside a whole S. Set returns a new S and leaves
// its argument untouched.
type Lens[S, A any] struct {
	Get func(S) A
	Set func(S, A) S
}

// Compose focuses outer then inner
func Compose[S, M, A any](outer Lens[S, M], inner Lens[M, A]) Lens[S, A] {
	return Lens[S, A]{
		Get: func(s S) A { return inner.Get(outer.Get(s)) },
		Set: func(s S, a A) S { return outer.Set(s, inner.Set(outer.Get(s), a)) },
	}
}

// Modify applies fn to the focused part
func Modify[S, A any](l Lens[S, A], s S, fn func(A) A) S {
	return l.Set(s, fn(l.Get(s)))
}

// Field builds a lens from a pointer accessor. The accessor only ever sees
// a copy of the whole.
func Field[S, A any](at func(*S) *A) Lens[S, A] {
	return Lens[S, A]{
		Get: func(s S) A { return *at(&s) },
		Set: func(s S, a A) S {
			*at(&s) = a
			return s
		},
	}
}

var (
	IdentifiersLens  = Field(func(r *OrderRecord) *Identifiers { return &r.Identifiers })
	CustomerLens     = Field(func(r *OrderRecord) *Customer { return &r.Customer })
	PrescriptionLens = Field(func(r *OrderRecord) *Prescription { return &r.Prescription })
	PaymentLens      = Field(func(r *OrderRecord) *Payment { return &r.Payment })
	StatusLens       = Field(func(r *OrderRecord) *Status { return &r.Status })

	RightEyeLens = Field(func(p *Prescription) *EyeMeasurement { return &p.RightEye })
	LeftEyeLens  = Field(func(p *Prescription) *EyeMeasurement { return &p.LeftEye })
	RemarksLens  = Field(func(p *Prescription) *RemarkFlags { return &p.Remarks })

	DistanceLens = Field(func(e *EyeMeasurement) *VisionReading { return &e.Distance })
	NearLens     = Field(func(e *EyeMeasurement) *VisionReading { return &e.Near })
	PDLens       = Field(func(e *EyeMeasurement) *string { return &e.PD })

	SphLens    = Field(func(v *VisionReading) *string { return &v.Sph })
	CylLens    = Field(func(v *VisionReading) *string { return &v.Cyl })
	AxisLens   = Field(func(v *VisionReading) *string { return &v.Axis })
	AddLens    = Field(func(v *VisionReading) *string { return &v.Add })
	AcuityLens = Field(func(v *VisionReading) *string { return &v.VisualAcuity })
)

// EyeLens focuses on one eye of a record. Anything but the left eye
// focuses on the right.
func EyeLens(side enum.EyeSide) Lens[OrderRecord, EyeMeasurement] {
	if side == enum.EyeLeft {
		return Compose(PrescriptionLens, LeftEyeLens)
	}
	return Compose(PrescriptionLens, RightEyeLens)
}

// ReadingLens focuses on one vision reading of one eye
func ReadingLens(side enum.EyeSide, vision enum.VisionType) Lens[OrderRecord, VisionReading] {
	if vision == enum.VisionNear {
		return Compose(EyeLens(side), NearLens)
	}
	return Compose(EyeLens(side), DistanceLens)
}

// RemarkLens focuses on one remark flag
func RemarkLens(t enum.RemarkType) Lens[OrderRecord, bool] {
	return Compose(Compose(PrescriptionLens, RemarksLens), Field(func(r *RemarkFlags) *bool {
		if f := r.Flag(t); f != nil {
			return f
		}
		var unused bool
		return &unused
	}))
}
