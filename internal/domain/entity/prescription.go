package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultCustomerName = "Unnamed"
	DefaultPrescriber   = "Unknown"
)

// Prescription is a spectacle prescription and its patient
type Prescription struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PrescriptionNo   string     `gorm:"size:50;uniqueIndex;not null" json:"prescription_no"`
	ReferenceNo      string     `gorm:"size:50;index" json:"reference_no"`
	PrescriptionDate *time.Time `gorm:"type:date" json:"prescription_date,omitempty"`
	Class            string     `gorm:"size:50" json:"class"`
	PrescribedBy     string     `gorm:"size:255;not null" json:"prescribed_by"`
	BookingBy        string     `gorm:"size:255" json:"booking_by"`
	Customer
	IPD         string         `gorm:"size:20" json:"ipd"`
	BalanceLens bool           `gorm:"default:false" json:"balance_lens"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Eyes    []EyePrescription    `gorm:"foreignKey:PrescriptionID" json:"eyes,omitempty"`
	Remarks []PrescriptionRemark `gorm:"foreignKey:PrescriptionID" json:"remarks,omitempty"`
	Orders  []Order              `gorm:"foreignKey:PrescriptionID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new prescription
func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Prescription model
func (Prescription) TableName() string {
	return "prescriptions"
}

// EyePrescription is one reading of one eye. RPD is only set on right eye
// rows and LPD on left eye rows.
type EyePrescription struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"prescription_id"`
	EyeType        string    `gorm:"size:10;not null" json:"eye_type"`
	VisionType     string    `gorm:"size:20;not null" json:"vision_type"`
	Sph            string    `gorm:"size:20" json:"sph"`
	Cyl            string    `gorm:"size:20" json:"cyl"`
	Axis           string    `gorm:"size:10" json:"axis"`
	AddPower       string    `gorm:"size:20" json:"add_power"`
	VN             string    `gorm:"column:vn;size:20" json:"vn"`
	RPD            string    `gorm:"column:rpd;size:20" json:"rpd"`
	LPD            string    `gorm:"column:lpd;size:20" json:"lpd"`
	CreatedAt      time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new eye reading
func (e *EyePrescription) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the EyePrescription model
func (EyePrescription) TableName() string {
	return "eye_prescriptions"
}

// PrescriptionRemark marks one remark as selected for a prescription
type PrescriptionRemark struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"prescription_id"`
	RemarkType     string    `gorm:"size:50;not null" json:"remark_type"`
	CreatedAt      time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new remark
func (r *PrescriptionRemark) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PrescriptionRemark model
func (PrescriptionRemark) TableName() string {
	return "prescription_remarks"
}
