package entity

import "time"

// Customer holds the patient fields shared by spectacle and contact-lens
// prescriptions. It is embedded in both tables.
type Customer struct {
	Title               string     `gorm:"size:20" json:"title"`
	Name                string     `gorm:"size:255;not null;index" json:"name"`
	Gender              string     `gorm:"size:20" json:"gender"`
	Age                 string     `gorm:"size:10" json:"age"`
	MobileNo            string     `gorm:"size:50;index" json:"mobile_no"`
	PhoneLandline       string     `gorm:"size:50" json:"phone_landline"`
	Email               string     `gorm:"size:255" json:"email"`
	Address             string     `gorm:"type:text" json:"address"`
	City                string     `gorm:"size:100" json:"city"`
	State               string     `gorm:"size:100" json:"state"`
	Pin                 string     `gorm:"size:20" json:"pin"`
	CustomerCode        string     `gorm:"size:50" json:"customer_code"`
	BirthDay            *time.Time `gorm:"type:date" json:"birth_day,omitempty"`
	MarriageAnniversary *time.Time `gorm:"type:date" json:"marriage_anniversary,omitempty"`
}
