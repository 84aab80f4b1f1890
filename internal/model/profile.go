package model

import "time"

type CountryCode string

const (
	CountryIndia     CountryCode = "+91"
	CountryUS        CountryCode = "+1"
	CountryUK        CountryCode = "+44"
	CountryAustralia CountryCode = "+61"
	CountryUAE       CountryCode = "+971"
)

var CountryCodes = []CountryCode{CountryIndia, CountryUS, CountryUK, CountryAustralia, CountryUAE}

func (c CountryCode) Valid() bool {
	for _, code := range CountryCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Profile is one-to-one with a User and removed together with it.
// swagger:model Profile
type Profile struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"uniqueIndex;not null" json:"userId"`
	User        *User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Profession  string      `gorm:"size:100" json:"profession"`
	Bio         string      `gorm:"type:text" json:"bio"`
	CountryCode CountryCode `gorm:"size:5;check:country_code IN ('+91','+1','+44','+61','+971','')" json:"countryCode"`
	Phone       string      `gorm:"size:20" json:"phone"`
	Address     string      `gorm:"size:255" json:"address"`
	ProfilePic  string      `gorm:"size:255" json:"profilePic"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}
