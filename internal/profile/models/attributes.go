package models

import (
	"strings"

	dErrors "rishta/pkg/domain-errors"
)

// Attributes is the biodata payload supplied by the owner.
type Attributes struct {
	BiodataType           BiodataType `json:"biodata_type"`
	Name                  string      `json:"name"`
	ProfileImage          string      `json:"profile_image,omitempty"`
	DateOfBirth           string      `json:"date_of_birth,omitempty"`
	Age                   int         `json:"age,omitempty"`
	Height                string      `json:"height,omitempty"`
	Weight                string      `json:"weight,omitempty"`
	Occupation            string      `json:"occupation,omitempty"`
	Race                  string      `json:"race,omitempty"`
	FathersName           string      `json:"fathers_name,omitempty"`
	MothersName           string      `json:"mothers_name,omitempty"`
	PermanentDivision     string      `json:"permanent_division,omitempty"`
	PresentDivision       string      `json:"present_division,omitempty"`
	ExpectedPartnerAge    string      `json:"expected_partner_age,omitempty"`
	ExpectedPartnerHeight string      `json:"expected_partner_height,omitempty"`
	ExpectedPartnerWeight string      `json:"expected_partner_weight,omitempty"`
	ContactEmail          string      `json:"contact_email,omitempty"`
	MobileNumber          string      `json:"mobile_number,omitempty"`
}

// Validate checks the fields every biodata must carry.
func (a Attributes) Validate() error {
	if !a.BiodataType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "biodata_type must be Male or Female")
	}
	if strings.TrimSpace(a.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if a.Age < 0 {
		return dErrors.New(dErrors.CodeValidation, "age must not be negative")
	}
	return nil
}

// PublicAttributes omits the private contact fields.
type PublicAttributes struct {
	BiodataType           BiodataType `json:"biodata_type"`
	Name                  string      `json:"name"`
	ProfileImage          string      `json:"profile_image,omitempty"`
	DateOfBirth           string      `json:"date_of_birth,omitempty"`
	Age                   int         `json:"age,omitempty"`
	Height                string      `json:"height,omitempty"`
	Weight                string      `json:"weight,omitempty"`
	Occupation            string      `json:"occupation,omitempty"`
	Race                  string      `json:"race,omitempty"`
	FathersName           string      `json:"fathers_name,omitempty"`
	MothersName           string      `json:"mothers_name,omitempty"`
	PermanentDivision     string      `json:"permanent_division,omitempty"`
	PresentDivision       string      `json:"present_division,omitempty"`
	ExpectedPartnerAge    string      `json:"expected_partner_age,omitempty"`
	ExpectedPartnerHeight string      `json:"expected_partner_height,omitempty"`
	ExpectedPartnerWeight string      `json:"expected_partner_weight,omitempty"`
}

func (a Attributes) Public() PublicAttributes {
	return PublicAttributes{
		BiodataType:           a.BiodataType,
		Name:                  a.Name,
		ProfileImage:          a.ProfileImage,
		DateOfBirth:           a.DateOfBirth,
		Age:                   a.Age,
		Height:                a.Height,
		Weight:                a.Weight,
		Occupation:            a.Occupation,
		Race:                  a.Race,
		FathersName:           a.FathersName,
		MothersName:           a.MothersName,
		PermanentDivision:     a.PermanentDivision,
		PresentDivision:       a.PresentDivision,
		ExpectedPartnerAge:    a.ExpectedPartnerAge,
		ExpectedPartnerHeight: a.ExpectedPartnerHeight,
		ExpectedPartnerWeight: a.ExpectedPartnerWeight,
	}
}

// AttributesPatch is a partial update; nil fields are left untouched.
type AttributesPatch struct {
	BiodataType           *BiodataType `json:"biodata_type,omitempty"`
	Name                  *string      `json:"name,omitempty"`
	ProfileImage          *string      `json:"profile_image,omitempty"`
	DateOfBirth           *string      `json:"date_of_birth,omitempty"`
	Age                   *int         `json:"age,omitempty"`
	Height                *string      `json:"height,omitempty"`
	Weight                *string      `json:"weight,omitempty"`
	Occupation            *string      `json:"occupation,omitempty"`
	Race                  *string      `json:"race,omitempty"`
	FathersName           *string      `json:"fathers_name,omitempty"`
	MothersName           *string      `json:"mothers_name,omitempty"`
	PermanentDivision     *string      `json:"permanent_division,omitempty"`
	PresentDivision       *string      `json:"present_division,omitempty"`
	ExpectedPartnerAge    *string      `json:"expected_partner_age,omitempty"`
	ExpectedPartnerHeight *string      `json:"expected_partner_height,omitempty"`
	ExpectedPartnerWeight *string      `json:"expected_partner_weight,omitempty"`
	ContactEmail          *string      `json:"contact_email,omitempty"`
	MobileNumber          *string      `json:"mobile_number,omitempty"`
}

// Validate rejects patches that would break the required fields.
func (p AttributesPatch) Validate() error {
	if p.BiodataType != nil && !p.BiodataType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "biodata_type must be Male or Female")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	if p.Age != nil && *p.Age < 0 {
		return dErrors.New(dErrors.CodeValidation, "age must not be negative")
	}
	return nil
}

// MergeInto copies every set field onto a.
func (p AttributesPatch) MergeInto(a *Attributes) {
	if p.BiodataType != nil {
		a.BiodataType = *p.BiodataType
	}
	setString(&a.Name, p.Name)
	setString(&a.ProfileImage, p.ProfileImage)
	setString(&a.DateOfBirth, p.DateOfBirth)
	if p.Age != nil {
		a.Age = *p.Age
	}
	setString(&a.Height, p.Height)
	setString(&a.Weight, p.Weight)
	setString(&a.Occupation, p.Occupation)
	setString(&a.Race, p.Race)
	setString(&a.FathersName, p.FathersName)
	setString(&a.MothersName, p.MothersName)
	setString(&a.PermanentDivision, p.PermanentDivision)
	setString(&a.PresentDivision, p.PresentDivision)
	setString(&a.ExpectedPartnerAge, p.ExpectedPartnerAge)
	setString(&a.ExpectedPartnerHeight, p.ExpectedPartnerHeight)
	setString(&a.ExpectedPartnerWeight, p.ExpectedPartnerWeight)
	setString(&a.ContactEmail, p.ContactEmail)
	setString(&a.MobileNumber, p.MobileNumber)
}

// Changes reports whether merging p into current would modify anything.
func (p AttributesPatch) Changes(current Attributes) bool {
	merged := current
	p.MergeInto(&merged)
	return merged != current
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
