package customers

import "time"

// Sex is the demographic sex code stored with customer details.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Contract types accepted on save.
const (
	ContractFullTime = "fulltime"
	ContractPartTime = "parttime"
)

// DateLayout is the day-month-year wire format for dates of birth.
const DateLayout = "02-01-2006"

// Customer is the aggregate root. Details are owned by the customer and are
// persisted and removed together with it.
type Customer struct {
	ID           int64            `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	AccountType  string           `json:"account_type" db:"account_type"`
	ContractType string           `json:"contract_type" db:"contract_type"`
	Details      *CustomerDetails `json:"details,omitempty"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// CustomerDetails holds the demographic part of the aggregate. DOB is a civil
// date at UTC midnight.
type CustomerDetails struct {
	ID          int64     `json:"-" db:"id"`
	Sex         Sex       `json:"sex" db:"sex"`
	DOB         time.Time `json:"dob" db:"dob"`
	NativePlace string    `json:"native_place" db:"native_place"`
}
