package customers

type SaveCustomerRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	AccountType  string          `json:"account_type" validate:"required,max=100"`
	ContractType string          `json:"contract_type"`
	Details      *DetailsRequest `json:"details" validate:"required"`
}

// DetailsRequest carries the raw demographic fields. Sex and dob are checked by
// the business validators rather than struct tags.
type DetailsRequest struct {
	Sex         string `json:"sex"`
	DOB         string `json:"dob"`
	NativePlace string `json:"native_place" validate:"required,max=200"`
}

type GetCustomerRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type UpdateCustomerRequest struct {
	ID           int64           `json:"id" validate:"required,gt=0"`
	Name         string          `json:"name" validate:"max=200"`
	AccountType  string          `json:"account_type" validate:"max=100"`
	ContractType string          `json:"contract_type"`
	Details      *DetailsRequest `json:"details" validate:"required"`
}

type DeleteCustomerRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// CustomerView is the read projection returned by get operations.
type CustomerView struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	AccountType  string      `json:"account_type"`
	ContractType string      `json:"contract_type"`
	Details      DetailsView `json:"details"`
}

type DetailsView struct {
	Sex         string `json:"sex"`
	DOB         string `json:"dob"`
	NativePlace string `json:"native_place"`
}
