package customers

// Success discriminator values carried by every response.
const (
	StatusError   = 0
	StatusSuccess = 1
)

// Error codes placed in Envelope.Error.
const (
	CodeInvalidSex       = "INVALID_SEX"
	CodeInvalidDOB       = "INVALID_DOB"
	CodeInvalidContract  = "INVALID_CONTRACT"
	CodeNoRecordFound    = "NO_RECORD_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
)

// Success messages placed in Envelope.Message.
const (
	MessageSaveCustomer   = "SAVE_CUSTOMER"
	MessageGetCustomer    = "GET_CUSTOMER"
	MessageGetAllCustomer = "GET_ALL_CUSTOMER"
	MessageUpdateCustomer = "UPDATE_CUSTOMER"
	MessageDeleteCustomer = "DELETE_CUSTOMER"
)

// Envelope is the uniform outcome shared by all customer responses. Exactly one
// of Message and Error is set.
type Envelope struct {
	Success    int              `json:"success"`
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

// OK reports whether the envelope carries the success discriminator.
func (e Envelope) OK() bool {
	return e.Success == StatusSuccess
}

type SaveCustomerResponse struct {
	Envelope
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type GetCustomerResponse struct {
	Envelope
	Customers *CustomerView `json:"customers,omitempty"`
}

type GetAllCustomerResponse struct {
	Envelope
	Customers []CustomerView `json:"customers,omitempty"`
}

type UpdateCustomerResponse struct {
	Envelope
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type DeleteCustomerResponse struct {
	Envelope
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func success(message string) Envelope {
	return Envelope{Success: StatusSuccess, Message: message}
}

func failure(code string) Envelope {
	return Envelope{Success: StatusError, Error: code}
}

func invalid(violations []FieldViolation) Envelope {
	env := failure(CodeValidationFailed)
	env.Violations = violations
	return env
}

func saveSuccess(id int64, name string) SaveCustomerResponse {
	return SaveCustomerResponse{Envelope: success(MessageSaveCustomer), ID: id, Name: name}
}

func saveFailure(env Envelope) SaveCustomerResponse {
	return SaveCustomerResponse{Envelope: env}
}

func getSuccess(view CustomerView) GetCustomerResponse {
	return GetCustomerResponse{Envelope: success(MessageGetCustomer), Customers: &view}
}

func getFailure(env Envelope) GetCustomerResponse {
	return GetCustomerResponse{Envelope: env}
}

func getAllSuccess(views []CustomerView) GetAllCustomerResponse {
	return GetAllCustomerResponse{Envelope: success(MessageGetAllCustomer), Customers: views}
}

func getAllFailure(env Envelope) GetAllCustomerResponse {
	return GetAllCustomerResponse{Envelope: env}
}

func updateSuccess(id int64, name string) UpdateCustomerResponse {
	return UpdateCustomerResponse{Envelope: success(MessageUpdateCustomer), ID: id, Name: name}
}

func updateFailure(env Envelope) UpdateCustomerResponse {
	return UpdateCustomerResponse{Envelope: env}
}

func deleteSuccess(id int64, name string) DeleteCustomerResponse {
	return DeleteCustomerResponse{Envelope: success(MessageDeleteCustomer), ID: id, Name: name}
}

func deleteFailure(env Envelope) DeleteCustomerResponse {
	return DeleteCustomerResponse{Envelope: env}
}

// project maps the aggregate to its read view with the dob rendered as dd-mm-yyyy.
func project(c *Customer) CustomerView {
	view := CustomerView{
		ID:           c.ID,
		Name:         c.Name,
		AccountType:  c.AccountType,
		ContractType: c.ContractType,
	}
	if c.Details != nil {
		view.Details = DetailsView{
			Sex:         string(c.Details.Sex),
			DOB:         FormatDOB(c.Details.DOB),
			NativePlace: c.Details.NativePlace,
		}
	}
	return view
}
