package customers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldViolation describes one failed structural rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidateStruct runs the tag-driven required/shape checks and returns one
// violation per failing field, or nil.
func ValidateStruct(v any) []FieldViolation {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []FieldViolation{{Rule: "invalid", Message: err.Error()}}
	}
	violations := make([]FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if idx := strings.IndexByte(field, '.'); idx >= 0 {
			field = field[idx+1:]
		}
		violations = append(violations, FieldViolation{
			Field:   field,
			Rule:    fe.Tag(),
			Message: violationMessage(field, fe),
		})
	}
	return violations
}

func violationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// InvalidSex reports whether sex is anything other than exactly "M" or "F".
func InvalidSex(sex string) bool {
	return sex != string(SexMale) && sex != string(SexFemale)
}

// InvalidDOB reports whether dob fails to parse as dd-mm-yyyy or falls after
// the calendar date of now. A dob equal to today is valid.
func InvalidDOB(dob string, now time.Time) bool {
	parsed, err := ParseDOB(dob)
	if err != nil {
		return true
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return parsed.After(today)
}

// InvalidContractType reports whether contract is anything other than exactly
// "fulltime" or "parttime".
func InvalidContractType(contract string) bool {
	return contract != ContractFullTime && contract != ContractPartTime
}

// ParseDOB parses a dd-mm-yyyy date into UTC midnight.
func ParseDOB(dob string) (time.Time, error) {
	return time.Parse(DateLayout, dob)
}

// FormatDOB renders a stored date back to dd-mm-yyyy.
func FormatDOB(dob time.Time) string {
	if dob.IsZero() {
		return ""
	}
	return dob.Format(DateLayout)
}
