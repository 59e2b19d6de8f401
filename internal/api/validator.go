package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
)

const (
	msgRequired = "field required"
	msgEmpty    = "must not be empty"
)

func requiredText(field string, value *string) *dto.FieldError {
	if value == nil {
		return &dto.FieldError{Field: field, Message: msgRequired}
	}

	if strings.TrimSpace(*value) == "" {
		return &dto.FieldError{Field: field, Message: msgEmpty}
	}

	return nil
}

func checkEmail(field string, value *string) *dto.FieldError {
	if value == nil {
		return &dto.FieldError{Field: field, Message: msgRequired}
	}

	v := strings.TrimSpace(*value)

	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return &dto.FieldError{Field: field, Message: fmt.Sprintf("invalid email address %q", *value)}
	}

	at := strings.LastIndex(v, "@")
	if domain := v[at+1:]; !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return &dto.FieldError{Field: field, Message: fmt.Sprintf("invalid email domain %q", domain)}
	}

	return nil
}

func checkSalary(field string, value *float64) *dto.FieldError {
	if value == nil {
		return &dto.FieldError{Field: field, Message: msgRequired}
	}

	if *value <= 0 {
		return &dto.FieldError{Field: field, Message: "must be greater than 0"}
	}

	return nil
}

func validateEmployeeFields(req employeeFieldsReq) []dto.FieldError {
	checks := []*dto.FieldError{
		requiredText(dto.ColFirstName, req.FirstName),
		requiredText(dto.ColSurname, req.Surname),
		checkEmail(dto.ColEmail, req.Email),
		requiredText(dto.ColDepartment, req.Department),
		requiredText(dto.ColPosition, req.Position),
		checkSalary(dto.ColSalary, req.Salary),
	}

	if req.DateOfBirth == nil {
		checks = append(checks, &dto.FieldError{Field: dto.ColDateOfBirth, Message: msgRequired})
	}

	var out []dto.FieldError
	for _, c := range checks {
		if c != nil {
			out = append(out, *c)
		}
	}

	return out
}

// decodeEmployeeCreate decodes and validates an insert payload, which must
// carry Employee_ID next to the regular fields.
func decodeEmployeeCreate(body []byte) (dto.Employee, []dto.FieldError) {
	var req employeeCreateReq
	if fe := decodeBody(body, &req); fe != nil {
		return dto.Employee{}, []dto.FieldError{*fe}
	}

	var errs []dto.FieldError
	if req.EmployeeID == nil {
		errs = append(errs, dto.FieldError{Field: dto.ColEmployeeID, Message: msgRequired})
	}
	errs = append(errs, validateEmployeeFields(req.employeeFieldsReq)...)

	if len(errs) > 0 {
		return dto.Employee{}, errs
	}

	e := req.employeeFieldsReq.toEmployee()
	e.EmployeeID = *req.EmployeeID

	return e, nil
}

// decodeEmployeeUpdate decodes and validates an update payload. An
// Employee_ID in the body is ignored.
func decodeEmployeeUpdate(body []byte) (dto.Employee, []dto.FieldError) {
	var req employeeFieldsReq
	if fe := decodeBody(body, &req); fe != nil {
		return dto.Employee{}, []dto.FieldError{*fe}
	}

	if errs := validateEmployeeFields(req); len(errs) > 0 {
		return dto.Employee{}, errs
	}

	return req.toEmployee(), nil
}

func decodeBody(body []byte, out any) *dto.FieldError {
	err := json.Unmarshal(body, out)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &dto.FieldError{Field: typeErr.Field, Message: fmt.Sprintf("must be of type %s", typeErr.Type)}
	}

	return &dto.FieldError{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
}

func parseEmployeeID(raw any) (int64, *dto.FieldError) {
	s, _ := raw.(string)

	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &dto.FieldError{Field: "employee_id", Message: fmt.Sprintf("must be an integer, got %q", s)}
	}

	return id, nil
}
