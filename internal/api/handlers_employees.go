package api

import (
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
)

type employeeFieldsReq struct {
	FirstName   *string  `json:"First_Name" example:"John"`                 // Имя, не пустое
	Surname     *string  `json:"Surname" example:"Doe"`                     // Фамилия, не пустая
	Email       *string  `json:"Email" example:"john.doe@example.com"`      // E-mail
	Department  *string  `json:"Department" example:"Sales"`                // Отдел, не пустой
	Position    *string  `json:"Position" example:"Manager"`                // Должность, не пустая
	Salary      *float64 `json:"Salary" example:"60000"`                    // Оклад > 0
	DateOfBirth *string  `json:"Date_of_Birth" example:"1985-10-21"`        // Дата рождения (не проверяется)
	StartDate   *string  `json:"Start_date,omitempty" example:"2010-01-01"` // Дата приёма, необязательная
	EndDate     *string  `json:"End_date,omitempty" example:"2024-05-20"`   // Дата увольнения, необязательная
}

type employeeCreateReq struct {
	EmployeeID *int64 `json:"Employee_ID" example:"1"` // Идентификатор сотрудника (уникальность не проверяется)
	employeeFieldsReq
}

func (r employeeFieldsReq) toEmployee() dto.Employee {
	return dto.Employee{
		FirstName:   *r.FirstName,
		Surname:     *r.Surname,
		Email:       *r.Email,
		Department:  *r.Department,
		Position:    *r.Position,
		Salary:      *r.Salary,
		DateOfBirth: *r.DateOfBirth,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// @Summary Приветствие
// @Tags    Root
// @Produce json
// @Success 200 {object} welcomeResponse
// @Router  / [get]
func (s *Service) rootHandler(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, welcomeResponse{Massage: "Welcome to Employee Management System."})
}

// @Summary Список всех сотрудников
// @Tags    Employees
// @Produce json
// @Success 200 {array} object "Строки набора данных в порядке хранения"
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees/get/all [get]
func (s *Service) listEmployees(ctx *fasthttp.RequestCtx) {
	rows, err := s.employees.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list employees")
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.List: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Получить сотрудника по Employee_ID
// @Tags    Employees
// @Produce json
// @Param   employee_id path int true "Employee_ID"
// @Success 200 {object} object "Первая строка с указанным Employee_ID"
// @Failure 404 {object} errorResponse "Employee not found"
// @Failure 422 {object} validationErrorResponse "employee_id не является целым числом"
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employee/id/{employee_id} [get]
func (s *Service) getEmployee(ctx *fasthttp.RequestCtx) {
	employeeID, fe := parseEmployeeID(ctx.UserValue("employee_id"))
	if fe != nil {
		writeValidationError(ctx, []dto.FieldError{*fe})
		return
	}

	row, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		s.log.Error().Err(err).Int64("employee_id", employeeID).Msg("get employee")
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Get: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, row)
}

// @Summary Добавить сотрудника
// @Tags    Employees
// @Accept  json
// @Produce json
// @Param   request body employeeCreateReq true "Сотрудник"
// @Success 200 {object} addedResponse "id — позиция новой строки, а не Employee_ID"
// @Failure 422 {object} validationErrorResponse "Ошибки валидации полей"
// @description Варианты 422:
// @description - field required: Employee_ID, First_Name, Surname, Email, Department, Position, Salary, Date_of_Birth
// @description - must not be empty: First_Name, Surname, Department, Position
// @description - invalid email, Salary <= 0
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees/add [post]
func (s *Service) addEmployee(ctx *fasthttp.RequestCtx) {
	employee, errs := decodeEmployeeCreate(ctx.PostBody())
	if len(errs) > 0 {
		writeValidationError(ctx, errs)
		return
	}

	idx, err := s.employees.Create(ctx, employee)
	if err != nil {
		s.log.Error().Err(err).Int64("employee_id", employee.EmployeeID).Msg("add employee")
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Create: %w", err))
		return
	}

	s.publish(ctx, dto.EmployeeEvent{Kind: dto.EventCreated, EmployeeID: employee.EmployeeID, Employee: &employee, Rows: idx})

	writeJSON(ctx, fasthttp.StatusOK, addedResponse{Message: "Employee added successfully", ID: idx})
}

// @Summary Обновить сотрудника
// @Tags    Employees
// @Accept  json
// @Produce json
// @Param   employee_id path int true "Employee_ID"
// @Param   request body employeeFieldsReq true "Поля сотрудника без Employee_ID"
// @Success 200 {object} detailResponse
// @Failure 404 {object} errorResponse "Employee not found"
// @Failure 422 {object} validationErrorResponse "Ошибки валидации полей"
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees/update/{employee_id} [put]
func (s *Service) updateEmployee(ctx *fasthttp.RequestCtx) {
	employeeID, fe := parseEmployeeID(ctx.UserValue("employee_id"))
	if fe != nil {
		writeValidationError(ctx, []dto.FieldError{*fe})
		return
	}

	employee, errs := decodeEmployeeUpdate(ctx.PostBody())
	if len(errs) > 0 {
		writeValidationError(ctx, errs)
		return
	}

	n, err := s.employees.Update(ctx, employeeID, employee)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		s.log.Error().Err(err).Int64("employee_id", employeeID).Msg("update employee")
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Update: %w", err))
		return
	}

	employee.EmployeeID = employeeID
	s.publish(ctx, dto.EmployeeEvent{Kind: dto.EventUpdated, EmployeeID: employeeID, Employee: &employee, Rows: n})

	writeJSON(ctx, fasthttp.StatusOK, detailResponse{Detail: "Employee updated successfully"})
}

// @Summary Удалить сотрудника
// @Tags    Employees
// @Produce json
// @Param   employee_id path int true "Employee_ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse "Employee not found"
// @Failure 422 {object} validationErrorResponse "employee_id не является целым числом"
// @Failure 500 {object} errorResponse "Внутренняя ошибка"
// @Router  /employees/delete/{employee_id} [delete]
func (s *Service) deleteEmployee(ctx *fasthttp.RequestCtx) {
	employeeID, fe := parseEmployeeID(ctx.UserValue("employee_id"))
	if fe != nil {
		writeValidationError(ctx, []dto.FieldError{*fe})
		return
	}

	n, err := s.employees.Delete(ctx, employeeID)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		s.log.Error().Err(err).Int64("employee_id", employeeID).Msg("delete employee")
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeeRepository.Delete: %w", err))
		return
	}

	s.publish(ctx, dto.EmployeeEvent{Kind: dto.EventDeleted, EmployeeID: employeeID, Rows: n})

	writeJSON(ctx, fasthttp.StatusOK, messageResponse{Message: "Employee deleted successfully"})
}

// @Summary Проверка здоровья сервиса
// @Tags    Admin
// @Success 200 {object} okResponse
// @Router  /health [get]
func (s *Service) healthHandler(ctx *fasthttp.RequestCtx) {
	ok(ctx, "OK")
}
