package producer

import (
	"time"

	"github.com/google/uuid"

	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
)

// EmployeePayload — поля сотрудника в событиях created/updated
type EmployeePayload struct {
	Employee dto.Employee `json:"employee"`
	Rows     int          `json:"rows" example:"1"` // Число затронутых строк (для created — позиция строки)
}

// DeletedPayload — событие об удалении строк сотрудника
type DeletedPayload struct {
	Rows int `json:"rows" example:"1"` // Число удалённых строк
}

type Envelope[T any] struct {
	Kind       string    `json:"kind"        example:"employee.created"`                     // Тип события
	MessageID  uuid.UUID `json:"message_id"  example:"c7e06db5-4b71-4c54-9334-3f9a6e6c5d0e"` // Идентификатор события (UUID v4)
	EmployeeID int64     `json:"employee_id" example:"1"`                                    // Employee_ID из набора данных
	Payload    T         `json:"payload"`                                                    // Полезная нагрузка (структура зависит от kind)
	Timestamp  time.Time `json:"timestamp"   example:"2025-10-19T12:34:56Z"`                 // Время формирования события
	Source     string    `json:"source"      example:"employees-csv-api"`                    // Сервис-источник
}
