package dto

// Column names of the employee dataset.
const (
	ColEmployeeID  = "Employee_ID"
	ColFirstName   = "First_Name"
	ColSurname     = "Surname"
	ColEmail       = "Email"
	ColDepartment  = "Department"
	ColPosition    = "Position"
	ColSalary      = "Salary"
	ColDateOfBirth = "Date_of_Birth"
	ColStartDate   = "Start_date"
	ColEndDate     = "End_date"
)

// Columns returns the canonical header of a fresh dataset.
func Columns() []string {
	return []string{
		ColEmployeeID, ColFirstName, ColSurname, ColEmail, ColDepartment,
		ColPosition, ColSalary, ColDateOfBirth, ColStartDate, ColEndDate,
	}
}

// Employee — validated employee fields. EmployeeID is ignored on update.
type Employee struct {
	EmployeeID  int64   `json:"Employee_ID" example:"1"`                   // Идентификатор сотрудника
	FirstName   string  `json:"First_Name" example:"John"`                 // Имя
	Surname     string  `json:"Surname" example:"Doe"`                     // Фамилия
	Email       string  `json:"Email" example:"john.doe@example.com"`      // E-mail
	Department  string  `json:"Department" example:"Sales"`                // Отдел
	Position    string  `json:"Position" example:"Manager"`                // Должность
	Salary      float64 `json:"Salary" example:"60000"`                    // Оклад, строго больше нуля
	DateOfBirth string  `json:"Date_of_Birth" example:"1985-10-21"`        // Дата рождения (свободный текст)
	StartDate   *string `json:"Start_date,omitempty" example:"2010-01-01"` // Дата приёма
	EndDate     *string `json:"End_date,omitempty" example:"2024-05-20"`   // Дата увольнения
}
