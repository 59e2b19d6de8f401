package dto

type EventKind string

const (
	EventCreated EventKind = "employee.created"
	EventUpdated EventKind = "employee.updated"
	EventDeleted EventKind = "employee.deleted"
)

// EmployeeEvent — изменение набора данных, публикуемое после успешной записи.
type EmployeeEvent struct {
	Kind       EventKind
	EmployeeID int64
	Employee   *Employee // nil for deletions
	Rows       int       // affected rows; for creations the positional index
}
