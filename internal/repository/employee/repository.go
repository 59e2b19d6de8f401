package employee

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Employees-CSV/internal/dataset"
	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
)

// Storage loads and saves the whole dataset. There is no partial I/O.
type Storage interface {
	Load(ctx context.Context) (*dataset.Table, error)
	Save(ctx context.Context, table *dataset.Table) error
}

type Concurrency string

const (
	// ConcurrencyNone applies no coordination: concurrent mutations race and the last save wins.
	ConcurrencyNone Concurrency = "none"
	// ConcurrencySerialize holds a single-writer lock across load-modify-save.
	ConcurrencySerialize Concurrency = "serialize"
)

var nullableColumns = []string{dto.ColStartDate, dto.ColEndDate}

type Repository struct {
	storage Storage
	mu      sync.RWMutex
	locking bool
	log     zerolog.Logger
}

func NewRepository(storage Storage, concurrency Concurrency, log zerolog.Logger) (*Repository, error) {
	r := &Repository{
		storage: storage,
		log:     log.With().Str("component", "employeeRepository").Logger(),
	}

	switch concurrency {
	case ConcurrencySerialize, "":
		r.locking = true
	case ConcurrencyNone:
	default:
		return nil, fmt.Errorf("unknown concurrency policy %q", concurrency)
	}

	return r, nil
}

func (r *Repository) rlock() func() {
	if !r.locking {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

func (r *Repository) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *Repository) List(ctx context.Context) ([]dataset.Record, error) {
	defer r.rlock()()

	table, err := r.storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: %w", err)
	}

	return table.Records(), nil
}

// Get returns the first row in storage order carrying the id.
func (r *Repository) Get(ctx context.Context, employeeID int64) (*dataset.Record, error) {
	defer r.rlock()()

	table, err := r.storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: %w", err)
	}

	rows := table.MatchInt(dto.ColEmployeeID, employeeID)
	if len(rows) == 0 {
		return nil, dto.ErrNotFound
	}

	rec := table.Record(rows[0])

	return &rec, nil
}

// Create appends the employee as the last row and returns its positional
// index. Duplicate ids are not rejected. After the first save the dataset is
// reloaded and empty Start_date/End_date cells are back-filled with "nul".
func (r *Repository) Create(ctx context.Context, e dto.Employee) (int, error) {
	defer r.lock()()

	table, err := r.storage.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage.Load: %w", err)
	}

	idx := table.Append(Cells(e, true))

	if err := r.storage.Save(ctx, table); err != nil {
		return 0, fmt.Errorf("storage.Save: %w", err)
	}

	table, err = r.storage.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage.Load: %w", err)
	}

	table.FillMissing(dataset.NullPlaceholder, nullableColumns...)

	if err := r.storage.Save(ctx, table); err != nil {
		return 0, fmt.Errorf("storage.Save: %w", err)
	}

	r.log.Debug().Int64("employee_id", e.EmployeeID).Int("index", idx).Msg("employee appended")

	return idx, nil
}

// Update overwrites every payload field in every row carrying the id.
func (r *Repository) Update(ctx context.Context, employeeID int64, e dto.Employee) (int, error) {
	defer r.lock()()

	table, err := r.storage.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage.Load: %w", err)
	}

	rows := table.MatchInt(dto.ColEmployeeID, employeeID)
	if len(rows) == 0 {
		return 0, dto.ErrNotFound
	}

	table.Set(rows, Cells(e, false))

	if err := r.storage.Save(ctx, table); err != nil {
		return 0, fmt.Errorf("storage.Save: %w", err)
	}

	return len(rows), nil
}

// Delete drops every row carrying the id and returns how many were removed.
func (r *Repository) Delete(ctx context.Context, employeeID int64) (int, error) {
	defer r.lock()()

	table, err := r.storage.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage.Load: %w", err)
	}

	rows := table.MatchInt(dto.ColEmployeeID, employeeID)
	if len(rows) == 0 {
		return 0, dto.ErrNotFound
	}

	table.Delete(rows)

	if err := r.storage.Save(ctx, table); err != nil {
		return 0, fmt.Errorf("storage.Save: %w", err)
	}

	return len(rows), nil
}

// Cells maps an employee to dataset cells in payload field order. Omitted
// optional dates map to empty cells.
func Cells(e dto.Employee, withID bool) []dataset.Cell {
	cells := make([]dataset.Cell, 0, 10)

	if withID {
		cells = append(cells, dataset.Cell{Column: dto.ColEmployeeID, Value: strconv.FormatInt(e.EmployeeID, 10)})
	}

	return append(cells,
		dataset.Cell{Column: dto.ColFirstName, Value: e.FirstName},
		dataset.Cell{Column: dto.ColSurname, Value: e.Surname},
		dataset.Cell{Column: dto.ColEmail, Value: e.Email},
		dataset.Cell{Column: dto.ColDepartment, Value: e.Department},
		dataset.Cell{Column: dto.ColPosition, Value: e.Position},
		dataset.Cell{Column: dto.ColSalary, Value: strconv.FormatFloat(e.Salary, 'f', -1, 64)},
		dataset.Cell{Column: dto.ColDateOfBirth, Value: e.DateOfBirth},
		dataset.Cell{Column: dto.ColStartDate, Value: strOrEmpty(e.StartDate)},
		dataset.Cell{Column: dto.ColEndDate, Value: strOrEmpty(e.EndDate)},
	)
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
