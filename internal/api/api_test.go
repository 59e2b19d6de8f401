package api

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Employees-CSV/internal/dataset"
	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
	"github.com/Artexxx/HR-Employees-CSV/internal/repository/employee"
	"github.com/Artexxx/HR-Employees-CSV/internal/storage/csvfile"
)

const annCSV = `Employee_ID,First_Name,Surname,Email,Department,Position,Salary,Date_of_Birth,Start_date,End_date
1,Ann,Lee,ann@example.com,Sales,Manager,50000,1980-02-03,2010-01-01,nul
`

const boPayload = `{
	"Employee_ID": 2,
	"First_Name": "Bo",
	"Surname": "Kim",
	"Email": "bo@example.com",
	"Department": "Ops",
	"Position": "Engineer",
	"Salary": 40000,
	"Date_of_Birth": "1990-01-01"
}`

type recordingProducer struct {
	mu     sync.Mutex
	events []dto.EmployeeEvent
	err    error
}

func (p *recordingProducer) ProduceEmployeeEvent(_ context.Context, _ uuid.UUID, ev dto.EmployeeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, ev)
	return p.err
}

type failingRepo struct {
	err   error
	panic bool
}

func (f failingRepo) List(context.Context) ([]dataset.Record, error) {
	if f.panic {
		panic("boom")
	}
	return nil, f.err
}
func (f failingRepo) Get(context.Context, int64) (*dataset.Record, error) { return nil, f.err }
func (f failingRepo) Create(context.Context, dto.Employee) (int, error)   { return 0, f.err }
func (f failingRepo) Update(context.Context, int64, dto.Employee) (int, error) {
	return 0, f.err
}
func (f failingRepo) Delete(context.Context, int64) (int, error) { return 0, f.err }

type testEnv struct {
	svc      *Service
	path     string
	producer *recordingProducer
}

func newTestEnv(t *testing.T, seed string) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "employees.csv")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	store, err := csvfile.NewStore(path, csvfile.WriteAtomic, zerolog.Nop())
	require.NoError(t, err)

	repo, err := employee.NewRepository(store, employee.ConcurrencySerialize, zerolog.Nop())
	require.NoError(t, err)

	producer := &recordingProducer{}

	return &testEnv{
		svc:      NewService(ServiceDeps{EmployeeRepo: repo, Producer: producer, Logger: zerolog.Nop()}),
		path:     path,
		producer: producer,
	}
}

func (e *testEnv) raw(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(e.path)
	require.NoError(t, err)

	return string(data)
}

func do(svc *Service, method, uri, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx

	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}

	svc.server.Handler(&ctx)

	return &ctx
}

func decode[T any](t *testing.T, ctx *fasthttp.RequestCtx) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out), string(ctx.Response.Body()))

	return out
}

func TestRoot(t *testing.T) {
	env := newTestEnv(t, annCSV)

	ctx := do(env.svc, fasthttp.MethodGet, "/", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"massage":"Welcome to Employee Management System."}`, string(ctx.Response.Body()))
	assert.NotEmpty(t, ctx.Response.Header.Peek(requestIDHeader))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, annCSV)

	ctx := do(env.svc, fasthttp.MethodGet, "/health", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok","msg":"OK"}`, string(ctx.Response.Body()))
}

func TestListEmployees(t *testing.T) {
	env := newTestEnv(t, annCSV)

	ctx := do(env.svc, fasthttp.MethodGet, "/employees/get/all", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `[{
		"Employee_ID": 1, "First_Name": "Ann", "Surname": "Lee", "Email": "ann@example.com",
		"Department": "Sales", "Position": "Manager", "Salary": 50000,
		"Date_of_Birth": "1980-02-03", "Start_date": "2010-01-01", "End_date": "nul"
	}]`, string(ctx.Response.Body()))
}

func TestGetEmployee(t *testing.T) {
	env := newTestEnv(t, annCSV)

	ctx := do(env.svc, fasthttp.MethodGet, "/employee/id/1", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	got := decode[map[string]any](t, ctx)
	assert.EqualValues(t, 1, got["Employee_ID"])
	assert.Equal(t, "Ann", got["First_Name"])

	ctx = do(env.svc, fasthttp.MethodGet, "/employee/id/99", "")
	require.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"code":"Not Found","message":"Employee not found"}`, string(ctx.Response.Body()))

	ctx = do(env.svc, fasthttp.MethodGet, "/employee/id/abc", "")
	require.Equal(t, fasthttp.StatusUnprocessableEntity, ctx.Response.StatusCode())
	resp := decode[validationErrorResponse](t, ctx)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "employee_id", resp.Fields[0].Field)
}

// Mirrors the documented walkthrough: get, miss, add, update, delete.
func TestEmployeeScenario(t *testing.T) {
	env := newTestEnv(t, annCSV)
	svc := env.svc

	ctx := do(svc, fasthttp.MethodGet, "/employee/id/1", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx = do(svc, fasthttp.MethodGet, "/employee/id/99", "")
	require.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = do(svc, fasthttp.MethodPost, "/employees/add", boPayload)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.JSONEq(t, `{"message":"Employee added successfully","id":1}`, string(ctx.Response.Body()))

	ctx = do(svc, fasthttp.MethodGet, "/employee/id/2", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	bo := decode[map[string]any](t, ctx)
	assert.Equal(t, "nul", bo["Start_date"])
	assert.Equal(t, "nul", bo["End_date"])

	update := `{"First_Name":"Bo","Surname":"Kim","Email":"bo@example.com","Department":"Ops",
		"Position":"Engineer","Salary":45000,"Date_of_Birth":"1990-01-01"}`
	ctx = do(svc, fasthttp.MethodPut, "/employees/update/2", update)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.JSONEq(t, `{"detail":"Employee updated successfully"}`, string(ctx.Response.Body()))

	ctx = do(svc, fasthttp.MethodGet, "/employee/id/2", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.EqualValues(t, 45000, decode[map[string]any](t, ctx)["Salary"])

	ctx = do(svc, fasthttp.MethodDelete, "/employees/delete/1", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"message":"Employee deleted successfully"}`, string(ctx.Response.Body()))

	ctx = do(svc, fasthttp.MethodGet, "/employee/id/1", "")
	require.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = do(svc, fasthttp.MethodGet, "/employees/get/all", "")
	assert.Len(t, decode[[]map[string]any](t, ctx), 1)

	kinds := make([]dto.EventKind, 0, len(env.producer.events))
	for _, ev := range env.producer.events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []dto.EventKind{dto.EventCreated, dto.EventUpdated, dto.EventDeleted}, kinds)
}

func TestAddEmployee_Validation(t *testing.T) {
	env := newTestEnv(t, annCSV)
	before := env.raw(t)

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{
			name:   "missing everything",
			body:   `{}`,
			fields: []string{"Employee_ID", "First_Name", "Surname", "Email", "Department", "Position", "Salary", "Date_of_Birth"},
		},
		{
			name: "bad values",
			body: `{"Employee_ID":3,"First_Name":"","Surname":"X","Email":"not-an-email","Department":"D",
				"Position":"P","Salary":0,"Date_of_Birth":"x"}`,
			fields: []string{"First_Name", "Email", "Salary"},
		},
		{
			name:   "wrong type",
			body:   `{"Employee_ID":"three"}`,
			fields: []string{"Employee_ID"},
		},
		{
			name:   "broken json",
			body:   `{"Employee_ID":`,
			fields: []string{"body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(env.svc, fasthttp.MethodPost, "/employees/add", tt.body)
			require.Equal(t, fasthttp.StatusUnprocessableEntity, ctx.Response.StatusCode())

			resp := decode[validationErrorResponse](t, ctx)
			var got []string
			for _, f := range resp.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}

	assert.Equal(t, before, env.raw(t))
	assert.Empty(t, env.producer.events)
}

func TestUpdateAndDelete_NotFoundLeavesFile(t *testing.T) {
	env := newTestEnv(t, annCSV)
	before := env.raw(t)

	update := `{"First_Name":"Z","Surname":"Z","Email":"z@example.com","Department":"Z",
		"Position":"Z","Salary":1,"Date_of_Birth":"2000-01-01"}`

	ctx := do(env.svc, fasthttp.MethodPut, "/employees/update/99", update)
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = do(env.svc, fasthttp.MethodDelete, "/employees/delete/99", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	assert.Equal(t, before, env.raw(t))
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t, annCSV)
	env.producer.err = errors.New("kafka unavailable")

	ctx := do(env.svc, fasthttp.MethodDelete, "/employees/delete/1", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Len(t, env.producer.events, 1)
}

func TestStorageFailure(t *testing.T) {
	svc := NewService(ServiceDeps{EmployeeRepo: failingRepo{err: errors.New("file is gone")}, Logger: zerolog.Nop()})

	ctx := do(svc, fasthttp.MethodGet, "/employees/get/all", "")
	require.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Contains(t, decode[errorResponse](t, ctx).Message, "file is gone")

	ctx = do(svc, fasthttp.MethodPost, "/employees/add", boPayload)
	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
}

func TestRecoveryMiddleware(t *testing.T) {
	svc := NewService(ServiceDeps{EmployeeRepo: failingRepo{panic: true}, Logger: zerolog.Nop()})

	ctx := do(svc, fasthttp.MethodGet, "/employees/get/all", "")
	require.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, "Internal Server Error", decode[errorResponse](t, ctx).Message)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, annCSV)

	ctx := do(env.svc, fasthttp.MethodOptions, "/employees/add", "")
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
}

func TestRequestIDIsPropagated(t *testing.T) {
	env := newTestEnv(t, annCSV)

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/health")
	ctx.Request.Header.Set(requestIDHeader, "req-42")
	env.svc.server.Handler(&ctx)

	assert.Equal(t, "req-42", string(ctx.Response.Header.Peek(requestIDHeader)))
	assert.Equal(t, "req-42", RequestID(&ctx))
}
