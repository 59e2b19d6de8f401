package api

import (
	"context"
	"fmt"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Employees-CSV/internal/dataset"
	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
)

// @title           Employee Management System
// @version         1.0
// @description     CRUD по сотрудникам поверх плоского CSV-файла: каждый запрос читает весь набор данных, изменения перезаписывают его целиком.
//
// @license.name  MIT
// @license.url   https://opensource.org/license/mit
//
// @BasePath  /
// @schemes   http
// @accept    json
// @produce   json

type EmployeeRepository interface {
	List(ctx context.Context) ([]dataset.Record, error)
	Get(ctx context.Context, employeeID int64) (*dataset.Record, error)
	Create(ctx context.Context, e dto.Employee) (int, error)
	Update(ctx context.Context, employeeID int64, e dto.Employee) (int, error)
	Delete(ctx context.Context, employeeID int64) (int, error)
}

type Producer interface {
	ProduceEmployeeEvent(ctx context.Context, messageID uuid.UUID, ev dto.EmployeeEvent) error
}

type ServiceDeps struct {
	Port int

	EmployeeRepo EmployeeRepository

	// Producer is optional; nil disables change events.
	Producer Producer
	Logger   zerolog.Logger
}

type Service struct {
	r      *router.Router
	server *fasthttp.Server
	port   int

	employees EmployeeRepository
	producer  Producer
	log       zerolog.Logger
}

func NewService(d ServiceDeps) *Service {
	rt := router.New()

	s := &Service{
		r:         rt,
		port:      d.Port,
		employees: d.EmployeeRepo,
		producer:  d.Producer,
		log:       d.Logger.With().Str("component", "api").Logger(),
	}

	s.mountRoutes()

	s.server = &fasthttp.Server{
		Handler:            RecoveryMiddleware(LoggingMiddleware(CORS(s.r.Handler))),
		Name:               "employees-csv-api",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       15 * time.Second,
		MaxRequestBodySize: 2 << 20, // 2 MiB
	}

	return s
}

func (s *Service) Start(ctx context.Context) error {
	s.log.Info().Int("port", s.port).Msg("Starting employees API")

	emergencyShutdown := make(chan error, 1)
	go func() {
		emergencyShutdown <- s.server.ListenAndServe(fmt.Sprintf(":%d", s.port))
	}()

	select {
	case <-ctx.Done():
		return s.server.Shutdown()
	case e := <-emergencyShutdown:
		return e
	}
}

func (s *Service) mountRoutes() {
	s.r.GET("/", s.rootHandler)

	// Employees
	s.r.GET("/employees/get/all", s.listEmployees)
	s.r.GET("/employee/id/{employee_id}", s.getEmployee)
	s.r.POST("/employees/add", s.addEmployee)
	s.r.PUT("/employees/update/{employee_id}", s.updateEmployee)
	s.r.DELETE("/employees/delete/{employee_id}", s.deleteEmployee)

	// Health
	s.r.GET("/health", s.healthHandler)
}

// publish sends a change event. Failures are logged and never reach the caller.
func (s *Service) publish(ctx context.Context, ev dto.EmployeeEvent) {
	if s.producer == nil {
		return
	}

	messageID := uuid.New()
	if err := s.producer.ProduceEmployeeEvent(ctx, messageID, ev); err != nil {
		s.log.Warn().
			Err(err).
			Str("kind", string(ev.Kind)).
			Int64("employee_id", ev.EmployeeID).
			Str("message_id", messageID.String()).
			Msg("employee event not published")
	}
}
