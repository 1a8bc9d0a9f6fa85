package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
)

type ShiftService interface {
	Create(ctx context.Context, date, startTime, endTime string) (*domain.Shift, error)
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
	GetByWorkdayID(ctx context.Context, workdayID int64) ([]*domain.Shift, error)
	GetByDate(ctx context.Context, date string) ([]*domain.Shift, error)
	List(ctx context.Context, page, limit int) ([]*domain.Shift, error)
	Update(ctx context.Context, id int64, date, startTime, endTime string) (*domain.Shift, error)
	Remove(ctx context.Context, id int64) error
}

type UserService interface {
	Create(ctx context.Context, name string, shiftID *int64) (*domain.User, error)
	Update(ctx context.Context, id int64, name string, shiftID *int64) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page, limit int) ([]*domain.User, error)
	GetAllWorking(ctx context.Context) ([]*domain.User, error)
	GetAllIdle(ctx context.Context) ([]*domain.User, error)
	Remove(ctx context.Context, id int64) error
}

type WorkdayService interface {
	GetByID(ctx context.Context, id int64) (*domain.Workday, error)
	List(ctx context.Context, page, limit int) ([]*domain.Workday, error)
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator
	shifts     ShiftService
	users      UserService
	workdays   WorkdayService

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, shifts ShiftService, users UserService, workdays WorkdayService) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,
		shifts:     shifts,
		users:      users,
		workdays:   workdays,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api/planning", func(r chi.Router) {
		r.Route("/shift", func(r chi.Router) {
			r.Get("/", h.GetAllShifts)
			r.Post("/", h.CreateShift)
			r.With(h.pathID).Get("/workdayById/{id}", h.GetShiftsByWorkdayID)
			r.Get("/workdayByDate/{date}", h.GetShiftsByDate)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.pathID)
				r.Get("/", h.GetShift)
				r.Put("/", h.UpdateShift)
				r.Delete("/", h.DeleteShift)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/", h.GetAllUsers)
			r.Post("/", h.CreateUser)
			r.Get("/working", h.GetWorkingUsers)
			r.Get("/idle", h.GetIdleUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.pathID)
				r.Get("/", h.GetUser)
				r.Put("/", h.UpdateUser)
				r.Delete("/", h.DeleteUser)
			})
		})

		r.Route("/workday", func(r chi.Router) {
			r.Get("/", h.GetAllWorkdays)
			r.With(h.pathID).Get("/{id}", h.GetWorkday)
		})
	})
}
