package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/moshegoodman/zoozz2-sub000/internal/config"
	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	"github.com/moshegoodman/zoozz2-sub000/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUser)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
				r.With(h.preventOperateInitialAdmin).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/vendors", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateVendor)
			r.Get("/", h.GetAllVendors)
			// 群发模板必须放在 /{id} 之前注册，否则会被当成供应商 ID
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleCoordinator})).Post("/schedule-broadcast", h.BroadcastSchedule)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.vendorInfo)
				r.Get("/", h.GetVendor)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateVendor)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteVendor)
				r.Route("/schedule", func(r chi.Router) {
					r.Get("/", h.GetVendorSchedule)
					r.Get("/calendar", h.GetVendorCalendar)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleCoordinator, domain.RoleVendorStaff})).Put("/day", h.UpdateVendorScheduleDay)
				})
				r.Get("/products", h.GetVendorProducts)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleVendorStaff})).Post("/", h.CreateProduct)
			r.Get("/", h.GetAllProducts)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleVendorStaff})).Post("/import", h.ImportProducts)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.productInfo)
				r.Get("/", h.GetProduct)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleVendorStaff})).Patch("/", h.UpdateProduct)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteProduct)
			})
		})

		r.Route("/households", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateHousehold)
			r.Get("/", h.GetAllHouseholds)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.householdInfo)
				r.Get("/", h.GetHousehold)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateHousehold)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteHousehold)
				r.Get("/staff", h.GetHouseholdStaff)
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaff)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/assignment", h.AssignStaff)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleCoordinator})).Post("/", h.CreateOrder)
			r.Get("/", h.GetAllOrders)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.orderInfo)
				r.Get("/", h.GetOrder)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleCoordinator})).Patch("/status", h.UpdateOrderStatus)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleCoordinator})).Put("/items", h.UpdateOrderItems)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleCoordinator, domain.RoleVendorStaff})).Post("/items/{itemID}/substitute", h.SubstituteOrderItem)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteOrder)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleCoordinator}))
			r.Get("/billing", h.GetBillingReport)
			r.Get("/payroll", h.GetPayrollReport)
		})

		r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/messaging/test", h.SendTestMessage)
	})
}
