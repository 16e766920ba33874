package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName    string  `json:"fullName" validate:"required"`
		Phone       string  `json:"phone"`
		Position    string  `json:"position" validate:"required"`
		HourlyRate  float64 `json:"hourlyRate" validate:"required,gt=0"`
		WeeklyHours int32   `json:"weeklyHours" validate:"required,gt=0,lte=168"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := &domain.Staff{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Position:    req.Position,
		HourlyRate:  req.HourlyRate,
		WeeklyHours: req.WeeklyHours,
	}

	if err := h.repository.CreateStaff(staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "员工创建成功", staff)
}

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", staff)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(*domain.Staff)
	h.successResponse(w, r, "获取员工信息成功", staff)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName    *string  `json:"fullName"`
		Phone       *string  `json:"phone"`
		Position    *string  `json:"position"`
		HourlyRate  *float64 `json:"hourlyRate" validate:"omitempty,gt=0"`
		WeeklyHours *int32   `json:"weeklyHours" validate:"omitempty,gt=0,lte=168"`
		IsActive    *bool    `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	if req.FullName != nil {
		staff.FullName = *req.FullName
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}
	if req.Position != nil {
		staff.Position = *req.Position
	}
	if req.HourlyRate != nil {
		staff.HourlyRate = *req.HourlyRate
	}
	if req.WeeklyHours != nil {
		staff.WeeklyHours = *req.WeeklyHours
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateStaff(staff); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新员工信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", staff)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	if err := h.repository.DeleteStaff(staff.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}

// AssignStaff 派驻或撤回员工，householdID 传 null 表示撤回
func (h *Handler) AssignStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HouseholdID *int64 `json:"householdID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := r.Context().Value(StaffCtx).(*domain.Staff)
	staff.HouseholdID = req.HouseholdID

	if err := h.repository.UpdateStaff(staff); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "staff_household_id_fkey":
				h.badRequest(w, r, errors.New("目标家庭不存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新员工信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新派驻信息成功", staff)
}
