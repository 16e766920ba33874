package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

func (h *Handler) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Address     string `json:"address" validate:"required"`
		ContactName string `json:"contactName"`
		Phone       string `json:"phone"`
		Notes       string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	household := &domain.Household{
		Name:        req.Name,
		Address:     req.Address,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Notes:       req.Notes,
	}

	if err := h.repository.CreateHousehold(household); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "家庭创建成功", household)
}

func (h *Handler) GetAllHouseholds(w http.ResponseWriter, r *http.Request) {
	households, err := h.repository.GetAllHouseholds()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取家庭列表成功", households)
}

func (h *Handler) GetHousehold(w http.ResponseWriter, r *http.Request) {
	household := r.Context().Value(HouseholdCtx).(*domain.Household)
	h.successResponse(w, r, "获取家庭信息成功", household)
}

func (h *Handler) UpdateHousehold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Address     *string `json:"address"`
		ContactName *string `json:"contactName"`
		Phone       *string `json:"phone"`
		Notes       *string `json:"notes"`
		IsActive    *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	household := r.Context().Value(HouseholdCtx).(*domain.Household)

	if req.Name != nil {
		household.Name = *req.Name
	}
	if req.Address != nil {
		household.Address = *req.Address
	}
	if req.ContactName != nil {
		household.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		household.Phone = *req.Phone
	}
	if req.Notes != nil {
		household.Notes = *req.Notes
	}
	if req.IsActive != nil {
		household.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateHousehold(household); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新家庭信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新家庭信息成功", household)
}

func (h *Handler) DeleteHousehold(w http.ResponseWriter, r *http.Request) {
	household := r.Context().Value(HouseholdCtx).(*domain.Household)

	if err := h.repository.DeleteHousehold(household.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除家庭成功", nil)
}

func (h *Handler) GetHouseholdStaff(w http.ResponseWriter, r *http.Request) {
	household := r.Context().Value(HouseholdCtx).(*domain.Household)

	staff, err := h.repository.GetStaffByHouseholdID(household.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取家庭员工列表成功", staff)
}
