package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

func (h *Handler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name" validate:"required"`
		Contact string `json:"contact"`
		Phone   string `json:"phone"`
		Email   string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vendor := &domain.Vendor{
		Name:    req.Name,
		Contact: req.Contact,
		Phone:   req.Phone,
		Email:   req.Email,
	}

	if err := h.repository.CreateVendor(vendor); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "vendors_name_key":
				h.badRequest(w, r, errors.New("供应商名称已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "供应商创建成功", vendor)
}

func (h *Handler) GetAllVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.repository.GetAllVendors()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取供应商列表成功", vendors)
}

func (h *Handler) GetVendor(w http.ResponseWriter, r *http.Request) {
	vendor := r.Context().Value(VendorCtx).(*domain.Vendor)
	h.successResponse(w, r, "获取供应商信息成功", vendor)
}

func (h *Handler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Contact  *string `json:"contact"`
		Phone    *string `json:"phone"`
		Email    *string `json:"email" validate:"omitempty,email"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vendor := r.Context().Value(VendorCtx).(*domain.Vendor)

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Contact != nil {
		vendor.Contact = *req.Contact
	}
	if req.Phone != nil {
		vendor.Phone = *req.Phone
	}
	if req.Email != nil {
		vendor.Email = *req.Email
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateVendor(vendor); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "vendors_name_key":
				h.badRequest(w, r, errors.New("供应商名称已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新供应商信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新供应商信息成功", vendor)
}

func (h *Handler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	vendor := r.Context().Value(VendorCtx).(*domain.Vendor)

	if err := h.repository.DeleteVendor(vendor.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除供应商成功", nil)
}

func (h *Handler) GetVendorProducts(w http.ResponseWriter, r *http.Request) {
	vendor := r.Context().Value(VendorCtx).(*domain.Vendor)

	products, err := h.repository.GetProductsByVendorID(vendor.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取供应商商品列表成功", products)
}
