package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	"github.com/moshegoodman/zoozz2-sub000/internal/repository"
	"github.com/moshegoodman/zoozz2-sub000/internal/schedule"
	"github.com/moshegoodman/zoozz2-sub000/internal/utils"
)

// CreateOrder 快速下单：客户端只报商品和数量，单价一律按服务端当前定价
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HouseholdID  int64  `json:"householdID" validate:"required"`
		VendorID     int64  `json:"vendorID" validate:"required"`
		DeliveryDate string `json:"deliveryDate" validate:"required"`
		Notes        string `json:"notes"`
		Items        []struct {
			ProductID int64   `json:"productID" validate:"required"`
			Quantity  float64 `json:"quantity" validate:"required,gt=0"`
		} `json:"items" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	loc, err := h.referenceLocation()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if _, err := schedule.ParseDateKey(req.DeliveryDate, loc); err != nil {
		h.errorResponse(w, r, "配送日期格式无效，应为 YYYY-MM-DD")
		return
	}

	if _, err := h.repository.GetHouseholdByID(req.HouseholdID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "家庭不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	vendor, err := h.repository.GetVendorByID(req.VendorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "供应商不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 配送日必须落在供应商开放的配送日上
	result := schedule.Load(vendor.DetailedSchedule)
	if len(result.Map.Day(req.DeliveryDate)) == 0 {
		h.errorResponse(w, r, "该供应商在所选日期不提供配送")
		return
	}

	order := &domain.Order{
		Number:       uuid.NewString(),
		HouseholdID:  req.HouseholdID,
		VendorID:     req.VendorID,
		Status:       domain.OrderStatusPending,
		DeliveryDate: req.DeliveryDate,
		Notes:        req.Notes,
	}

	for _, reqItem := range req.Items {
		product, err := h.repository.GetProductByID(reqItem.ProductID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "商品不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if product.VendorID != req.VendorID {
			h.errorResponse(w, r, "商品不属于所选供应商")
			return
		}
		if !product.IsAvailable {
			h.errorResponse(w, r, "商品已下架："+product.Name)
			return
		}

		order.Items = append(order.Items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  reqItem.Quantity,
			UnitPrice: product.EffectivePrice(),
		})
	}

	order.RecalculateTotal()

	if err := h.repository.CreateOrder(order); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "订单创建成功", order)
}

func (h *Handler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	var filter repository.OrderFilter

	query := r.URL.Query()
	if raw := query.Get("householdID"); raw != "" {
		householdID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "家庭ID无效")
			return
		}
		filter.HouseholdID = &householdID
	}
	if raw := query.Get("vendorID"); raw != "" {
		vendorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "供应商ID无效")
			return
		}
		filter.VendorID = &vendorID
	}
	if raw := query.Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		filter.Status = &status
	}
	if raw := query.Get("deliveryDate"); raw != "" {
		filter.DeliveryDate = &raw
	}

	orders, err := h.repository.GetAllOrders(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取订单列表成功", orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order := r.Context().Value(OrderCtx).(*domain.Order)
	h.successResponse(w, r, "获取订单信息成功", order)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=待处理 已确认 配送中 已送达 已取消"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	order := r.Context().Value(OrderCtx).(*domain.Order)

	if err := utils.ValidateOrderStatusTransition(order.Status, domain.OrderStatus(req.Status)); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	order.Status = domain.OrderStatus(req.Status)

	if err := h.repository.UpdateOrderStatus(order); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "订单已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新订单状态成功", order)
}

// UpdateOrderItems 整组替换订单项并按服务端定价重算金额
func (h *Handler) UpdateOrderItems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []struct {
			ProductID int64   `json:"productID" validate:"required"`
			Quantity  float64 `json:"quantity" validate:"required,gt=0"`
		} `json:"items" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	order := r.Context().Value(OrderCtx).(*domain.Order)

	if err := utils.ValidateOrderItemsEditable(order.Status); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, err := h.repository.GetProductByID(reqItem.ProductID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "商品不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if product.VendorID != order.VendorID {
			h.errorResponse(w, r, "商品不属于订单的供应商")
			return
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  reqItem.Quantity,
			UnitPrice: product.EffectivePrice(),
		})
	}

	order.Items = items
	order.RecalculateTotal()

	if err := h.repository.ReplaceOrderItems(order); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "订单已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新订单项成功", order)
}

// SubstituteOrderItem 缺货换货：把某个订单项换成同供应商的另一个商品，
// 保留原商品的引用用于对账，单价按替换商品当前定价
func (h *Handler) SubstituteOrderItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64  `json:"productID" validate:"required"`
		Note      string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	order := r.Context().Value(OrderCtx).(*domain.Order)

	if err := utils.ValidateOrderItemsEditable(order.Status); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	itemIDParam := chi.URLParam(r, "itemID")
	itemID, err := strconv.ParseInt(itemIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "订单项ID无效")
		return
	}

	var item *domain.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		h.errorResponse(w, r, "订单项不存在")
		return
	}

	substitute, err := h.repository.GetProductByID(req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "替换商品不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if substitute.VendorID != order.VendorID {
		h.errorResponse(w, r, "替换商品不属于订单的供应商")
		return
	}
	if !substitute.IsAvailable {
		h.errorResponse(w, r, "替换商品已下架")
		return
	}

	item.Substitute(substitute, req.Note)
	order.RecalculateTotal()

	if err := h.repository.ReplaceOrderItems(order); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "订单已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "换货成功", order)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	order := r.Context().Value(OrderCtx).(*domain.Order)

	if err := h.repository.DeleteOrder(order.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除订单成功", nil)
}
