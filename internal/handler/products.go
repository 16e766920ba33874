package handler

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorID  int64    `json:"vendorID" validate:"required"`
		SKU       string   `json:"sku" validate:"required"`
		Name      string   `json:"name" validate:"required"`
		Category  string   `json:"category"`
		Unit      string   `json:"unit"`
		Price     float64  `json:"price" validate:"required,gt=0"`
		SalePrice *float64 `json:"salePrice" validate:"omitempty,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	product := &domain.Product{
		VendorID:    req.VendorID,
		SKU:         req.SKU,
		Name:        req.Name,
		Category:    req.Category,
		Unit:        req.Unit,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		IsAvailable: true,
	}

	if err := h.repository.CreateProduct(product); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "products_vendor_id_sku_key":
				h.badRequest(w, r, errors.New("该供应商下已存在相同货号的商品"))
			case pgErr.ConstraintName == "products_vendor_id_fkey":
				h.badRequest(w, r, errors.New("供应商不存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "商品创建成功", product)
}

func (h *Handler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repository.GetAllProducts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取商品列表成功", products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product := r.Context().Value(ProductCtx).(*domain.Product)
	h.successResponse(w, r, "获取商品信息成功", product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string  `json:"name"`
		Category    *string  `json:"category"`
		Unit        *string  `json:"unit"`
		Price       *float64 `json:"price" validate:"omitempty,gt=0"`
		SalePrice   *float64 `json:"salePrice" validate:"omitempty,gt=0"`
		ClearSale   bool     `json:"clearSale"`
		IsAvailable *bool    `json:"isAvailable"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	product := r.Context().Value(ProductCtx).(*domain.Product)

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.SalePrice != nil {
		product.SalePrice = req.SalePrice
	}
	// 促销价没法用 null 区分「不改」和「取消促销」，所以单独一个开关
	if req.ClearSale {
		product.SalePrice = nil
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := h.repository.UpdateProduct(product); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新商品信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新商品信息成功", product)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product := r.Context().Value(ProductCtx).(*domain.Product)

	if err := h.repository.DeleteProduct(product.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除商品成功", nil)
}

// NormalizeCSVHeader 把表头列名统一成小写下划线形式，容忍空格和大小写差异
func NormalizeCSVHeader(header []string) []string {
	normalized := make([]string, len(header))
	for i, column := range header {
		column = strings.TrimSpace(strings.ToLower(column))
		column = strings.ReplaceAll(column, " ", "_")
		column = strings.ReplaceAll(column, "-", "_")
		normalized[i] = column
	}
	return normalized
}

// ImportProducts 按 CSV 批量导入某个供应商的商品，货号相同则更新。
// 格式不对的行直接跳过，最后汇报新增、更新和跳过的数量。
func (h *Handler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		h.badRequest(w, r, errors.New("请求不是合法的 multipart 表单"))
		return
	}

	vendorID, err := strconv.ParseInt(r.FormValue("vendorID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "供应商ID无效")
		return
	}
	if _, err := h.repository.GetVendorByID(vendorID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "供应商不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, r, errors.New("缺少 CSV 文件"))
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		h.badRequest(w, r, errors.New("CSV 文件为空或表头无法读取"))
		return
	}

	columns := map[string]int{}
	for i, column := range NormalizeCSVHeader(header) {
		columns[column] = i
	}
	for _, required := range []string{"sku", "name", "price"} {
		if _, ok := columns[required]; !ok {
			h.errorResponse(w, r, "CSV 表头缺少必需列："+required)
			return
		}
	}

	field := func(record []string, name string) string {
		index, ok := columns[name]
		if !ok || index >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[index])
	}

	type rowError struct {
		Row    int    `json:"row"`
		Reason string `json:"reason"`
	}

	products := make([]*domain.Product, 0)
	rowErrors := make([]rowError, 0)
	row := 1 // 表头占第 1 行
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrors = append(rowErrors, rowError{Row: row, Reason: "行无法解析"})
			continue
		}

		sku := field(record, "sku")
		name := field(record, "name")
		price, priceErr := strconv.ParseFloat(field(record, "price"), 64)
		switch {
		case sku == "":
			rowErrors = append(rowErrors, rowError{Row: row, Reason: "缺少货号"})
			continue
		case name == "":
			rowErrors = append(rowErrors, rowError{Row: row, Reason: "缺少商品名"})
			continue
		case priceErr != nil || price <= 0:
			rowErrors = append(rowErrors, rowError{Row: row, Reason: "价格非法"})
			continue
		}

		product := &domain.Product{
			VendorID:    vendorID,
			SKU:         sku,
			Name:        name,
			Category:    field(record, "category"),
			Unit:        field(record, "unit"),
			Price:       price,
			IsAvailable: true,
		}
		if raw := field(record, "sale_price"); raw != "" {
			if salePrice, err := strconv.ParseFloat(raw, 64); err == nil && salePrice > 0 {
				product.SalePrice = &salePrice
			}
		}
		products = append(products, product)
	}

	created, updated, err := h.repository.UpsertProductsBySKU(vendorID, products)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "商品导入完成", map[string]any{
		"created": created,
		"updated": updated,
		"skipped": len(rowErrors),
		"errors":  rowErrors,
	})
}
