package handler

import (
	"net/http"
	"time"
)

// GetBillingReport 按月汇总每个供应商已送达订单的应付金额
func (h *Handler) GetBillingReport(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		loc, err := h.referenceLocation()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		month = time.Now().In(loc).Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		h.errorResponse(w, r, "月份格式无效，应为 YYYY-MM")
		return
	}

	report, err := h.repository.GetBillingReport(month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取对账报表成功", map[string]any{
		"month":   month,
		"vendors": report,
	})
}

// GetPayrollReport 按家庭列出在岗员工的月度工资。
// 工资按每周工时折算成月薪，每个月都一样，month 只用于标注报表属于哪个月
func (h *Handler) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		loc, err := h.referenceLocation()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		month = time.Now().In(loc).Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		h.errorResponse(w, r, "月份格式无效，应为 YYYY-MM")
		return
	}

	report, err := h.repository.GetPayrollReport()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工资报表成功", map[string]any{
		"month": month,
		"staff": report,
	})
}
