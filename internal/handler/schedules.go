package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	"github.com/moshegoodman/zoozz2-sub000/internal/schedule"
)

// referenceLocation 所有日期键都按平台参考时区归一化
func (h *Handler) referenceLocation() (*time.Location, error) {
	return time.LoadLocation(h.config.Schedule.Timezone)
}

func (h *Handler) GetVendorSchedule(w http.ResponseWriter, r *http.Request) {
	vendor := r.Context().Value(VendorCtx).(*domain.Vendor)

	result := schedule.Load(vendor.DetailedSchedule)
	if result.Degraded {
		// 历史数据里存在非法形状，读出来当成空表，同时把降级情况暴露给前端
		slog.Warn("供应商时间表数据无法解析，按空表处理", "vendorID", vendor.ID, "error", result.Err)
	}

	h.successResponse(w, r, "获取供应商时间表成功", map[string]any{
		"schedule": result.Map,
		"degraded": result.Degraded,
	})
}

type calendarDay struct {
	Date      string            `json:"date"`
	InMonth   bool              `json:"inMonth"`
	Windows   []schedule.Window `json:"windows"`
	SlotCount int               `json:"slotCount"`
}

// GetVendorCalendar 按月返回整周对齐的日历网格，首尾会带上相邻月份的日期
func (h *Handler) GetVendorCalendar(w http.ResponseWriter, r *http.Request) {
	vendor := r.Context().Value(VendorCtx).(*domain.Vendor)

	loc, err := h.referenceLocation()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	monthParam := r.URL.Query().Get("month")
	var month time.Time
	if monthParam == "" {
		month = time.Now().In(loc)
	} else {
		month, err = time.ParseInLocation("2006-01", monthParam, loc)
		if err != nil {
			h.errorResponse(w, r, "月份格式无效，应为 YYYY-MM")
			return
		}
	}

	result := schedule.Load(vendor.DetailedSchedule)
	grid := schedule.MonthGrid(month, loc)

	days := make([]calendarDay, 0, len(grid))
	for _, date := range grid {
		days = append(days, calendarDay{
			Date:      schedule.DateKey(date, loc),
			InMonth:   date.Month() == month.Month(),
			Windows:   result.Map.Day(schedule.DateKey(date, loc)),
			SlotCount: result.Map.SlotCount(date, loc),
		})
	}

	h.successResponse(w, r, "获取供应商日历成功", map[string]any{
		"month":    month.Format("2006-01"),
		"days":     days,
		"degraded": result.Degraded,
	})
}

func (h *Handler) UpdateVendorScheduleDay(w http.ResponseWriter, r *http.Request) {
	vendor := r.Context().Value(VendorCtx).(*domain.Vendor)

	var req struct {
		Date    string            `json:"date" validate:"required"`
		Windows []schedule.Window `json:"windows"`
		// 前端当前展示的月份。编辑的是相邻月份的补位格子时，
		// 传播范围仍然按展示的月份网格算，不传则取所编辑日期所在的月份
		Month        string `json:"month"`
		ApplyWeekly  bool   `json:"applyWeekly"`
		ApplyMonthly bool   `json:"applyMonthly"`
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

	date, err := schedule.ParseDateKey(req.Date, loc)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效，应为 YYYY-MM-DD")
		return
	}

	result := schedule.Load(vendor.DetailedSchedule)
	if result.Degraded {
		slog.Warn("供应商时间表数据无法解析，本次保存会覆盖为合法数据", "vendorID", vendor.ID, "error", result.Err)
	}

	store := schedule.NewStore(vendor.ID, vendor.Version, result.Map, loc, h.repository)
	editor := schedule.OpenDayEditor(store, date)

	// 请求里的时间窗整组替换当天的草稿
	for range editor.Draft() {
		if err := editor.RemoveWindow(0); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}
	for _, window := range req.Windows {
		if err := editor.AddWindow(window.Start, window.End); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}
	editor.ApplyWeekly = req.ApplyWeekly
	editor.ApplyMonthly = req.ApplyMonthly

	gridMonth := date
	if req.Month != "" {
		gridMonth, err = time.ParseInLocation("2006-01", req.Month, loc)
		if err != nil {
			h.errorResponse(w, r, "月份格式无效，应为 YYYY-MM")
			return
		}
	}

	grid := schedule.MonthGrid(gridMonth, loc)
	if err := editor.Save(r.Context(), grid); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 别人先保存过了，版本号对不上
			h.errorResponse(w, r, "时间表已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "保存时间表成功", map[string]any{
		"schedule": store.Map(),
	})
}

// BroadcastSchedule 把一张模板时间表群发给指定的供应商，整批要么全成要么报失败。
// 失败的供应商只记录在服务端日志里，模板本身不落库。
func (h *Handler) BroadcastSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorIDs []int64                      `json:"vendorIDs" validate:"required,min=1"`
		Schedule  map[string][]schedule.Window `json:"schedule" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := schedule.ScheduleMap{}
	loc, err := h.referenceLocation()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	for key, windows := range req.Schedule {
		if _, err := schedule.ParseDateKey(key, loc); err != nil {
			h.errorResponse(w, r, "日期格式无效，应为 YYYY-MM-DD")
			return
		}
		for _, window := range windows {
			if err := schedule.ValidateWindow(window); err != nil {
				h.badRequest(w, r, err)
				return
			}
		}
		template = template.SetDay(key, windows)
	}

	if err := schedule.Broadcast(r.Context(), h.repository, req.VendorIDs, template); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBroadcastFailed):
			h.errorResponse(w, r, schedule.ErrBroadcastFailed.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "时间表已群发给所有供应商", nil)
}
