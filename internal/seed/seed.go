package seed

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/moshegoodman/zoozz2-sub000/internal/config"
	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	"github.com/moshegoodman/zoozz2-sub000/internal/repository"
	"github.com/moshegoodman/zoozz2-sub000/internal/schedule"
	"github.com/moshegoodman/zoozz2-sub000/internal/utils"
)

// SeedDemoData 插入一套互相关联的演示数据：
// 供应商（带本月时间表）、商品、家庭、派驻员工和几笔订单
func SeedDemoData(cfg *config.Config, r *repository.Repository) {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		slog.Error("无法加载参考时区", "error", err)
		return
	}
	month := time.Now().In(loc)

	// 供应商和商品
	vendors := make([]*domain.Vendor, 0)
	for i := 0; i < 4; i++ {
		vendor := utils.GenerateRandomVendor()
		if err := r.CreateVendor(vendor); err != nil {
			slog.Error("插入供应商失败", "error", err)
			continue
		}

		m := utils.GenerateRandomScheduleMap(month, loc)
		if err := r.ReplaceVendorSchedule(context.Background(), vendor.ID, m); err != nil {
			slog.Error("写入供应商时间表失败", "error", err)
			continue
		}

		for j := 0; j < 8; j++ {
			product := utils.GenerateRandomProduct(vendor.ID)
			if err := r.CreateProduct(product); err != nil {
				slog.Error("插入商品失败", "error", err)
			}
		}

		vendors = append(vendors, vendor)
	}

	// 家庭和员工
	households := make([]*domain.Household, 0)
	for i := 0; i < 5; i++ {
		household := utils.GenerateRandomHousehold()
		if err := r.CreateHousehold(household); err != nil {
			slog.Error("插入家庭失败", "error", err)
			continue
		}
		households = append(households, household)

		for j := 0; j < rand.Intn(2)+1; j++ {
			staff := utils.GenerateRandomStaff()
			staff.HouseholdID = &household.ID
			if err := r.CreateStaff(staff); err != nil {
				slog.Error("插入员工失败", "error", err)
			}
		}
	}

	if len(vendors) == 0 || len(households) == 0 {
		slog.Error("没有可用的供应商或家庭，跳过订单")
		return
	}

	// 订单：配送日从供应商时间表里真实存在的配送日里挑
	orderCount := 0
	for i := 0; i < 10; i++ {
		vendor := vendors[rand.Intn(len(vendors))]
		household := households[rand.Intn(len(households))]

		fresh, err := r.GetVendorByID(vendor.ID)
		if err != nil {
			slog.Error("获取供应商失败", "error", err)
			continue
		}
		result := schedule.Load(fresh.DetailedSchedule)
		keys := make([]string, 0, len(result.Map))
		for key := range result.Map {
			keys = append(keys, key)
		}
		if len(keys) == 0 {
			continue
		}

		products, err := r.GetProductsByVendorID(vendor.ID)
		if err != nil || len(products) == 0 {
			continue
		}

		order := &domain.Order{
			Number:       uuid.NewString(),
			HouseholdID:  household.ID,
			VendorID:     vendor.ID,
			Status:       domain.OrderStatusPending,
			DeliveryDate: keys[rand.Intn(len(keys))],
		}
		for j := 0; j < rand.Intn(3)+1; j++ {
			product := products[rand.Intn(len(products))]
			order.Items = append(order.Items, domain.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  float64(rand.Intn(5) + 1),
				UnitPrice: product.EffectivePrice(),
			})
		}
		order.RecalculateTotal()

		if err := r.CreateOrder(order); err != nil {
			slog.Error("插入订单失败", "error", err)
			continue
		}
		orderCount++
	}

	slog.Info("演示数据插入完成",
		"vendors", len(vendors),
		"households", len(households),
		"orders", orderCount,
	)
}

// SeedStaffRoster 从花名册 CSV 批量导入员工。
// 表头要求：姓名、电话、岗位、时薪、每周工时
func SeedStaffRoster(r *repository.Repository, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	columns := map[string]int{}
	for i, header := range headers {
		columns[header] = i
	}
	for _, required := range []string{"姓名", "电话", "岗位", "时薪", "每周工时"} {
		if _, ok := columns[required]; !ok {
			slog.Error("表头缺少必需列", "column", required)
			return
		}
	}

	cnt := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Error("读取文件失败", "error", err)
			return
		}

		hourlyRate, err := strconv.ParseFloat(record[columns["时薪"]], 64)
		if err != nil {
			slog.Error("时薪非法", "record", record)
			continue
		}
		weeklyHours, err := strconv.Atoi(record[columns["每周工时"]])
		if err != nil {
			slog.Error("每周工时非法", "record", record)
			continue
		}

		staff := &domain.Staff{
			FullName:    record[columns["姓名"]],
			Phone:       record[columns["电话"]],
			Position:    record[columns["岗位"]],
			HourlyRate:  hourlyRate,
			WeeklyHours: int32(weeklyHours),
		}

		if err := r.CreateStaff(staff); err != nil {
			slog.Error("插入员工失败", "error", err)
			continue
		}
		cnt++
	}

	slog.Info("花名册导入完成", "count", cnt)
}
