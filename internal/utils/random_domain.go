package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	"github.com/moshegoodman/zoozz2-sub000/internal/schedule"
)

var vendorNamePrefixes = []string{"鲜达", "绿源", "康福", "优选", "顺丰达", "家乐", "惠民", "津香"}
var vendorNameSuffixes = []string{"生鲜", "超市", "食品", "果蔬", "百货", "便利"}

func GenerateRandomVendor() *domain.Vendor {
	contact := GenerateRandomChineseName()
	name := vendorNamePrefixes[rand.Intn(len(vendorNamePrefixes))] +
		vendorNameSuffixes[rand.Intn(len(vendorNameSuffixes))] +
		fmt.Sprintf("%02d", rand.Intn(100))

	return &domain.Vendor{
		Name:    name,
		Contact: contact,
		Phone:   GenerateRandomPhone(),
		Email:   GenerateUsernameFromChineseName(contact) + "@example.com",
	}
}

func GenerateRandomPhone() string {
	phone := "05"
	for i := 0; i < 8; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
}

var windowPresets = [][]schedule.Window{
	{{Start: "08:00", End: "12:00"}},
	{{Start: "09:00", End: "13:00"}, {Start: "16:00", End: "20:00"}},
	{{Start: "10:00", End: "14:00"}},
	{{Start: "14:00", End: "18:00"}, {Start: "19:00", End: "22:00"}},
}

// GenerateRandomScheduleMap 给某个月随机挑几个星期几作为配送日，
// 每个配送日套用一组预设时间窗
func GenerateRandomScheduleMap(month time.Time, loc *time.Location) schedule.ScheduleMap {
	m := schedule.ScheduleMap{}
	grid := schedule.MonthGrid(month, loc)

	weekdayCount := rand.Intn(3) + 2
	weekdays := rand.Perm(7)[:weekdayCount]

	for _, weekday := range weekdays {
		windows := windowPresets[rand.Intn(len(windowPresets))]
		for _, date := range grid {
			if date.Month() != month.Month() {
				continue
			}
			if int(date.Weekday()) != weekday {
				continue
			}
			m = m.SetDay(schedule.DateKey(date, loc), windows)
		}
	}

	return m
}

var householdSurnameSuffix = []string{"家", "公馆", "宅"}
var streets = []string{"和平路", "中山街", "光明巷", "滨海大道", "学府路", "建设街"}

func GenerateRandomHousehold() *domain.Household {
	contact := GenerateRandomChineseName()
	return &domain.Household{
		Name:        string([]rune(contact)[0:1]) + householdSurnameSuffix[rand.Intn(len(householdSurnameSuffix))],
		Address:     fmt.Sprintf("%s%d号%d室", streets[rand.Intn(len(streets))], rand.Intn(200)+1, rand.Intn(50)+1),
		ContactName: contact,
		Phone:       GenerateRandomPhone(),
	}
}

var positions = []string{"保姆", "保洁", "厨师", "司机", "护理员"}

func GenerateRandomStaff() *domain.Staff {
	return &domain.Staff{
		FullName:    GenerateRandomChineseName(),
		Phone:       GenerateRandomPhone(),
		Position:    positions[rand.Intn(len(positions))],
		HourlyRate:  float64(rand.Intn(60)+40) + 0.5*float64(rand.Intn(2)),
		WeeklyHours: int32(rand.Intn(35) + 10),
	}
}

var productNames = []string{"西红柿", "黄瓜", "鸡蛋", "牛奶", "面包", "大米", "苹果", "香蕉", "鸡胸肉", "三文鱼", "橄榄油", "酸奶"}
var productUnits = []string{"个", "公斤", "盒", "袋", "瓶"}
var productCategories = []string{"蔬菜", "水果", "肉类", "乳制品", "粮油"}

func GenerateRandomProduct(vendorID int64) *domain.Product {
	product := &domain.Product{
		VendorID:    vendorID,
		SKU:         GenerateRandomID(3, 5),
		Name:        productNames[rand.Intn(len(productNames))],
		Category:    productCategories[rand.Intn(len(productCategories))],
		Unit:        productUnits[rand.Intn(len(productUnits))],
		Price:       float64(rand.Intn(95)+5) + 0.9,
		IsAvailable: true,
	}

	// 大约三分之一的商品在促销
	if rand.Intn(3) == 0 {
		salePrice := product.Price * 0.8
		product.SalePrice = &salePrice
	}

	return product
}
