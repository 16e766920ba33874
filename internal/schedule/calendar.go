package schedule

import "time"

// MonthGrid 生成某个月的日历网格：从包含 1 号的那一周的周日开始，
// 到包含月末最后一天的那一周的周六结束，固定 7 列。
// 网格里会带上相邻月份的补位日期，传播时按范围规则决定是否包含它们。
func MonthGrid(month time.Time, loc *time.Location) []time.Time {
	month = month.In(loc)
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	// 周日是每周的第一天
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var grid []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		grid = append(grid, d)
	}

	return grid
}

// SlotCount 某一天的时间窗数量，日历格子上的角标用
func (m ScheduleMap) SlotCount(date time.Time, loc *time.Location) int {
	return len(m[DateKey(date, loc)])
}
