package schedule

import "time"

// Scope 一次保存的传播范围。
// 界面上"每周"和"整月"是两个独立的勾选框，这里把四种组合显式列出来，
// 不让两个布尔值同时为真时的行为成为隐式结果。
type Scope int

const (
	// ScopeSingleDay 只写当天
	ScopeSingleDay Scope = iota
	// ScopeSameWeekday 写网格里所有与当天同星期的日期，包括相邻月份的补位日期
	ScopeSameWeekday
	// ScopeWholeMonth 写网格里所有属于当天所在月份的日期，补位日期不写
	ScopeWholeMonth
	// ScopeSameWeekdayAndMonth 前两者的并集
	ScopeSameWeekdayAndMonth
)

// ScopeFromFlags 由两个勾选框换算出传播范围
func ScopeFromFlags(applyWeekly, applyMonthly bool) Scope {
	switch {
	case applyWeekly && applyMonthly:
		return ScopeSameWeekdayAndMonth
	case applyWeekly:
		return ScopeSameWeekday
	case applyMonthly:
		return ScopeWholeMonth
	default:
		return ScopeSingleDay
	}
}

// TargetDates 算出一次传播要写入的所有日期。
// 同星期范围不限制月份：周日的模板要应用到网格里可见的每一个周日，
// 哪怕它属于相邻月份的补位行；整月范围则严格限制在当月之内。
func TargetDates(grid []time.Time, origin time.Time, scope Scope, loc *time.Location) []time.Time {
	origin = origin.In(loc)

	if scope == ScopeSingleDay {
		return []time.Time{origin}
	}

	sameWeekday := scope == ScopeSameWeekday || scope == ScopeSameWeekdayAndMonth
	wholeMonth := scope == ScopeWholeMonth || scope == ScopeSameWeekdayAndMonth

	var targets []time.Time
	seen := make(map[string]bool)
	for _, d := range grid {
		d = d.In(loc)
		match := false
		if sameWeekday && d.Weekday() == origin.Weekday() {
			match = true
		}
		if wholeMonth && d.Year() == origin.Year() && d.Month() == origin.Month() {
			match = true
		}
		if !match {
			continue
		}

		key := DateKey(d, loc)
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, d)
	}

	// 原始日期不在网格里时也必须被写入
	originKey := DateKey(origin, loc)
	if !seen[originKey] {
		targets = append(targets, origin)
	}

	return targets
}

// Propagate 把一天的时间窗按范围应用到网格上，返回新映射。
// 对每个目标日期做的都是同一个 SetDay，所以重复应用是幂等的。
func Propagate(m ScheduleMap, grid []time.Time, origin time.Time, windows []Window, scope Scope, loc *time.Location) ScheduleMap {
	next := m
	for _, d := range TargetDates(grid, origin, scope, loc) {
		next = next.SetDay(DateKey(d, loc), windows)
	}
	return next
}
