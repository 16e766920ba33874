package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFromFlags(t *testing.T) {
	assert.Equal(t, ScopeSingleDay, ScopeFromFlags(false, false))
	assert.Equal(t, ScopeSameWeekday, ScopeFromFlags(true, false))
	assert.Equal(t, ScopeWholeMonth, ScopeFromFlags(false, true))
	assert.Equal(t, ScopeSameWeekdayAndMonth, ScopeFromFlags(true, true))
}

func TestPropagateSingleDay(t *testing.T) {
	loc := jerusalem(t)
	grid := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc)
	origin := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	windows := []Window{{Start: "09:00", End: "12:00"}}

	m := Propagate(ScheduleMap{}, grid, origin, windows, ScopeSingleDay, loc)
	assert.Equal(t, ScheduleMap{"2024-03-10": windows}, m)
}

func TestPropagateSameWeekday(t *testing.T) {
	loc := jerusalem(t)
	grid := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc)

	// 2024-03-10 是周日
	origin := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	windows := []Window{{Start: "08:00", End: "11:00"}}

	existing := ScheduleMap{
		"2024-03-05": {{Start: "13:00", End: "15:00"}}, // 周二，不能被动到
	}

	m := Propagate(existing, grid, origin, windows, ScopeSameWeekday, loc)

	// 网格里的每一个周日都要被写到，包括属于二月补位行的 2024-02-25
	wantKeys := []string{"2024-02-25", "2024-03-03", "2024-03-10", "2024-03-17", "2024-03-24", "2024-03-31"}
	for _, key := range wantKeys {
		assert.Equal(t, windows, m[key], "日期 %s 应该被写入", key)
	}

	assert.Equal(t, []Window{{Start: "13:00", End: "15:00"}}, m["2024-03-05"])
	assert.Equal(t, len(wantKeys)+1, len(m))
}

func TestPropagateWholeMonth(t *testing.T) {
	loc := jerusalem(t)
	grid := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc)
	origin := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	windows := []Window{{Start: "10:00", End: "14:00"}}

	m := Propagate(ScheduleMap{}, grid, origin, windows, ScopeWholeMonth, loc)

	// 整月范围只覆盖 3 月的 31 天，二月和四月的补位日期都不能写
	assert.Equal(t, 31, len(m))
	_, exists := m["2024-02-25"]
	assert.False(t, exists, "相邻月份的补位日期不能被整月范围写到")
	_, exists = m["2024-04-01"]
	assert.False(t, exists)
	assert.Equal(t, windows, m["2024-03-01"])
	assert.Equal(t, windows, m["2024-03-31"])
}

func TestPropagateSameWeekdayAndMonth(t *testing.T) {
	loc := jerusalem(t)
	grid := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc)
	origin := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	windows := []Window{{Start: "09:00", End: "17:00"}}

	m := Propagate(ScheduleMap{}, grid, origin, windows, ScopeSameWeekdayAndMonth, loc)

	// 并集：3 月的全部 31 天，再加上二月补位行里的那个周日
	assert.Equal(t, 32, len(m))
	assert.Equal(t, windows, m["2024-02-25"])
	assert.Equal(t, windows, m["2024-03-15"])
	_, exists := m["2024-04-01"]
	assert.False(t, exists)
}

func TestPropagateEmptyWindowsClearsTargets(t *testing.T) {
	loc := jerusalem(t)
	grid := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc)
	origin := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)

	existing := ScheduleMap{
		"2024-03-03": {{Start: "09:00", End: "12:00"}},
		"2024-03-10": {{Start: "09:00", End: "12:00"}},
		"2024-03-11": {{Start: "09:00", End: "12:00"}}, // 周一，不在范围内
	}

	m := Propagate(existing, grid, origin, nil, ScopeSameWeekday, loc)

	// 空草稿传播等于把范围内的日期全部清掉
	require.Equal(t, 1, len(m))
	assert.Contains(t, m, "2024-03-11")
}

func TestPropagateIdempotent(t *testing.T) {
	loc := jerusalem(t)
	grid := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc)
	origin := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	windows := []Window{{Start: "09:00", End: "12:00"}}

	once := Propagate(ScheduleMap{}, grid, origin, windows, ScopeSameWeekdayAndMonth, loc)
	twice := Propagate(once, grid, origin, windows, ScopeSameWeekdayAndMonth, loc)
	assert.Equal(t, once, twice)
}
