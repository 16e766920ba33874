package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGridMarch2024(t *testing.T) {
	loc := jerusalem(t)

	grid := MonthGrid(time.Date(2024, 3, 15, 0, 0, 0, 0, loc), loc)
	require.NotEmpty(t, grid)

	// 2024-03-01 是周五，网格从包含它的那一周的周日 2024-02-25 开始；
	// 2024-03-31 是周日，网格到 2024-04-06 周六结束
	assert.Equal(t, "2024-02-25", DateKey(grid[0], loc))
	assert.Equal(t, "2024-04-06", DateKey(grid[len(grid)-1], loc))
	assert.Equal(t, 42, len(grid))
	assert.Equal(t, time.Sunday, grid[0].Weekday())
	assert.Equal(t, time.Saturday, grid[len(grid)-1].Weekday())

	var sundays []string
	for _, d := range grid {
		if d.Weekday() == time.Sunday {
			sundays = append(sundays, DateKey(d, loc))
		}
	}
	assert.Equal(t, []string{
		"2024-02-25", "2024-03-03", "2024-03-10", "2024-03-17", "2024-03-24", "2024-03-31",
	}, sundays)
}

func TestMonthGridFebruaryLeapYear(t *testing.T) {
	loc := jerusalem(t)

	grid := MonthGrid(time.Date(2024, 2, 1, 0, 0, 0, 0, loc), loc)

	// 2024-02-01 是周四，2024-02-29 也是周四
	assert.Equal(t, "2024-01-28", DateKey(grid[0], loc))
	assert.Equal(t, "2024-03-02", DateKey(grid[len(grid)-1], loc))
	assert.Equal(t, 35, len(grid))
}

func TestMonthGridStableAcrossDST(t *testing.T) {
	loc := jerusalem(t)

	// 以色列 2024 年 3 月 29 日进入夏令时，网格的日期序列不能因此跳日或重日
	grid := MonthGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc)
	seen := make(map[string]bool)
	prev := ""
	for _, d := range grid {
		key := DateKey(d, loc)
		assert.False(t, seen[key], "日期 %s 在网格中重复", key)
		seen[key] = true
		assert.Greater(t, key, prev)
		prev = key
	}
}

func TestSlotCount(t *testing.T) {
	loc := jerusalem(t)

	m := ScheduleMap{
		"2024-03-10": {{Start: "09:00", End: "12:00"}, {Start: "15:00", End: "18:00"}},
	}

	assert.Equal(t, 2, m.SlotCount(time.Date(2024, 3, 10, 12, 0, 0, 0, loc), loc))
	assert.Equal(t, 0, m.SlotCount(time.Date(2024, 3, 11, 12, 0, 0, 0, loc), loc))
}
