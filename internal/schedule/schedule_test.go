package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jerusalem(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jerusalem")
	require.NoError(t, err)
	return loc
}

func TestValidateWindow(t *testing.T) {
	tests := []struct {
		name    string
		window  Window
		wantErr bool
	}{
		{"正常时间窗", Window{Start: "09:00", End: "12:00"}, false},
		{"非整半点的分钟数也要接受", Window{Start: "09:17", End: "10:43"}, false},
		{"开始晚于结束", Window{Start: "10:00", End: "09:00"}, true},
		{"开始等于结束", Window{Start: "10:00", End: "10:00"}, true},
		{"开始时间格式非法", Window{Start: "9am", End: "12:00"}, true},
		{"结束时间格式非法", Window{Start: "09:00", End: "25:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindow(tt.window)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetDaySparseInvariant(t *testing.T) {
	m := ScheduleMap{}

	m2 := m.SetDay("2024-03-10", []Window{{Start: "09:00", End: "12:00"}})
	assert.Equal(t, ScheduleMap{"2024-03-10": {{Start: "09:00", End: "12:00"}}}, m2)
	assert.Empty(t, m, "SetDay 不应该修改原映射")

	// 设置空列表必须删除这个键，而不是留一个空值
	m3 := m2.SetDay("2024-03-10", []Window{})
	assert.Equal(t, ScheduleMap{}, m3)
	_, exists := m3["2024-03-10"]
	assert.False(t, exists)

	m4 := m2.SetDay("2024-03-10", nil)
	assert.Equal(t, ScheduleMap{}, m4)
}

func TestSetDayIdempotent(t *testing.T) {
	windows := []Window{{Start: "08:00", End: "10:00"}, {Start: "16:00", End: "19:00"}}

	once := ScheduleMap{}.SetDay("2024-05-01", windows)
	twice := once.SetDay("2024-05-01", windows)
	assert.Equal(t, once, twice)
}

func TestSetDayCopiesWindows(t *testing.T) {
	windows := []Window{{Start: "09:00", End: "12:00"}}
	m := ScheduleMap{}.SetDay("2024-03-10", windows)

	windows[0].Start = "23:00"
	assert.Equal(t, "09:00", m["2024-03-10"][0].Start)
}

func TestLoadRoundTrip(t *testing.T) {
	m := ScheduleMap{
		"2024-03-10": {{Start: "09:00", End: "12:00"}, {Start: "14:00", End: "18:30"}},
		"2024-03-11": {{Start: "07:15", End: "09:45"}},
	}

	raw, err := m.Encode()
	require.NoError(t, err)

	result := Load(raw)
	assert.False(t, result.Degraded)
	assert.NoError(t, result.Err)
	assert.Equal(t, m, result.Map)
}

func TestLoadLenient(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     ScheduleMap
		degraded bool
	}{
		{"空输入", "", ScheduleMap{}, false},
		{"null", "null", ScheduleMap{}, false},
		{"空对象", "{}", ScheduleMap{}, false},
		{
			"正常对象",
			`{"2024-03-10":[{"start":"09:00","end":"12:00"}]}`,
			ScheduleMap{"2024-03-10": {{Start: "09:00", End: "12:00"}}},
			false,
		},
		{
			"序列化了两次的字符串",
			`"{\"2024-03-10\":[{\"start\":\"09:00\",\"end\":\"12:00\"}]}"`,
			ScheduleMap{"2024-03-10": {{Start: "09:00", End: "12:00"}}},
			false,
		},
		{"字符串里不是对象", `"hello"`, ScheduleMap{}, true},
		{"数组不是合法形状", `[1,2,3]`, ScheduleMap{}, true},
		{"完全不是 JSON", `{{{`, ScheduleMap{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Load(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, result.Map)
			assert.Equal(t, tt.degraded, result.Degraded)
			if tt.degraded {
				// 降级必须是可观测的，不允许静默吞掉原始错误
				assert.Error(t, result.Err)
			}
		})
	}
}

func TestDateKeyNormalization(t *testing.T) {
	loc := jerusalem(t)

	// 同一个日历日的 23:59 和 00:01 必须归一化成同一个键
	lateNight := time.Date(2024, 3, 10, 23, 59, 0, 0, loc)
	earlyMorning := time.Date(2024, 3, 10, 0, 1, 0, 0, loc)
	assert.Equal(t, "2024-03-10", DateKey(lateNight, loc))
	assert.Equal(t, DateKey(lateNight, loc), DateKey(earlyMorning, loc))

	// UTC 时刻 2024-03-09 22:01 在参考时区已经是 3 月 10 日
	utcInstant := time.Date(2024, 3, 9, 22, 1, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", DateKey(utcInstant, loc))

	// 浏览器时区在参考时区以西时，本地深夜还停留在前一天
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	browserLate := time.Date(2024, 3, 10, 23, 59, 0, 0, newYork)
	assert.Equal(t, "2024-03-11", DateKey(browserLate, loc))
}

func TestParseDateKey(t *testing.T) {
	loc := jerusalem(t)

	d, err := ParseDateKey("2024-03-10", loc)
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.Day())
	assert.Equal(t, loc, d.Location())

	_, err = ParseDateKey("10/03/2024", loc)
	assert.Error(t, err)
}
