// Package schedule 实现供应商配送时间表的核心逻辑：
// 按日期保存配送时间窗、按 单日/每周同星期/整月 三种范围批量传播、
// 以及把整张表作为一个 JSON 块读写供应商记录。
package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	_ "time/tzdata" // 部署容器内可能没有系统时区数据库
)

// Window 一个配送时间窗，"HH:MM" 格式。
// 界面上以 30 分钟为粒度，但历史数据中存在任意分钟数，读取时必须全部接受。
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleMap 日期键（参考时区下的 YYYY-MM-DD）到当天时间窗列表的映射。
// 稀疏表示：某个日期键存在当且仅当当天的时间窗列表非空，
// 键不存在表示"当天没有配送窗口"，而不是"未设置"。
type ScheduleMap map[string][]Window

const dateKeyLayout = "2006-01-02"

// DateKey 把任意时刻归一化成参考时区下的日期键。
// 所有写入 ScheduleMap 的键都必须经过这里，否则同一个逻辑日期会被拆成两个键。
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateKeyLayout)
}

// ParseDateKey 把日期键解析成参考时区当天零点的时刻
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式错误：%s", key)
	}
	return t, nil
}

// ValidateWindow 校验单个时间窗：开始时间必须严格早于结束时间。
// 同一天内时间窗之间的重叠和重复不校验也不合并，入库什么样读出来就是什么样。
func ValidateWindow(w Window) error {
	startTime, err := time.Parse("15:04", w.Start)
	if err != nil {
		return fmt.Errorf("开始时间格式错误：%s", w.Start)
	}
	endTime, err := time.Parse("15:04", w.End)
	if err != nil {
		return fmt.Errorf("结束时间格式错误：%s", w.End)
	}
	if !endTime.After(startTime) {
		return fmt.Errorf("结束时间必须晚于开始时间：%s-%s", w.Start, w.End)
	}
	return nil
}

// SetDay 纯函数：返回设置了某一天时间窗的新映射，原映射不变。
// 传入空列表时删除这个日期键。所有传播操作最终都落到这个原语上。
func (m ScheduleMap) SetDay(key string, windows []Window) ScheduleMap {
	next := make(ScheduleMap, len(m)+1)
	for k, v := range m {
		next[k] = v
	}

	if len(windows) == 0 {
		delete(next, key)
		return next
	}

	next[key] = append([]Window(nil), windows...)
	return next
}

// Day 查某一天的时间窗，键不存在时返回空列表
func (m ScheduleMap) Day(key string) []Window {
	return append([]Window(nil), m[key]...)
}

// Encode 序列化成持久化用的 JSON 块，就是普通的 JSON 对象，没有任何有损变换
func (m ScheduleMap) Encode() (json.RawMessage, error) {
	if m == nil {
		m = ScheduleMap{}
	}
	return json.Marshal(m)
}

// LoadResult 宽容解析的结果。历史数据里 detailed_schedule 可能是
// 空值、对象、或者包了一层 JSON 的字符串，甚至完全非法的形状。
// 解析失败时退回空表，但通过 Degraded/Err 让调用方知道发生了降级，
// 读取路径在任何输入下都不允许失败。
type LoadResult struct {
	Map      ScheduleMap
	Degraded bool
	Err      error
}

// Load 从供应商记录上的 JSON 块解析出 ScheduleMap
func Load(raw json.RawMessage) LoadResult {
	if len(raw) == 0 || string(raw) == "null" {
		return LoadResult{Map: ScheduleMap{}}
	}

	m := ScheduleMap{}
	if err := json.Unmarshal(raw, &m); err == nil {
		return LoadResult{Map: m}
	}

	// 有些老数据把整个对象序列化了两次，变成了一个 JSON 字符串
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		inner := ScheduleMap{}
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			return LoadResult{Map: inner}
		}
		return LoadResult{Map: ScheduleMap{}, Degraded: true, Err: fmt.Errorf("字符串内不是合法的时间表对象：%q", s)}
	}

	return LoadResult{Map: ScheduleMap{}, Degraded: true, Err: fmt.Errorf("时间表不是合法的 JSON 对象：%s", truncate(string(raw), 64))}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
