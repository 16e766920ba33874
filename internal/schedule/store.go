package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Persister 持久化侧的最小契约。单供应商保存走带版本号的整表替换，
// 版本不匹配时返回冲突错误；模板广播走无条件替换。
type Persister interface {
	// UpdateVendorSchedule 带乐观并发检查的整表替换，返回新版本号
	UpdateVendorSchedule(ctx context.Context, vendorID int64, version int32, m ScheduleMap) (int32, error)
	// ReplaceVendorSchedule 无条件整表替换，模板广播专用
	ReplaceVendorSchedule(ctx context.Context, vendorID int64, m ScheduleMap) error
}

// Store 持有一个供应商的整张时间表和它的版本号。
// 没有字段级更新原语，每次保存都重写整张表。
type Store struct {
	vendorID  int64
	version   int32
	loc       *time.Location
	m         ScheduleMap
	persister Persister
}

func NewStore(vendorID int64, version int32, m ScheduleMap, loc *time.Location, persister Persister) *Store {
	if m == nil {
		m = ScheduleMap{}
	}
	return &Store{
		vendorID:  vendorID,
		version:   version,
		loc:       loc,
		m:         m,
		persister: persister,
	}
}

func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) Map() ScheduleMap {
	return s.m
}

// Day 查某一天的时间窗
func (s *Store) Day(date time.Time) []Window {
	return s.m.Day(DateKey(date, s.loc))
}

// Apply 把一天的草稿按范围传播到整张表上，只改内存，不落库
func (s *Store) Apply(grid []time.Time, origin time.Time, windows []Window, scope Scope) {
	s.m = Propagate(s.m, grid, origin, windows, scope, s.loc)
}

// Commit 把当前整张表写回供应商记录。
// 版本冲突等持久化错误原样返回，内存里的表保持不变，调用方可以重试。
func (s *Store) Commit(ctx context.Context) error {
	version, err := s.persister.UpdateVendorSchedule(ctx, s.vendorID, s.version, s.m)
	if err != nil {
		return err
	}
	s.version = version
	return nil
}

// Broadcast 模板模式：把一张临时组好的时间表并发地广播给 N 个供应商，
// 每个供应商一次独立的整表替换，互相之间没有顺序保证。
// 任意一个失败则整批报一次失败，失败的供应商只在服务端日志里能看到；
// 调用方没有部分成功的回执，广播完成后模板即被丢弃。
func Broadcast(ctx context.Context, persister Persister, vendorIDs []int64, m ScheduleMap) error {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		failed  []int64
		lastErr error
	)

	for _, vendorID := range vendorIDs {
		wg.Add(1)
		go func(vendorID int64) {
			defer wg.Done()
			if err := persister.ReplaceVendorSchedule(ctx, vendorID, m); err != nil {
				slog.Error("广播时间表到供应商失败", "vendorID", vendorID, "error", err)
				mu.Lock()
				failed = append(failed, vendorID)
				lastErr = err
				mu.Unlock()
			}
		}(vendorID)
	}

	wg.Wait()

	if len(failed) > 0 {
		return errors.Join(ErrBroadcastFailed, lastErr)
	}
	return nil
}

// ErrBroadcastFailed 批量广播中至少有一个供应商更新失败
var ErrBroadcastFailed = errors.New("部分供应商的时间表更新失败")
