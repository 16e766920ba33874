package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePersister 记录每次落库调用，可以配置成失败
type fakePersister struct {
	mu        sync.Mutex
	updated   []ScheduleMap
	replaced  map[int64]ScheduleMap
	updateErr error
	failIDs   map[int64]error
}

func newFakePersister() *fakePersister {
	return &fakePersister{replaced: make(map[int64]ScheduleMap)}
}

func (p *fakePersister) UpdateVendorSchedule(_ context.Context, _ int64, version int32, m ScheduleMap) (int32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.updateErr != nil {
		return 0, p.updateErr
	}
	p.updated = append(p.updated, m)
	return version + 1, nil
}

func (p *fakePersister) ReplaceVendorSchedule(_ context.Context, vendorID int64, m ScheduleMap) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.failIDs[vendorID]; ok {
		return err
	}
	p.replaced[vendorID] = m
	return nil
}

func newTestStore(t *testing.T, m ScheduleMap, p Persister) *Store {
	t.Helper()
	return NewStore(1, 1, m, jerusalem(t), p)
}

func TestEditorAddWindowRejectsInvalid(t *testing.T) {
	loc := jerusalem(t)
	store := newTestStore(t, ScheduleMap{}, newFakePersister())
	editor := OpenDayEditor(store, time.Date(2024, 3, 10, 0, 0, 0, 0, loc))

	require.NoError(t, editor.AddWindow("09:00", "12:00"))

	// 开始不早于结束必须被拒绝，且草稿保持不变
	err := editor.AddWindow("10:00", "09:00")
	assert.Error(t, err)
	assert.Equal(t, []Window{{Start: "09:00", End: "12:00"}}, editor.Draft())

	err = editor.AddWindow("10:00", "10:00")
	assert.Error(t, err)
	assert.Equal(t, 1, len(editor.Draft()))
}

func TestEditorAllowsOverlappingWindows(t *testing.T) {
	loc := jerusalem(t)
	store := newTestStore(t, ScheduleMap{}, newFakePersister())
	editor := OpenDayEditor(store, time.Date(2024, 3, 10, 0, 0, 0, 0, loc))

	// 重叠和完全重复的时间窗都不拦，保持与线上数据一致
	require.NoError(t, editor.AddWindow("09:00", "12:00"))
	require.NoError(t, editor.AddWindow("10:00", "13:00"))
	require.NoError(t, editor.AddWindow("09:00", "12:00"))
	assert.Equal(t, 3, len(editor.Draft()))
}

func TestEditorRemoveWindow(t *testing.T) {
	loc := jerusalem(t)
	store := newTestStore(t, ScheduleMap{}, newFakePersister())
	editor := OpenDayEditor(store, time.Date(2024, 3, 10, 0, 0, 0, 0, loc))

	require.NoError(t, editor.AddWindow("09:00", "12:00"))
	require.NoError(t, editor.AddWindow("14:00", "18:00"))

	require.NoError(t, editor.RemoveWindow(0))
	assert.Equal(t, []Window{{Start: "14:00", End: "18:00"}}, editor.Draft())

	assert.Error(t, editor.RemoveWindow(5))
	assert.Error(t, editor.RemoveWindow(-1))
}

func TestEditorCopyFromPreviousDay(t *testing.T) {
	loc := jerusalem(t)
	m := ScheduleMap{
		"2024-03-09": {{Start: "07:00", End: "10:00"}},
	}
	store := newTestStore(t, m, newFakePersister())
	editor := OpenDayEditor(store, time.Date(2024, 3, 10, 0, 0, 0, 0, loc))

	require.NoError(t, editor.CopyFromPreviousDay())
	assert.Equal(t, []Window{{Start: "07:00", End: "10:00"}}, editor.Draft())

	// 只改了草稿，表本身必须原样
	assert.Equal(t, m, store.Map())

	// 前一天为空时复制出来的草稿也是空的
	editor2 := OpenDayEditor(store, time.Date(2024, 3, 20, 0, 0, 0, 0, loc))
	require.NoError(t, editor2.AddWindow("09:00", "12:00"))
	require.NoError(t, editor2.CopyFromPreviousDay())
	assert.Empty(t, editor2.Draft())
}

func TestEditorSaveSuccess(t *testing.T) {
	loc := jerusalem(t)
	persister := newFakePersister()
	store := newTestStore(t, ScheduleMap{}, persister)

	origin := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	editor := OpenDayEditor(store, origin)
	require.NoError(t, editor.AddWindow("09:00", "12:00"))
	editor.ApplyWeekly = true

	grid := MonthGrid(origin, loc)
	require.NoError(t, editor.Save(context.Background(), grid))

	assert.Equal(t, EditorClosed, editor.State())
	require.Equal(t, 1, len(persister.updated))
	assert.Equal(t, store.Map(), persister.updated[0])
	assert.Equal(t, []Window{{Start: "09:00", End: "12:00"}}, store.Map()["2024-02-25"])

	// 已关闭的会话不允许再保存
	assert.ErrorIs(t, editor.Save(context.Background(), grid), ErrEditorNotEditing)
}

func TestEditorSaveFailureKeepsDraft(t *testing.T) {
	loc := jerusalem(t)
	persister := newFakePersister()
	persister.updateErr = errors.New("网络错误")

	before := ScheduleMap{"2024-03-03": {{Start: "08:00", End: "10:00"}}}
	store := newTestStore(t, before, persister)

	origin := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	editor := OpenDayEditor(store, origin)
	require.NoError(t, editor.AddWindow("09:00", "12:00"))

	err := editor.Save(context.Background(), MonthGrid(origin, loc))
	assert.Error(t, err)

	// 失败后回到编辑状态，草稿保留，表回滚，用户可以直接重试
	assert.Equal(t, EditorEditing, editor.State())
	assert.Equal(t, []Window{{Start: "09:00", End: "12:00"}}, editor.Draft())
	assert.Equal(t, before, store.Map())

	persister.updateErr = nil
	require.NoError(t, editor.Save(context.Background(), MonthGrid(origin, loc)))
	assert.Equal(t, EditorClosed, editor.State())
}

func TestStoreCommitAdvancesVersion(t *testing.T) {
	persister := newFakePersister()
	store := newTestStore(t, ScheduleMap{}, persister)

	require.NoError(t, store.Commit(context.Background()))
	assert.Equal(t, int32(2), store.version)

	require.NoError(t, store.Commit(context.Background()))
	assert.Equal(t, int32(3), store.version)
}

func TestBroadcast(t *testing.T) {
	persister := newFakePersister()
	m := ScheduleMap{"2024-03-10": {{Start: "09:00", End: "12:00"}}}

	require.NoError(t, Broadcast(context.Background(), persister, []int64{1, 2, 3}, m))
	assert.Equal(t, 3, len(persister.replaced))
	assert.Equal(t, m, persister.replaced[2])
}

func TestBroadcastFailsAsUnit(t *testing.T) {
	persister := newFakePersister()
	persister.failIDs = map[int64]error{2: errors.New("供应商 2 更新失败")}
	m := ScheduleMap{"2024-03-10": {{Start: "09:00", End: "12:00"}}}

	err := Broadcast(context.Background(), persister, []int64{1, 2, 3}, m)
	assert.ErrorIs(t, err, ErrBroadcastFailed)

	// 其余供应商照常写入，失败只报一次，没有部分成功的回执
	assert.Contains(t, persister.replaced, int64(1))
	assert.Contains(t, persister.replaced, int64(3))
	assert.NotContains(t, persister.replaced, int64(2))
}
