package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EditorState 一次编辑会话的状态机：
// Closed -> Editing -> Saving -> Closed（成功）或 Editing（失败，草稿保留）
type EditorState int

const (
	EditorClosed EditorState = iota
	EditorEditing
	EditorSaving
)

var (
	ErrEditorNotEditing = errors.New("编辑会话不在可编辑状态")
	ErrEditorSaving     = errors.New("正在保存，请等待保存完成")
)

// DayEditor 针对某一天的事务性草稿编辑器。
// 打开时从时间表读出当天的时间窗作为草稿，所有修改只作用于草稿，
// 保存时一次性按勾选的范围传播并落库。
type DayEditor struct {
	store *Store
	date  time.Time
	draft []Window
	state EditorState

	ApplyWeekly  bool
	ApplyMonthly bool
}

// OpenDayEditor 打开某一天的编辑会话
func OpenDayEditor(store *Store, date time.Time) *DayEditor {
	return &DayEditor{
		store: store,
		date:  date,
		draft: store.Day(date),
		state: EditorEditing,
	}
}

func (e *DayEditor) State() EditorState {
	return e.state
}

func (e *DayEditor) Date() time.Time {
	return e.date
}

// Draft 当前草稿的副本
func (e *DayEditor) Draft() []Window {
	return append([]Window(nil), e.draft...)
}

// AddWindow 向草稿追加一个时间窗。
// 开始时间不早于结束时间的直接拒绝，草稿不动；重叠和重复不做处理。
func (e *DayEditor) AddWindow(start, end string) error {
	if e.state != EditorEditing {
		return ErrEditorNotEditing
	}

	w := Window{Start: start, End: end}
	if err := ValidateWindow(w); err != nil {
		return err
	}

	e.draft = append(e.draft, w)
	return nil
}

// RemoveWindow 按位置删除草稿里的一个时间窗
func (e *DayEditor) RemoveWindow(index int) error {
	if e.state != EditorEditing {
		return ErrEditorNotEditing
	}
	if index < 0 || index >= len(e.draft) {
		return fmt.Errorf("时间窗序号越界：%d", index)
	}

	e.draft = append(e.draft[:index], e.draft[index+1:]...)
	return nil
}

// CopyFromPreviousDay 把前一天的时间窗原样复制进草稿（前一天为空就清空草稿）。
// 只改草稿，用户仍然要显式保存。
func (e *DayEditor) CopyFromPreviousDay() error {
	if e.state != EditorEditing {
		return ErrEditorNotEditing
	}

	e.draft = e.store.Day(e.date.AddDate(0, 0, -1))
	return nil
}

// Scope 由两个勾选框换算出保存时的传播范围
func (e *DayEditor) Scope() Scope {
	return ScopeFromFlags(e.ApplyWeekly, e.ApplyMonthly)
}

// Save 把草稿按范围传播到整张表并落库。
// 成功后会话关闭；失败时回到编辑状态，草稿原样保留，用户可以直接重试。
// 保存一旦发起就没有取消，要么成功要么失败。
func (e *DayEditor) Save(ctx context.Context, grid []time.Time) error {
	switch e.state {
	case EditorSaving:
		return ErrEditorSaving
	case EditorClosed:
		return ErrEditorNotEditing
	}

	e.state = EditorSaving

	before := e.store.Map()
	e.store.Apply(grid, e.date, e.draft, e.Scope())

	if err := e.store.Commit(ctx); err != nil {
		// 落库失败：回滚内存中的表，会话留在编辑状态
		e.store.m = before
		e.state = EditorEditing
		return err
	}

	e.state = EditorClosed
	return nil
}
