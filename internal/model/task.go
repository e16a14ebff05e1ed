// Package model はドメインモデルを定義する。
package model

import "time"

// Task はユーザーごとのタスクレコードを表す。
// 全操作は所有ユーザーのIDでフィルタされ、他ユーザーからは観測できない。
type Task struct {
	ID          string
	UserID      string
	Text        string
	Completed   bool
	CompletedAt *time.Time // 未完了の場合はnil
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
