package usecase

import "time"

// 注文日時・ギフト日時・期限切れ判定で使う現在時刻。
// テストで固定できるようにinterfaceで受ける。
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now()
}
