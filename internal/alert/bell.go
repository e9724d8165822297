package alert

import (
	"io"
	"time"
)

// Bell 通过终端响铃播放一段短促的节奏音。
// 没有 TTY 时写入会静默失败，由调用方忽略。
type Bell struct {
	W io.Writer
	// Beeps 是一次提醒里的响铃次数，默认 3。
	Beeps int
	// Gap 是两次响铃的间隔，默认 150ms。
	Gap time.Duration
}

func (b Bell) Play() error {
	beeps := b.Beeps
	if beeps <= 0 {
		beeps = 3
	}
	gap := b.Gap
	if gap <= 0 {
		gap = 150 * time.Millisecond
	}
	for i := 0; i < beeps; i++ {
		if i > 0 {
			time.Sleep(gap)
		}
		if _, err := b.W.Write([]byte("\a")); err != nil {
			return err
		}
	}
	return nil
}
