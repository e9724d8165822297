package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Printer 执行物理/虚拟打印动作。调用返回即视为完成事件：
// 返回 nil 表示小票已出纸（或已交给打印后端）。
type Printer interface {
	Print(ctx context.Context, batch []PrintOrder) error
}

// WriterPrinter 把渲染后的小票写入任意 io.Writer，
// 用于终端预览和测试。
type WriterPrinter struct {
	W io.Writer
}

func (p WriterPrinter) Print(_ context.Context, batch []PrintOrder) error {
	if len(batch) == 0 {
		return nil
	}
	_, err := io.WriteString(p.W, RenderBatch(batch))
	return err
}

// FilePrinter 把每个批次写成一个带时间戳的文本文件，
// 交给外部的打印机 spooler（如 lp 监视目录）出纸。
type FilePrinter struct {
	Dir string
}

func (p FilePrinter) Print(_ context.Context, batch []PrintOrder) error {
	if len(batch) == 0 {
		return nil
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create receipt dir: %w", err)
	}
	name := fmt.Sprintf("receipts-%s.txt", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(p.Dir, name)

	// 先写临时文件再改名，spooler 不会读到半张小票。
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(RenderBatch(batch)), 0o644); err != nil {
		return fmt.Errorf("write receipts: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish receipts: %w", err)
	}
	return nil
}
