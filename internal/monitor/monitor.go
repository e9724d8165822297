// Package monitor samples host statistics for the status endpoint, so an
// operator can tell a starved kiosk box apart from a backend outage.
package monitor

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats 表示一个容量维度的用量。
type Stats struct {
	Total uint64 `json:"total"`
	Used  uint64 `json:"used"`
}

// Snapshot 是一次主机采样。
type Snapshot struct {
	CPU          float64   `json:"cpu"`
	Mem          Stats     `json:"mem"`
	Load1        float64   `json:"load1"`
	Load5        float64   `json:"load5"`
	Load15       float64   `json:"load15"`
	Uptime       uint64    `json:"uptime"`
	ProcessCount int       `json:"process_count"`
	SampledAt    time.Time `json:"sampled_at"`
}

// StatFetcher 把 gopsutil 的取数函数抽出来, 测试时可替换。
type StatFetcher struct {
	CPUPercent    func(interval time.Duration, percpu bool) ([]float64, error)
	VirtualMemory func() (*mem.VirtualMemoryStat, error)
	LoadAvg       func() (*load.AvgStat, error)
	HostUptime    func() (uint64, error)
	ProcessPids   func() ([]int32, error)
}

// Monitor 按需采集主机状态。
type Monitor struct {
	fetcher StatFetcher
}

// New 构建使用真实系统调用的监视器。
func New() *Monitor {
	return &Monitor{
		fetcher: StatFetcher{
			CPUPercent:    cpu.Percent,
			VirtualMemory: mem.VirtualMemory,
			LoadAvg:       load.Avg,
			HostUptime:    host.Uptime,
			ProcessPids:   process.Pids,
		},
	}
}

// SetFetcher sets a custom fetcher for testing.
func (m *Monitor) SetFetcher(fetcher StatFetcher) {
	m.fetcher = fetcher
}

// Collect 采集一次快照。单项失败不影响其他项。
func (m *Monitor) Collect() Snapshot {
	snap := Snapshot{SampledAt: time.Now()}

	if percents, err := m.fetcher.CPUPercent(0, false); err == nil && len(percents) > 0 {
		snap.CPU = percents[0]
	}

	if v, err := m.fetcher.VirtualMemory(); err == nil {
		snap.Mem = Stats{Total: v.Total, Used: v.Used}
	}

	if l, err := m.fetcher.LoadAvg(); err == nil {
		snap.Load1 = l.Load1
		snap.Load5 = l.Load5
		snap.Load15 = l.Load15
	}

	if u, err := m.fetcher.HostUptime(); err == nil {
		snap.Uptime = u
	}

	if pids, err := m.fetcher.ProcessPids(); err == nil {
		snap.ProcessCount = len(pids)
	}

	return snap
}
