package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
)

func healthyFetcher() StatFetcher {
	return StatFetcher{
		CPUPercent: func(time.Duration, bool) ([]float64, error) {
			return []float64{42.5}, nil
		},
		VirtualMemory: func() (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 8 << 30, Used: 2 << 30}, nil
		},
		LoadAvg: func() (*load.AvgStat, error) {
			return &load.AvgStat{Load1: 0.5, Load5: 0.4, Load15: 0.3}, nil
		},
		HostUptime: func() (uint64, error) {
			return 3600, nil
		},
		ProcessPids: func() ([]int32, error) {
			return []int32{1, 2, 3}, nil
		},
	}
}

func TestCollect(t *testing.T) {
	m := New()
	m.SetFetcher(healthyFetcher())

	snap := m.Collect()

	assert.Equal(t, 42.5, snap.CPU)
	assert.Equal(t, uint64(8<<30), snap.Mem.Total)
	assert.Equal(t, uint64(2<<30), snap.Mem.Used)
	assert.Equal(t, 0.5, snap.Load1)
	assert.Equal(t, uint64(3600), snap.Uptime)
	assert.Equal(t, 3, snap.ProcessCount)
	assert.WithinDuration(t, time.Now(), snap.SampledAt, time.Minute)
}

func TestCollectSurvivesPartialFailure(t *testing.T) {
	f := healthyFetcher()
	f.CPUPercent = func(time.Duration, bool) ([]float64, error) {
		return nil, errors.New("cpu unavailable")
	}
	f.LoadAvg = func() (*load.AvgStat, error) {
		return nil, errors.New("no loadavg on this platform")
	}

	m := New()
	m.SetFetcher(f)
	snap := m.Collect()

	assert.Zero(t, snap.CPU)
	assert.Zero(t, snap.Load1)
	// 其余维度照常采集。
	assert.Equal(t, uint64(3600), snap.Uptime)
	assert.Equal(t, 3, snap.ProcessCount)
}
