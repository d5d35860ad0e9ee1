package metrics

import (
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.metrics")

// HostMetrics is a snapshot of the resource usage of the host a heartbeat
// originates from. Values are percentages.
type HostMetrics struct {
	CpuUsage    int `json:"cpuUsage"`
	MemoryUsage int `json:"memoryUsage"`
}

type MetricsService interface {
	HostMetrics() *HostMetrics
}

type metricsService struct{}

// NewMetricsService creates a new MetricsService instance.
func NewMetricsService() MetricsService {
	return &metricsService{}
}

// HostMetrics returns the current resource metrics of this host.
func (m *metricsService) HostMetrics() *HostMetrics {
	cpuUsage, err := m.cpuUsage()
	if err != nil {
		log.Warnf("failed to build host metrics: %v", err)
		return nil
	}
	memUsage, err := m.memoryUsage()
	if err != nil {
		log.Warnf("failed to build host metrics: %v", err)
		return nil
	}
	return &HostMetrics{
		CpuUsage:    cpuUsage,
		MemoryUsage: memUsage,
	}
}

// cpuUsage returns the current CPU usage in percent.
func (m *metricsService) cpuUsage() (int, error) {
	percent, err := cpu.Percent(0, false)
	if err != nil {
		return 0, fmt.Errorf("failed to get cpu usage: %w", err)
	}
	if len(percent) > 0 {
		return int(math.Round(percent[0])), nil
	}
	return 0, nil
}

// memoryUsage returns the current memory usage in percent.
func (m *metricsService) memoryUsage() (int, error) {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to get memory usage: %w", err)
	}
	return int(math.Round(stat.UsedPercent)), nil
}
