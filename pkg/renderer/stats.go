package renderer

import (
	"bytes"
	"fmt"
	"runtime"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HostInfo describes the machine a render ran on
type HostInfo struct {
	CPU         string
	LogicalCPUs int
	MemoryGB    uint64
}

// CollectHostInfo queries the CPU model and installed memory.
// Fields that cannot be determined are left at their zero value.
func CollectHostInfo() HostInfo {
	info := HostInfo{CPU: "unknown", LogicalCPUs: runtime.NumCPU()}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPU = cpus[0].ModelName
	} else if err != nil {
		logger.Debugf("cpu info unavailable: %v", err)
	}
	if memory, err := mem.VirtualMemory(); err == nil {
		info.MemoryGB = memory.Total / (1024 * 1024 * 1024)
	} else {
		logger.Debugf("memory info unavailable: %v", err)
	}
	return info
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width            int
	Height           int
	RequestedSamples int // Samples per pixel asked for
	RealizedSamples  int // Stratified samples actually traced per pixel
	MaxDepth         int
	Workers          int
	PrimaryRays      int64
	Duration         time.Duration
	Host             HostInfo
}

// Pixels returns the number of pixels in the frame
func (s RenderStats) Pixels() int {
	return s.Width * s.Height
}

// RaysPerSecond returns the primary ray throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.PrimaryRays) / s.Duration.Seconds()
}

// Table renders the statistics as a two column text table
func (s RenderStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Resolution", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"Pixels", fmt.Sprintf("%d", s.Pixels())},
		{"Samples per pixel", fmt.Sprintf("%d (%d traced)", s.RequestedSamples, s.RealizedSamples)},
		{"Max depth", fmt.Sprintf("%d", s.MaxDepth)},
		{"Primary rays", fmt.Sprintf("%d", s.PrimaryRays)},
		{"Rays/sec", fmt.Sprintf("%.0f", s.RaysPerSecond())},
		{"Workers", fmt.Sprintf("%d", s.Workers)},
		{"Host", fmt.Sprintf("%s, %d CPUs, %d GB", s.Host.CPU, s.Host.LogicalCPUs, s.Host.MemoryGB)},
	})
	table.SetFooter([]string{"Render time", s.Duration.Round(time.Millisecond).String()})
	table.Render()
	return buf.String()
}
