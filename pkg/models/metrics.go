package models

import "time"

// MetricSample represents one telemetry observation for a cloud resource.
// Utilization fields are percentages in [0,100].
type MetricSample struct {
	Timestamp  time.Time `json:"timestamp"`
	ResourceID string    `json:"resource_id"`
	CPU        float64   `json:"cpu"`
	Memory     float64   `json:"memory"`
	Disk       float64   `json:"disk"`
	Network    float64   `json:"network"`
}

// MetricsWindow is an ordered sequence of samples, oldest first.
type MetricsWindow []MetricSample

// UtilizationAverages holds per-field arithmetic means over a window.
type UtilizationAverages struct {
	CPU     float64 `json:"avg_cpu"`
	Memory  float64 `json:"avg_memory"`
	Disk    float64 `json:"avg_disk"`
	Network float64 `json:"avg_network"`
}

// Averages computes the mean of each utilization field across the window.
func (w MetricsWindow) Averages() UtilizationAverages {
	if len(w) == 0 {
		return UtilizationAverages{}
	}

	var totals UtilizationAverages
	for _, s := range w {
		totals.CPU += s.CPU
		totals.Memory += s.Memory
		totals.Disk += s.Disk
		totals.Network += s.Network
	}

	count := float64(len(w))
	return UtilizationAverages{
		CPU:     totals.CPU / count,
		Memory:  totals.Memory / count,
		Disk:    totals.Disk / count,
		Network: totals.Network / count,
	}
}

// Latest returns the most recent sample and whether the window is non-empty.
func (w MetricsWindow) Latest() (MetricSample, bool) {
	if len(w) == 0 {
		return MetricSample{}, false
	}
	return w[len(w)-1], true
}

// Tail returns the last n samples, or the whole window if it is shorter.
func (w MetricsWindow) Tail(n int) MetricsWindow {
	if len(w) <= n {
		return w
	}
	return w[len(w)-n:]
}
