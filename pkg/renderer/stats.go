package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of camera rays
	RaysTraced   int64         // Scene intersection queries, including bounces
	Workers      int           // Workers used for the render
	Elapsed      time.Duration // Wall time of the render
}

// AddPixel accounts for one finished pixel
func (rs *RenderStats) AddPixel(samples int, rays int) {
	rs.TotalPixels++
	rs.TotalSamples += samples
	rs.RaysTraced += int64(rays)
}

// AverageRaysPerSample returns the mean path length in intersection queries
func (rs RenderStats) AverageRaysPerSample() float64 {
	if rs.TotalSamples == 0 {
		return 0
	}
	return float64(rs.RaysTraced) / float64(rs.TotalSamples)
}

// RaysPerSecond returns the intersection throughput of the render
func (rs RenderStats) RaysPerSecond() float64 {
	if rs.Elapsed <= 0 {
		return 0
	}
	return float64(rs.RaysTraced) / rs.Elapsed.Seconds()
}
