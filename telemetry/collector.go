package telemetry

// Collector accumulates frame records into fixed-size windows.
type Collector struct {
	windowTicks int64
	windowStart int64
	records     []FrameRecord
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int64(windowTicks),
		records:     make([]FrameRecord, 0, windowTicks),
	}
}

// Record adds a frame to the current window.
func (c *Collector) Record(r FrameRecord) {
	c.records = append(c.records, r)
}

// Pending returns the number of frames in the current window.
func (c *Collector) Pending() int {
	return len(c.records)
}

// ShouldFlush reports whether the window starting at the last flush has
// reached its length.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStart >= c.windowTicks
}

// Flush summarizes the current window and starts a new one at currentTick.
func (c *Collector) Flush(currentTick int64) WindowStats {
	stats := Summarize(c.records)
	stats.WindowStartTick = c.windowStart
	stats.WindowEndTick = currentTick
	c.windowStart = currentTick
	c.records = c.records[:0]
	return stats
}
