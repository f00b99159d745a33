package encode

import (
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// Stats reports timing for one encode.
type Stats struct {
	RenderTime time.Duration `json:"render_time"` // wall time spent writing frames
	EncodeTime time.Duration `json:"encode_time"` // wall time spent in the video encoder
	FrameP50   time.Duration `json:"frame_p50"`
	FrameP99   time.Duration `json:"frame_p99"`
	FrameMax   time.Duration `json:"frame_max"`
}

// Latencies are tracked in microseconds from 1µs to one minute.
const (
	histMin    = 1
	histMax    = int64(time.Minute / time.Microsecond)
	histDigits = 3
)

type histogram struct{ h *hdrhistogram.Histogram }

func newHistogram() *histogram {
	return &histogram{h: hdrhistogram.New(histMin, histMax, histDigits)}
}

func (h *histogram) record(d time.Duration) {
	us := d.Microseconds()
	if us < histMin {
		us = histMin
	}
	if us > histMax {
		us = histMax
	}
	_ = h.h.RecordValue(us)
}

func (h *histogram) stats() Stats {
	if h.h.TotalCount() == 0 {
		return Stats{}
	}
	return Stats{
		FrameP50: time.Duration(h.h.ValueAtQuantile(50)) * time.Microsecond,
		FrameP99: time.Duration(h.h.ValueAtQuantile(99)) * time.Microsecond,
		FrameMax: time.Duration(h.h.Max()) * time.Microsecond,
	}
}
