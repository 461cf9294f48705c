// Package metrics holds the Prometheus collectors for the calculation engine.
// Collectors are registered on a caller-supplied registry; nothing is served over HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aegis_attribution"

// Metrics 지표 집합
// ⭐ SSOT: 엔진 지표 이름은 여기서만 정의
type Metrics struct {
	// 연산별 성공 횟수
	CalculationsTotal *prometheus.CounterVec
	// 연산별 입력 거부 횟수
	RejectionsTotal *prometheus.CounterVec

	// 버퍼 수명
	BuffersAllocated   prometheus.Counter
	BuffersReleased    prometheus.Counter
	BuffersOutstanding prometheus.Gauge
	// 이중 해제 / 해제 후 접근 / 미발급 핸들
	BufferMisuseTotal prometheus.Counter
}

// New 지표 인스턴스 생성 (아직 등록되지 않음)
func New() *Metrics {
	return &Metrics{
		CalculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Completed calculations by operation",
		}, []string{"operation"}),
		RejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Calculations rejected due to invalid input, by operation",
		}, []string{"operation"}),

		BuffersAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "allocated_total",
			Help:      "Result buffers handed out",
		}),
		BuffersReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "released_total",
			Help:      "Result buffers released by the host",
		}),
		BuffersOutstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "outstanding",
			Help:      "Result buffers not yet released",
		}),
		BufferMisuseTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "misuse_total",
			Help:      "Reads or releases of unknown or already released handles",
		}),
	}
}

// Register 모든 지표를 reg에 등록
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.CalculationsTotal,
		m.RejectionsTotal,
		m.BuffersAllocated,
		m.BuffersReleased,
		m.BuffersOutstanding,
		m.BufferMisuseTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Sample 수집된 지표 값 하나 (라벨 포함 이름)
type Sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Snapshot gatherer에서 counter/gauge 값을 읽어 평탄화
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}

			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			default:
				continue
			}
			samples = append(samples, Sample{Name: name, Value: value})
		}
	}
	return samples, nil
}
