/*
 * @module service/reconciliation/metrics
 * @description 计数累加器与服务级指标，前者按检查点记录单次运行的阶段计数，后者暴露Prometheus采集
 * @architecture 分层架构 - 可观测层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 运行开始创建累加器 -> 各阶段记录检查点 -> 报表构建后丢弃
 * @rules 累加器只追加不回写，检查点保持记录顺序，一次运行一个实例，跨运行不聚合
 * @dependencies github.com/prometheus/client_golang
 * @refs service/reconciliation/engine.go
 */

package reconciliation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"batimento-service/service/models"
)

// 服务级 Prometheus 指标，跨运行累计，由 /metrics 端点暴露
var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "batimento_reconciliation_runs_total",
		Help: "对账运行总数，按档案与结果状态区分",
	}, []string{"profile", "status"})

	recordsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "batimento_records_processed_total",
		Help: "流水线处理的输入记录总数",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "batimento_run_duration_seconds",
		Help:    "单次对账运行耗时",
		Buckets: prometheus.DefBuckets,
	})
)

// CountRun 在服务级指标上登记一次运行结果
func CountRun(profile, status string) {
	runsTotal.WithLabelValues(profile, status).Inc()
}

// Metrics 单次运行的计数累加器，保持检查点记录顺序
type Metrics struct {
	order  []string
	values map[string]int64
}

// NewMetrics 创建计数累加器
func NewMetrics() *Metrics {
	return &Metrics{
		order:  make([]string, 0, 16),
		values: make(map[string]int64, 16),
	}
}

// Record 记录检查点计数，重复记录同名检查点时覆盖数值、保留首次顺序
func (m *Metrics) Record(checkpoint string, count int64) {
	if _, exists := m.values[checkpoint]; !exists {
		m.order = append(m.order, checkpoint)
	}
	m.values[checkpoint] = count
}

// Add 在检查点上累加计数
func (m *Metrics) Add(checkpoint string, delta int64) {
	if _, exists := m.values[checkpoint]; !exists {
		m.order = append(m.order, checkpoint)
	}
	m.values[checkpoint] += delta
}

// Get 读取检查点计数，未记录时返回 0
func (m *Metrics) Get(checkpoint string) int64 {
	return m.values[checkpoint]
}

// Has 判断检查点是否已记录
func (m *Metrics) Has(checkpoint string) bool {
	_, exists := m.values[checkpoint]
	return exists
}

// Checkpoints 按记录顺序返回检查点名称
func (m *Metrics) Checkpoints() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Snapshot 导出为 JSONB 快照，用于台账落库与接口返回
func (m *Metrics) Snapshot() models.JSONB {
	snapshot := make(models.JSONB, len(m.values))
	for name, value := range m.values {
		snapshot[name] = value
	}
	return snapshot
}
