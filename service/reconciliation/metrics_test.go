/*
 * @module service/reconciliation/metrics_test
 * @description 计数累加器测试，覆盖检查点顺序保持、覆盖写入与快照导出
 * @architecture 测试层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 检查点记录 -> 顺序与数值验证 -> 快照验证
 * @rules 累加器只追加，检查点顺序即记录顺序
 * @dependencies testing, github.com/stretchr/testify
 * @refs metrics.go
 */

package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"batimento-service/service/meta"
)

func TestMetricsRecordOrder(t *testing.T) {
	m := NewMetrics()
	m.Record(meta.CheckpointInputCount, 5)
	m.Record(meta.CheckpointAfterStatusFilter, 4)
	m.Record(meta.CheckpointAfterCampaignFilter, 3)

	assert.Equal(t, []string{
		meta.CheckpointInputCount,
		meta.CheckpointAfterStatusFilter,
		meta.CheckpointAfterCampaignFilter,
	}, m.Checkpoints())

	assert.Equal(t, int64(5), m.Get(meta.CheckpointInputCount))
	assert.False(t, m.Has(meta.CheckpointResultCount))
	assert.Equal(t, int64(0), m.Get(meta.CheckpointResultCount))
}

func TestMetricsOverwriteKeepsFirstPosition(t *testing.T) {
	m := NewMetrics()
	m.Record("a", 1)
	m.Record("b", 2)
	m.Record("a", 9)

	assert.Equal(t, []string{"a", "b"}, m.Checkpoints())
	assert.Equal(t, int64(9), m.Get("a"))
}

func TestMetricsAdd(t *testing.T) {
	m := NewMetrics()
	m.Add("linhas", 10)
	m.Add("linhas", 5)
	assert.Equal(t, int64(15), m.Get("linhas"))
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.Record(meta.CheckpointInputCount, 5)
	m.Record(meta.CheckpointResultCount, 1)

	snapshot := m.Snapshot()
	assert.Equal(t, int64(5), snapshot[meta.CheckpointInputCount])
	assert.Equal(t, int64(1), snapshot[meta.CheckpointResultCount])
	assert.Len(t, snapshot, 2)
}
