/*
 * @module service/reconciliation/segmenter_test
 * @description 结果分桶器测试，覆盖分桶完整性与未命中兜底
 * @architecture 测试层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 测试数据输入 -> 分桶 -> 完整性验证
 * @rules len(judicial) + len(extrajudicial) == len(result)
 * @dependencies testing, github.com/stretchr/testify
 * @refs segmenter.go
 */

package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

func TestSegmentCompleteness(t *testing.T) {
	ds := models.NewDataset(meta.DatasetRoleSource,
		[]string{"cpf"},
		[]models.Record{
			{"cpf": "123.456.789-01"},
			{"cpf": "111.222.333-44"},
			{"cpf": "999.888.777-66"},
			{"cpf": ""},
		})

	judicialIDs := map[string]struct{}{
		"12345678901": {},
		"99988877766": {},
	}

	judicial, extrajudicial := Segment(ds, "cpf", judicialIDs)

	// 分桶不丢弃任何记录
	assert.Equal(t, ds.Len(), judicial.Len()+extrajudicial.Len())
	assert.Equal(t, 2, judicial.Len())
	assert.Equal(t, 2, extrajudicial.Len())
}

func TestSegmentUnmatchedFallsToExtrajudicial(t *testing.T) {
	ds := models.NewDataset(meta.DatasetRoleSource,
		[]string{"cpf"},
		[]models.Record{{"cpf": "123.456.789-01"}})

	judicial, extrajudicial := Segment(ds, "cpf", nil)
	assert.Equal(t, 0, judicial.Len())
	assert.Equal(t, 1, extrajudicial.Len(), "不在司法名单中的记录一律落入非司法桶")
}

func TestSegmentEmptyDocumentNeverJudicial(t *testing.T) {
	ds := models.NewDataset(meta.DatasetRoleSource,
		[]string{"cpf"},
		[]models.Record{{"cpf": "   "}})

	// 即使名单里意外出现空串，空文档号也不得进司法桶
	judicial, extrajudicial := Segment(ds, "cpf", map[string]struct{}{"": {}})
	assert.Equal(t, 0, judicial.Len())
	assert.Equal(t, 1, extrajudicial.Len())
}
