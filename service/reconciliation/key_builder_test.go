/*
 * @module service/reconciliation/key_builder_test
 * @description 连接键构造器测试，覆盖复合键拼接、单字段键直拷、配置字段缺失致命错误
 * @architecture 测试层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 测试数据输入 -> 键构造 -> 结果验证
 * @rules 配置字段缺失必须整体失败，不允许逐行降级
 * @dependencies testing, github.com/stretchr/testify
 * @refs key_builder.go
 */

package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

func TestKeyBuilderComposite(t *testing.T) {
	kb := NewKeyBuilder(models.KeyRule{
		Fields:    []string{"contrato", "parcela"},
		Separator: "-",
	})

	key := kb.BuildKey(models.Record{"contrato": " C100 ", "parcela": "003 "})
	assert.Equal(t, "C100-003", key, "各字段裁剪后按序用分隔符拼接")
}

func TestKeyBuilderSingleField(t *testing.T) {
	kb := NewKeyBuilder(models.KeyRule{
		Fields:    []string{"contrato"},
		Separator: "-",
	})

	// 单字段键是该字段裁剪值的直接拷贝，不参与分隔符拼接
	key := kb.BuildKey(models.Record{"contrato": "  C100  "})
	assert.Equal(t, "C100", key)
}

func TestKeyBuilderAppendKeyColumn(t *testing.T) {
	ds := models.NewDataset(meta.DatasetRoleSource,
		[]string{"contrato", "parcela"},
		[]models.Record{
			{"contrato": "C1", "parcela": "1"},
			{"contrato": "C2", "parcela": "2"},
		})

	kb := NewKeyBuilder(models.KeyRule{Fields: []string{"contrato", "parcela"}, Separator: "-"})
	result, err := kb.AppendKeyColumn(ds)
	require.NoError(t, err)

	assert.True(t, result.HasColumn(InternalKeyColumn))
	assert.Equal(t, "C1-1", result.Rows[0][InternalKeyColumn])
	assert.Equal(t, "C2-2", result.Rows[1][InternalKeyColumn])

	// 原数据集不被修改
	assert.False(t, ds.HasColumn(InternalKeyColumn))
	_, exists := ds.Rows[0][InternalKeyColumn]
	assert.False(t, exists)
}

func TestKeyBuilderMissingField(t *testing.T) {
	ds := models.NewDataset(meta.DatasetRoleSource,
		[]string{"contrato"},
		[]models.Record{{"contrato": "C1"}})

	kb := NewKeyBuilder(models.KeyRule{Fields: []string{"contrato", "parcela"}, Separator: "-"})
	_, err := kb.AppendKeyColumn(ds)

	var missingField *MissingFieldError
	require.ErrorAs(t, err, &missingField)
	assert.Equal(t, "parcela", missingField.Field)
}
