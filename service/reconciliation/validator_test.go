/*
 * @module service/reconciliation/validator_test
 * @description 数据验证器测试，覆盖原因码集合、空键不重复记格式原因、重复键策略
 * @architecture 测试层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 测试数据输入 -> 验证规则应用 -> 分区结果验证
 * @rules 每条记录恰好落入有效/无效之一
 * @dependencies testing, github.com/stretchr/testify
 * @refs validator.go
 */

package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

func newTestDataset(role string, rows []models.Record) *models.Dataset {
	return models.NewDataset(role,
		[]string{InternalKeyColumn, "cpf", "vencimento"}, rows)
}

func TestValidatorPartition(t *testing.T) {
	ds := newTestDataset(meta.DatasetRoleAgency, []models.Record{
		{InternalKeyColumn: "C1-1", "cpf": "123.456.789-01", "vencimento": "10/01/2024"},
		{InternalKeyColumn: "", "cpf": "123.456.789-01", "vencimento": "10/01/2024"},
		{InternalKeyColumn: "C3-1", "cpf": "", "vencimento": "10/01/2024"},
		{InternalKeyColumn: "???", "cpf": "123.456.789-01", "vencimento": "data ruim"},
	})

	v, err := NewValidator(models.ValidationRules{
		KeyPattern:      `^[A-Za-z0-9]+(-[A-Za-z0-9]+)+$`,
		DocumentField:   "cpf",
		DueDateField:    "vencimento",
		DuplicatePolicy: meta.DuplicatePolicyTolerate,
	}, nil)
	require.NoError(t, err)

	outcome, err := v.Validate(ds)
	require.NoError(t, err)

	// 每条记录恰好落入一个分区
	assert.Equal(t, ds.Len(), outcome.Valid.Len()+outcome.Invalid.Len())
	assert.Equal(t, 1, outcome.Valid.Len())
	assert.Equal(t, 3, outcome.Invalid.Len())

	// 空键只记 CHAVE_VAZIA，不重复记格式原因
	emptyKeyReasons := outcome.Invalid.Rows[0][ReasonColumn].([]string)
	assert.Equal(t, []string{meta.ReasonEmptyKey}, emptyKeyReasons)

	assert.Equal(t, int64(1), outcome.ReasonCounts[meta.ReasonEmptyKey])
	assert.Equal(t, int64(1), outcome.ReasonCounts[meta.ReasonEmptyDocument])
	assert.Equal(t, int64(1), outcome.ReasonCounts[meta.ReasonInvalidDueDate])
}

func TestValidatorMultipleReasons(t *testing.T) {
	ds := newTestDataset(meta.DatasetRoleAgency, []models.Record{
		{InternalKeyColumn: "???", "cpf": "", "vencimento": "10/01/2024"},
	})

	v, err := NewValidator(models.ValidationRules{
		KeyPattern:      `^[A-Za-z0-9]+(-[A-Za-z0-9]+)+$`,
		DocumentField:   "cpf",
		DuplicatePolicy: meta.DuplicatePolicyTolerate,
	}, nil)
	require.NoError(t, err)

	outcome, err := v.Validate(ds)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.Invalid.Len())

	// 原因码是集合，同一条记录可携带多个
	reasons := outcome.Invalid.Rows[0][ReasonColumn].([]string)
	assert.ElementsMatch(t, []string{meta.ReasonInvalidKeyFormat, meta.ReasonEmptyDocument}, reasons)
}

func TestValidatorDuplicateKeyFatal(t *testing.T) {
	ds := newTestDataset(meta.DatasetRoleSource, []models.Record{
		{InternalKeyColumn: "C1-1", "cpf": "11122233344", "vencimento": "10/01/2024"},
		{InternalKeyColumn: "C1-1", "cpf": "55566677788", "vencimento": "11/01/2024"},
	})

	v, err := NewValidator(models.ValidationRules{
		DocumentField:   "cpf",
		DuplicatePolicy: meta.DuplicatePolicyFatal,
	}, nil)
	require.NoError(t, err)

	_, err = v.Validate(ds)
	var duplicate *DuplicateKeyError
	require.ErrorAs(t, err, &duplicate, "Source 数据集重复键必须中止运行，不允许静默合并")
	assert.Equal(t, "C1-1", duplicate.Key)
}

func TestValidatorDuplicateKeyTolerated(t *testing.T) {
	ds := newTestDataset(meta.DatasetRoleAgency, []models.Record{
		{InternalKeyColumn: "C1-1", "cpf": "11122233344", "vencimento": "10/01/2024"},
		{InternalKeyColumn: "C1-1", "cpf": "55566677788", "vencimento": "11/01/2024"},
	})

	v, err := NewValidator(models.ValidationRules{
		DocumentField:   "cpf",
		DuplicatePolicy: meta.DuplicatePolicyTolerate,
	}, nil)
	require.NoError(t, err)

	outcome, err := v.Validate(ds)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Valid.Len(), "容忍策略下重复键原样通过，由去重器收敛")
}

func TestValidatorInvalidKeyPattern(t *testing.T) {
	_, err := NewValidator(models.ValidationRules{KeyPattern: `([`}, nil)
	assert.Error(t, err)
}
