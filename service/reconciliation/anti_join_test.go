/*
 * @module service/reconciliation/anti_join_test
 * @description 反连接原语测试，覆盖集合差正确性、裁剪后比较、键列缺失致命错误
 * @architecture 测试层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 测试数据输入 -> 反连接 -> 集合差验证
 * @rules |anti_join(L,R)| + |L∩R 按键| == |L|
 * @dependencies testing, github.com/stretchr/testify
 * @refs anti_join.go
 */

package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

func keyedDataset(role string, keys ...string) *models.Dataset {
	rows := make([]models.Record, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, models.Record{InternalKeyColumn: k})
	}
	return models.NewDataset(role, []string{InternalKeyColumn}, rows)
}

func TestAntiJoinCorrectness(t *testing.T) {
	left := keyedDataset(meta.DatasetRoleSource, "A", "B", "C", "D")
	right := keyedDataset(meta.DatasetRoleAgency, "B", "D", "E")

	result, err := AntiJoin(left, right, InternalKeyColumn, InternalKeyColumn)
	require.NoError(t, err)

	require.Equal(t, 2, result.Len())
	assert.Equal(t, "A", result.Rows[0][InternalKeyColumn])
	assert.Equal(t, "C", result.Rows[1][InternalKeyColumn])

	// |anti_join(L,R)| + |L∩R| == |L|
	intersection := left.Len() - result.Len()
	assert.Equal(t, left.Len(), result.Len()+intersection)
}

func TestAntiJoinTrimsKeysBeforeComparison(t *testing.T) {
	left := keyedDataset(meta.DatasetRoleSource, " A ", "B")
	right := keyedDataset(meta.DatasetRoleAgency, "A")

	result, err := AntiJoin(left, right, InternalKeyColumn, InternalKeyColumn)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
	assert.Equal(t, "B", result.Rows[0][InternalKeyColumn])
}

func TestAntiJoinCaseSensitive(t *testing.T) {
	// 键比较不改变大小写，业务标识符大小写有义
	left := keyedDataset(meta.DatasetRoleSource, "abc")
	right := keyedDataset(meta.DatasetRoleAgency, "ABC")

	result, err := AntiJoin(left, right, InternalKeyColumn, InternalKeyColumn)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Len())
}

func TestAntiJoinEmptyRight(t *testing.T) {
	left := keyedDataset(meta.DatasetRoleSource, "A", "B")
	right := keyedDataset(meta.DatasetRoleAgency)

	result, err := AntiJoin(left, right, InternalKeyColumn, InternalKeyColumn)
	require.NoError(t, err)
	assert.Equal(t, left.Len(), result.Len())
}

func TestAntiJoinMissingColumn(t *testing.T) {
	left := models.NewDataset(meta.DatasetRoleSource, []string{"outra"}, nil)
	right := keyedDataset(meta.DatasetRoleAgency, "A")

	_, err := AntiJoin(left, right, InternalKeyColumn, InternalKeyColumn)
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, InternalKeyColumn, missing.Column)
	assert.Equal(t, meta.DatasetRoleSource, missing.Role)
}

func TestRemoveKeys(t *testing.T) {
	ds := keyedDataset(meta.DatasetRoleAgency, "A", "B", "C")

	result, err := RemoveKeys(ds, InternalKeyColumn, map[string]struct{}{"B": {}})
	require.NoError(t, err)
	require.Equal(t, 2, result.Len())
	assert.Equal(t, "A", result.Rows[0][InternalKeyColumn])
	assert.Equal(t, "C", result.Rows[1][InternalKeyColumn])

	// 空集合时按值返回输入
	same, err := RemoveKeys(ds, InternalKeyColumn, nil)
	require.NoError(t, err)
	assert.Same(t, ds, same)
}
