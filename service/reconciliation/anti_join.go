/*
 * @module service/reconciliation/anti_join
 * @description 反连接原语，返回左数据集中键不存在于右数据集键集合的记录
 * @architecture 分层架构 - 集合运算层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 键列校验 -> 右侧键集合构建 -> 左侧成员过滤
 * @rules
 *   - 复杂度必须为 O(|left|+|right|)，用哈希集合实现，禁止嵌套循环连接
 *   - 键比较前仅做裁剪，不改变大小写（业务标识符大小写可能有义）
 *   - 键列缺失属致命配置错误
 * @dependencies github.com/spf13/cast
 * @refs service/reconciliation/engine.go
 */

package reconciliation

import (
	"strings"

	"github.com/spf13/cast"

	"batimento-service/service/models"
)

// AntiJoin 反连接：返回 left 中键不在 right 键集合内的记录，保持 left 的行序
func AntiJoin(left, right *models.Dataset, keyLeft, keyRight string) (*models.Dataset, error) {
	if !left.HasColumn(keyLeft) {
		return nil, &MissingColumnError{Column: keyLeft, Role: left.Role}
	}
	if !right.HasColumn(keyRight) {
		return nil, &MissingColumnError{Column: keyRight, Role: right.Role}
	}

	rightKeys := make(map[string]struct{}, len(right.Rows))
	for _, row := range right.Rows {
		rightKeys[strings.TrimSpace(cast.ToString(row[keyRight]))] = struct{}{}
	}

	rows := make([]models.Record, 0)
	for _, row := range left.Rows {
		key := strings.TrimSpace(cast.ToString(row[keyLeft]))
		if _, found := rightKeys[key]; !found {
			rows = append(rows, row)
		}
	}

	return left.WithRows(rows), nil
}

// RemoveKeys 从数据集中剔除键命中给定集合的记录（已核销键剔除）
func RemoveKeys(ds *models.Dataset, keyColumn string, keys map[string]struct{}) (*models.Dataset, error) {
	if !ds.HasColumn(keyColumn) {
		return nil, &MissingColumnError{Column: keyColumn, Role: ds.Role}
	}
	if len(keys) == 0 {
		return ds, nil
	}

	rows := make([]models.Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		key := strings.TrimSpace(cast.ToString(row[keyColumn]))
		if _, found := keys[key]; !found {
			rows = append(rows, row)
		}
	}
	return ds.WithRows(rows), nil
}
