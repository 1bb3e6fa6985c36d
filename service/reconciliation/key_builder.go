/*
 * @module service/reconciliation/key_builder
 * @description 连接键构造器，按配置的字段序列与分隔符为每条记录派生规范化连接键
 * @architecture 分层架构 - 键构造层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 配置校验 -> 逐行取字段裁剪 -> 拼接写入键列
 * @rules 配置字段缺失属致命配置错误，整个运行中止，不做逐行降级
 * @dependencies github.com/spf13/cast
 * @refs service/reconciliation/validator.go, service/reconciliation/anti_join.go
 */

package reconciliation

import (
	"strings"

	"github.com/spf13/cast"

	"batimento-service/service/models"
)

// InternalKeyColumn 流水线内部写入派生键的保留列名
const InternalKeyColumn = "_chave"

// KeyBuilder 连接键构造器
type KeyBuilder struct {
	rule models.KeyRule
}

// NewKeyBuilder 创建连接键构造器
func NewKeyBuilder(rule models.KeyRule) *KeyBuilder {
	return &KeyBuilder{rule: rule}
}

// BuildKey 为单条记录构造键：各字段裁剪后按序拼接，单字段键为该字段裁剪值的直接拷贝
func (kb *KeyBuilder) BuildKey(record models.Record) string {
	if len(kb.rule.Fields) == 1 {
		return strings.TrimSpace(cast.ToString(record[kb.rule.Fields[0]]))
	}

	parts := make([]string, 0, len(kb.rule.Fields))
	for _, field := range kb.rule.Fields {
		parts = append(parts, strings.TrimSpace(cast.ToString(record[field])))
	}
	return strings.Join(parts, kb.rule.Separator)
}

// AppendKeyColumn 校验配置字段存在后，派生新数据集并追加键列
//
// 配置字段不在数据集模式中时返回 MissingFieldError，不逐行处理。
func (kb *KeyBuilder) AppendKeyColumn(ds *models.Dataset) (*models.Dataset, error) {
	for _, field := range kb.rule.Fields {
		if !ds.HasColumn(field) {
			return nil, &MissingFieldError{Field: field, Role: ds.Role}
		}
	}

	rows := make([]models.Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		out := models.CopyRecord(row)
		out[InternalKeyColumn] = kb.BuildKey(row)
		rows = append(rows, out)
	}

	result := ds.WithRows(rows)
	if !result.HasColumn(InternalKeyColumn) {
		result.Columns = append(append([]string{}, ds.Columns...), InternalKeyColumn)
	}
	return result, nil
}
