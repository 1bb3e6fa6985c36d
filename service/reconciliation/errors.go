/*
 * @module service/reconciliation/errors
 * @description 对账核心的类型化错误定义，区分配置错误与结构性数据错误
 * @architecture 分层架构 - 错误类型层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 错误创建 -> 向上传播 -> 调用侧中止运行
 * @rules 致命错误必须携带出错的列名/字段名/键值，绝不静默兜底
 * @dependencies fmt
 * @refs service/reconciliation
 */

package reconciliation

import "fmt"

// MissingFieldError 键组合配置引用了数据集模式中不存在的字段，属配置错误
type MissingFieldError struct {
	Field string
	Role  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("键组合字段在数据集模式中不存在: %s (角色: %s)", e.Field, e.Role)
}

// MissingColumnError 反连接配置的键列在数据集模式中不存在，属配置错误
type MissingColumnError struct {
	Column string
	Role   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("键列在数据集模式中不存在: %s (角色: %s)", e.Column, e.Role)
}

// MissingKeyColumnError 导出布局的键列主列与候补列均缺失，属配置错误
type MissingKeyColumnError struct {
	Column string
}

func (e *MissingKeyColumnError) Error() string {
	return fmt.Sprintf("导出布局的键列无可用来源列: %s", e.Column)
}

// DuplicateKeyError 要求键唯一的数据集中出现重复键，属结构性数据错误
type DuplicateKeyError struct {
	Key  string
	Role string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("数据集中出现重复键: %s (角色: %s)", e.Key, e.Role)
}

// EmptyDatasetError 下游要求非空的数据集为空，属结构性数据错误
type EmptyDatasetError struct {
	Role string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("数据集有效记录为空，运行中止 (角色: %s)", e.Role)
}
