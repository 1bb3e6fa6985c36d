/*
 * @module service/models/dataset
 * @description 表格数据集模型定义，对账核心消费的内存态数据结构
 * @architecture DDD领域驱动设计 - 值对象
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 外部装载器创建 -> 流水线各阶段派生新数据集 -> 导出消费
 * @rules 数据集一经创建不再原地修改，行顺序在所有阶段保持抽取时顺序
 * @dependencies 无外部依赖
 * @refs service/reconciliation, service/dataset
 */

package models

// Record 一行记录：字段名到值的映射，值为字符串、数值或时间
type Record = map[string]interface{}

// Dataset 有序记录序列，Columns 承载列顺序（行本身是 map，顺序信息在此）
type Dataset struct {
	// Role 数据集角色：source（债权方）或 agency（催收系统）
	Role string `json:"role"`

	// Columns 列名，按抽取时顺序排列
	Columns []string `json:"columns"`

	// Rows 记录序列，按抽取时顺序排列
	Rows []Record `json:"rows"`
}

// NewDataset 创建数据集
func NewDataset(role string, columns []string, rows []Record) *Dataset {
	return &Dataset{
		Role:    role,
		Columns: columns,
		Rows:    rows,
	}
}

// Len 记录总数
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn 判断列是否存在于数据集模式中
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// WithRows 以相同角色和模式派生新数据集，不修改原数据集
func (d *Dataset) WithRows(rows []Record) *Dataset {
	return &Dataset{
		Role:    d.Role,
		Columns: d.Columns,
		Rows:    rows,
	}
}

// CopyRecord 浅拷贝一行记录
func CopyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
