/*
 * @module service/reconciliation/layout_formatter
 * @description 导出布局格式化器，把结果数据集投影/重命名为固定列序的目标模式
 * @architecture 转换器模式 - 声明式列映射
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 键列可用性校验 -> 逐列取主列或候补列 -> 文本化写入目标模式
 * @rules
 *   - 非键列来源缺失时填空串，键列主列候补列均缺失属致命错误
 *   - 数值文本原样回显，逗号小数不重新格式化（下游按本地化小数逗号消费）
 *   - 债权方税号注入每行输出
 * @dependencies github.com/spf13/cast, time
 * @refs service/reconciliation/engine.go, service/dataset
 */

package reconciliation

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"batimento-service/service/models"
)

// LayoutFormatter 导出布局格式化器
type LayoutFormatter struct {
	config models.LayoutConfig
}

// NewLayoutFormatter 创建导出布局格式化器
func NewLayoutFormatter(config models.LayoutConfig) *LayoutFormatter {
	return &LayoutFormatter{config: config}
}

// Format 把数据集投影为目标布局，输出列顺序即配置顺序
func (lf *LayoutFormatter) Format(ds *models.Dataset) (*models.Dataset, error) {
	// 每个输出列解析出实际取值列：主列优先，缺失时用候补列
	resolved := make(map[string]string, len(lf.config.Columns))
	outputColumns := make([]string, 0, len(lf.config.Columns))

	for _, col := range lf.config.Columns {
		outputColumns = append(outputColumns, col.Output)

		switch {
		case ds.HasColumn(col.Source):
			resolved[col.Output] = col.Source
		case col.Fallback != "" && ds.HasColumn(col.Fallback):
			resolved[col.Output] = col.Fallback
		default:
			if col.Output == lf.config.KeyColumn {
				return nil, &MissingKeyColumnError{Column: lf.config.KeyColumn}
			}
			resolved[col.Output] = ""
		}
	}

	if lf.config.CreditorColumn != "" && !containsColumn(outputColumns, lf.config.CreditorColumn) {
		outputColumns = append(outputColumns, lf.config.CreditorColumn)
	}

	rows := make([]models.Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		out := make(models.Record, len(outputColumns))
		for _, col := range lf.config.Columns {
			sourceColumn := resolved[col.Output]
			if sourceColumn == "" {
				out[col.Output] = ""
				continue
			}
			out[col.Output] = formatCell(row[sourceColumn])
		}
		if lf.config.CreditorColumn != "" {
			out[lf.config.CreditorColumn] = lf.config.CreditorTaxID
		}
		rows = append(rows, out)
	}

	return &models.Dataset{
		Role:    ds.Role,
		Columns: outputColumns,
		Rows:    rows,
	}, nil
}

// formatCell 文本化单元格值：字符串原样回显（保留逗号小数），原因码集合分号拼接
func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ";")
	case time.Time:
		return v.Format("02/01/2006")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("02/01/2006")
	default:
		return cast.ToString(v)
	}
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
