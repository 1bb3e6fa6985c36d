/*
 * @module service/reconciliation/filters
 * @description 退回方向的分类过滤器：状态等值、活动子串、排除状态，作用于反连接的输入侧
 * @architecture 分层架构 - 过滤层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 状态过滤 -> 活动过滤 -> 排除状态过滤，每级过滤后记录存活计数
 * @rules 过滤顺序是对外契约，每级过滤后的计数必须按固定检查点名称记录
 * @dependencies github.com/spf13/cast
 * @refs service/reconciliation/engine.go, service/meta
 */

package reconciliation

import (
	"strings"

	"github.com/spf13/cast"

	"batimento-service/service/models"
)

// FilterByStatus 状态等值过滤，状态字段未配置时原样放行
func FilterByStatus(ds *models.Dataset, field, value string) *models.Dataset {
	if field == "" {
		return ds
	}

	rows := make([]models.Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if strings.TrimSpace(cast.ToString(row[field])) == value {
			rows = append(rows, row)
		}
	}
	return ds.WithRows(rows)
}

// FilterByCampaign 活动子串过滤，活动字段未配置时原样放行
func FilterByCampaign(ds *models.Dataset, field, contains string) *models.Dataset {
	if field == "" || contains == "" {
		return ds
	}

	rows := make([]models.Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if strings.Contains(cast.ToString(row[field]), contains) {
			rows = append(rows, row)
		}
	}
	return ds.WithRows(rows)
}

// FilterExcludedStatuses 排除状态过滤，命中排除列表的记录被剔除
func FilterExcludedStatuses(ds *models.Dataset, field string, excluded []string) *models.Dataset {
	if field == "" || len(excluded) == 0 {
		return ds
	}

	excludedSet := make(map[string]struct{}, len(excluded))
	for _, status := range excluded {
		excludedSet[status] = struct{}{}
	}

	rows := make([]models.Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		status := strings.TrimSpace(cast.ToString(row[field]))
		if _, hit := excludedSet[status]; !hit {
			rows = append(rows, row)
		}
	}
	return ds.WithRows(rows)
}
