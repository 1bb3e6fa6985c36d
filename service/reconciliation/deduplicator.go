/*
 * @module service/reconciliation/deduplicator
 * @description 去重器，按键把数据集收敛到每键一条记录，用并列裁决字段确定保留哪条
 * @architecture 分层架构 - 数据收敛层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 键分组 -> 并列裁决 -> 按首次出现位置重建顺序
 * @rules
 *   - 无重复键时按值返回输入本身，不派生新数据集
 *   - 配置裁决字段时保留裁决日期最新的记录，空日期排最后，日期并列保留先出现的
 *   - 输出顺序为各键首次出现的输入顺序，保持端到端行序不变量
 * @dependencies github.com/spf13/cast
 * @refs service/reconciliation/engine.go
 */

package reconciliation

import (
	"strings"

	"github.com/spf13/cast"

	"batimento-service/service/models"
)

// Deduplicator 去重器
type Deduplicator struct {
	keyColumn     string
	tiebreakField string
}

// NewDeduplicator 创建去重器，tiebreakField 为空时保留每键首次出现的记录
func NewDeduplicator(keyColumn, tiebreakField string) *Deduplicator {
	return &Deduplicator{
		keyColumn:     keyColumn,
		tiebreakField: tiebreakField,
	}
}

// Deduplicate 去重，返回收敛后的数据集与被移除的记录数
func (d *Deduplicator) Deduplicate(ds *models.Dataset) (*models.Dataset, int64) {
	// 每键保留一个胜者，记住首次出现位置以重建原始顺序
	winners := make(map[string]models.Record, len(ds.Rows))
	firstIndex := make(map[string]int, len(ds.Rows))
	keyOrder := make([]string, 0, len(ds.Rows))

	for i, row := range ds.Rows {
		key := strings.TrimSpace(cast.ToString(row[d.keyColumn]))
		current, exists := winners[key]
		if !exists {
			winners[key] = row
			firstIndex[key] = i
			keyOrder = append(keyOrder, key)
			continue
		}
		if d.tiebreakField != "" && d.beats(row, current) {
			winners[key] = row
		}
	}

	if len(keyOrder) == len(ds.Rows) {
		return ds, 0
	}

	rows := make([]models.Record, 0, len(keyOrder))
	for _, key := range keyOrder {
		rows = append(rows, winners[key])
	}

	return ds.WithRows(rows), int64(len(ds.Rows) - len(rows))
}

// beats 判断候选记录是否胜过当前胜者：裁决日期更新者胜，空日期必败，并列不更换
func (d *Deduplicator) beats(candidate, current models.Record) bool {
	candidateDate := NormalizeDate(candidate[d.tiebreakField])
	if candidateDate == nil {
		return false
	}

	currentDate := NormalizeDate(current[d.tiebreakField])
	if currentDate == nil {
		return true
	}

	return candidateDate.After(*currentDate)
}
