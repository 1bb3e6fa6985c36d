/*
 * @module service/reconciliation/segmenter
 * @description 结果分桶器，按文档号是否命中司法名单把对账结果分为司法/非司法两桶
 * @architecture 分层架构 - 分桶层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 文档号数字化 -> 司法名单成员测试 -> 双桶分流
 * @rules 未命中名单的记录一律落入非司法桶，分桶过程不丢弃任何记录
 * @dependencies 无外部依赖
 * @refs service/reconciliation/engine.go, service/identity
 */

package reconciliation

import "batimento-service/service/models"

// Segment 分桶：judicial 桶收文档号命中名单的记录，其余全部落 extrajudicial 桶
func Segment(ds *models.Dataset, documentField string, judicialIDs map[string]struct{}) (judicial, extrajudicial *models.Dataset) {
	judicialRows := make([]models.Record, 0)
	extrajudicialRows := make([]models.Record, 0, len(ds.Rows))

	for _, row := range ds.Rows {
		document := NormalizeDocument(row[documentField])
		if _, hit := judicialIDs[document]; hit && document != "" {
			judicialRows = append(judicialRows, row)
		} else {
			extrajudicialRows = append(extrajudicialRows, row)
		}
	}

	return ds.WithRows(judicialRows), ds.WithRows(extrajudicialRows)
}
