/*
 * @module service/meta/reconciliation
 * @description 对账核心常量定义，包括数据集角色、失效原因码、计数检查点、分桶名称等
 * @architecture 常量层 - 元数据定义
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 常量定义 -> 验证函数 -> 业务逻辑使用
 * @rules 统一管理对账流程相关的常量，确保类型安全
 * @dependencies 无外部依赖
 * @refs service/reconciliation, service/models
 */

package meta

// 数据集角色常量
const (
	// DatasetRoleSource 债权方台账（真实来源，EMCCAMP/VIC/Tabelionato）
	DatasetRoleSource = "source"

	// DatasetRoleAgency 催收系统台账（MAX）
	DatasetRoleAgency = "agency"
)

// 对账方向常量
const (
	// DirectionBatimento 批对：债权方有、催收系统没有的记录（Source - Agency）
	DirectionBatimento = "batimento"

	// DirectionDevolucao 退回：催收系统有、债权方没有的记录（Agency - Source）
	DirectionDevolucao = "devolucao"
)

// 记录失效原因码（沿用巴西业务侧约定的葡语编码，导出文件中原样出现）
const (
	ReasonEmptyKey         = "CHAVE_VAZIA"
	ReasonInvalidKeyFormat = "CHAVE_FORMATO_INVALIDO"
	ReasonEmptyDocument    = "CPF_VAZIO"
	ReasonInvalidDueDate   = "VENCIMENTO_INVALIDO"
	ReasonEmptyField       = "CAMPO_VAZIO"
)

// 计数检查点常量，顺序即流水线阶段顺序
const (
	CheckpointInputCount          = "input_count"
	CheckpointValidCount          = "valid_count"
	CheckpointInvalidCount        = "invalid_count"
	CheckpointRemovedByDuplicate  = "removed_by_duplicate_key"
	CheckpointAfterStatusFilter   = "after_status_filter"
	CheckpointAfterCampaignFilter = "after_campaign_filter"
	CheckpointAfterExclusion      = "after_exclusion_filter"
	CheckpointRemovedByWriteOff   = "removed_by_write_off"
	CheckpointResultCount         = "result_count"
)

// 分桶名称常量
const (
	// BucketJudicial 司法桶：文档号命中司法名单的记录
	BucketJudicial = "judicial"

	// BucketExtrajudicial 非司法桶：未命中司法名单的记录，兜底分类
	BucketExtrajudicial = "extrajudicial"
)

// 重复键处理策略常量
const (
	// DuplicatePolicyFatal 重复键视为致命错误（Source 数据集，键必须唯一）
	DuplicatePolicyFatal = "fatal"

	// DuplicatePolicyTolerate 容忍重复键（Agency 数据集，后续由去重器处理）
	DuplicatePolicyTolerate = "tolerate"
)

// 运行状态常量
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// 运行触发方式常量
const (
	RunTriggerManual    = "manual"
	RunTriggerScheduled = "scheduled"
)

// 数据集角色显示名称映射
var DatasetRoleDisplayNames = map[string]string{
	DatasetRoleSource: "债权方台账",
	DatasetRoleAgency: "催收系统台账",
}

// 对账方向显示名称映射
var DirectionDisplayNames = map[string]string{
	DirectionBatimento: "批对（债权方减催收系统）",
	DirectionDevolucao: "退回（催收系统减债权方）",
}

// IsValidDatasetRole 验证数据集角色是否有效
func IsValidDatasetRole(role string) bool {
	return role == DatasetRoleSource || role == DatasetRoleAgency
}

// IsValidDirection 验证对账方向是否有效
func IsValidDirection(direction string) bool {
	return direction == DirectionBatimento || direction == DirectionDevolucao
}

// IsValidDuplicatePolicy 验证重复键策略是否有效
func IsValidDuplicatePolicy(policy string) bool {
	return policy == DuplicatePolicyFatal || policy == DuplicatePolicyTolerate
}

// GetDatasetRoleDisplayName 获取数据集角色的显示名称
func GetDatasetRoleDisplayName(role string) string {
	if name, exists := DatasetRoleDisplayNames[role]; exists {
		return name
	}
	return "未知角色"
}
