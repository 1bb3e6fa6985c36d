/*
 * @module service/reconciliation/engine
 * @description 对账流水线引擎，编排规范化、键构造、验证、去重、反连接、分桶与布局格式化
 * @architecture 分层架构 - 流水线编排层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 键构造 -> 验证分区 -> 去重 -> 批对反连接 -> 退回过滤链+反连接 -> 分桶 -> 布局导出
 * @rules
 *   - 单线程同步执行，每个阶段消费不可变输入、产出新值
 *   - 退回方向过滤在反连接之前应用，检查点顺序：状态 -> 活动 -> 排除状态 -> 反连接 -> 核销剔除
 *   - Source 数据集键必须唯一（fatal），Agency 重复键容忍后由去重器收敛
 * @dependencies log/slog, github.com/prometheus/client_golang
 * @refs service/reconciliation, service/runledger
 */

package reconciliation

import (
	"log/slog"
	"time"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

// 导出工件名称常量
const (
	ArtifactBatimentoJudicial      = "batimento_judicial"
	ArtifactBatimentoExtrajudicial = "batimento_extrajudicial"
	ArtifactDevolucao              = "devolucao"
	ArtifactInvalidSource          = "invalidos_fonte"
	ArtifactInvalidAgency          = "invalidos_agencia"
)

// Input 一次对账运行的全部输入：双数据集与两份身份集合
type Input struct {
	Source *models.Dataset
	Agency *models.Dataset

	// JudicialIDs 司法 CPF/CNPJ 名单，数字化后的文档号集合
	JudicialIDs map[string]struct{}

	// WriteOffKeys 已核销键集合，退回结果中剔除
	WriteOffKeys map[string]struct{}
}

// RunResult 一次对账运行的产出：命名工件与两个方向的计数累加器
type RunResult struct {
	Artifacts     map[string]*models.Dataset
	ArtifactOrder []string

	Batimento *Metrics
	Devolucao *Metrics
}

// Engine 对账流水线引擎
type Engine struct {
	logger *slog.Logger
}

// NewEngine 创建对账流水线引擎
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Run 执行一次完整对账：批对方向与退回方向各产出一组工件和一份计数
func (e *Engine) Run(profile *models.ReconciliationProfile, input *Input) (*RunResult, error) {
	started := time.Now()
	defer func() {
		runDuration.Observe(time.Since(started).Seconds())
	}()

	recordsProcessed.Add(float64(len(input.Source.Rows) + len(input.Agency.Rows)))

	// 键构造
	source, err := NewKeyBuilder(profile.Source.KeyRule).AppendKeyColumn(input.Source)
	if err != nil {
		return nil, err
	}
	agency, err := NewKeyBuilder(profile.Agency.KeyRule).AppendKeyColumn(input.Agency)
	if err != nil {
		return nil, err
	}

	// 验证分区：Source 键唯一性强制 fatal，Agency 默认容忍后去重
	sourceRules := profile.Source.Validation
	if sourceRules.DuplicatePolicy == "" {
		sourceRules.DuplicatePolicy = meta.DuplicatePolicyFatal
	}
	agencyRules := profile.Agency.Validation
	if agencyRules.DuplicatePolicy == "" {
		agencyRules.DuplicatePolicy = meta.DuplicatePolicyTolerate
	}

	sourceValidator, err := NewValidator(sourceRules, e.logger)
	if err != nil {
		return nil, err
	}
	agencyValidator, err := NewValidator(agencyRules, e.logger)
	if err != nil {
		return nil, err
	}

	sourceOutcome, err := sourceValidator.Validate(source)
	if err != nil {
		return nil, err
	}
	agencyOutcome, err := agencyValidator.Validate(agency)
	if err != nil {
		return nil, err
	}

	if sourceOutcome.Valid.Len() == 0 {
		return nil, &EmptyDatasetError{Role: source.Role}
	}

	// Agency 去重收敛
	deduplicator := NewDeduplicator(InternalKeyColumn, profile.Agency.TiebreakField)
	agencyDeduped, removedDuplicates := deduplicator.Deduplicate(agencyOutcome.Valid)

	// 批对方向：Source - Agency
	batimentoMetrics := NewMetrics()
	batimentoMetrics.Record(meta.CheckpointInputCount, int64(input.Source.Len()))
	batimentoMetrics.Record(meta.CheckpointValidCount, int64(sourceOutcome.Valid.Len()))
	batimentoMetrics.Record(meta.CheckpointInvalidCount, int64(sourceOutcome.Invalid.Len()))

	batimento, err := AntiJoin(sourceOutcome.Valid, agencyDeduped, InternalKeyColumn, InternalKeyColumn)
	if err != nil {
		return nil, err
	}
	batimentoMetrics.Record(meta.CheckpointResultCount, int64(batimento.Len()))

	// 退回方向：Agency - Source，过滤链在反连接之前
	devolucaoMetrics := NewMetrics()
	devolucaoMetrics.Record(meta.CheckpointInputCount, int64(input.Agency.Len()))
	devolucaoMetrics.Record(meta.CheckpointValidCount, int64(agencyOutcome.Valid.Len()))
	devolucaoMetrics.Record(meta.CheckpointInvalidCount, int64(agencyOutcome.Invalid.Len()))
	devolucaoMetrics.Record(meta.CheckpointRemovedByDuplicate, removedDuplicates)

	filtered := FilterByStatus(agencyDeduped, profile.Filters.StatusField, profile.Filters.StatusValue)
	devolucaoMetrics.Record(meta.CheckpointAfterStatusFilter, int64(filtered.Len()))

	filtered = FilterByCampaign(filtered, profile.Filters.CampaignField, profile.Filters.CampaignContains)
	devolucaoMetrics.Record(meta.CheckpointAfterCampaignFilter, int64(filtered.Len()))

	filtered = FilterExcludedStatuses(filtered, profile.Filters.StatusField, profile.Filters.ExcludedStatuses)
	devolucaoMetrics.Record(meta.CheckpointAfterExclusion, int64(filtered.Len()))

	devolucao, err := AntiJoin(filtered, sourceOutcome.Valid, InternalKeyColumn, InternalKeyColumn)
	if err != nil {
		return nil, err
	}

	beforeWriteOff := devolucao.Len()
	devolucao, err = RemoveKeys(devolucao, InternalKeyColumn, input.WriteOffKeys)
	if err != nil {
		return nil, err
	}
	devolucaoMetrics.Record(meta.CheckpointRemovedByWriteOff, int64(beforeWriteOff-devolucao.Len()))
	devolucaoMetrics.Record(meta.CheckpointResultCount, int64(devolucao.Len()))

	// 批对结果按司法名单分桶
	judicial, extrajudicial := Segment(batimento, sourceRules.DocumentField, input.JudicialIDs)

	// 布局格式化
	formatter := NewLayoutFormatter(profile.Layout)
	judicialOut, err := formatter.Format(judicial)
	if err != nil {
		return nil, err
	}
	extrajudicialOut, err := formatter.Format(extrajudicial)
	if err != nil {
		return nil, err
	}
	devolucaoOut, err := formatter.Format(devolucao)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Artifacts: map[string]*models.Dataset{
			ArtifactBatimentoJudicial:      judicialOut,
			ArtifactBatimentoExtrajudicial: extrajudicialOut,
			ArtifactDevolucao:              devolucaoOut,
			ArtifactInvalidSource:          sourceOutcome.Invalid,
			ArtifactInvalidAgency:          agencyOutcome.Invalid,
		},
		ArtifactOrder: []string{
			ArtifactBatimentoJudicial,
			ArtifactBatimentoExtrajudicial,
			ArtifactDevolucao,
			ArtifactInvalidSource,
			ArtifactInvalidAgency,
		},
		Batimento: batimentoMetrics,
		Devolucao: devolucaoMetrics,
	}

	e.logger.Info("对账运行完成",
		"profile", profile.Name,
		"batimento_result", batimento.Len(),
		"devolucao_result", devolucao.Len(),
		"duration", time.Since(started).String(),
	)

	return result, nil
}
