/*
 * @module service/reconciliation/validator
 * @description 数据验证器，将数据集分割为有效/无效两部分，无效记录附带失效原因码集合
 * @architecture 分层架构 - 数据验证层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 规则编译 -> 逐行规则应用 -> 有效/无效分区 -> 原因码计数日志
 * @rules
 *   - 每条记录恰好落入有效/无效之一，原因码是集合而非分号拼接串
 *   - 空键只记 CHAVE_VAZIA，不重复记格式原因
 *   - 重复键按策略处理：fatal 中止运行，tolerate 原样放行交由去重器
 * @dependencies log/slog, regexp, github.com/spf13/cast
 * @refs service/reconciliation/engine.go, service/meta
 */

package reconciliation

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

// ReasonColumn 无效分区中承载原因码集合的列名
const ReasonColumn = "_motivos"

// ValidationOutcome 验证结果：有效/无效分区与按原因码的计数
type ValidationOutcome struct {
	Valid        *models.Dataset
	Invalid      *models.Dataset
	ReasonCounts map[string]int64
}

// Validator 数据验证器
type Validator struct {
	rules      models.ValidationRules
	keyPattern *regexp.Regexp
	logger     *slog.Logger
}

// NewValidator 创建数据验证器，键格式正则不合法时返回错误
func NewValidator(rules models.ValidationRules, logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var keyPattern *regexp.Regexp
	if rules.KeyPattern != "" {
		compiled, err := regexp.Compile(rules.KeyPattern)
		if err != nil {
			return nil, fmt.Errorf("键格式正则编译失败: %w", err)
		}
		keyPattern = compiled
	}

	return &Validator{
		rules:      rules,
		keyPattern: keyPattern,
		logger:     logger,
	}, nil
}

// Validate 验证数据集并分区
//
// 重复键策略为 fatal 时，键列出现重复即返回 DuplicateKeyError 中止；
// 为 tolerate 时重复记录原样通过验证。
func (v *Validator) Validate(ds *models.Dataset) (*ValidationOutcome, error) {
	// 数据集级重复键检查只看有效记录的键，先逐行收集原因
	validRows := make([]models.Record, 0, len(ds.Rows))
	invalidRows := make([]models.Record, 0)
	reasonCounts := make(map[string]int64)

	for _, row := range ds.Rows {
		reasons := v.recordReasons(row)
		if len(reasons) == 0 {
			validRows = append(validRows, row)
			continue
		}

		out := models.CopyRecord(row)
		out[ReasonColumn] = reasons
		invalidRows = append(invalidRows, out)
		for _, reason := range reasons {
			reasonCounts[reason]++
		}
	}

	if v.rules.DuplicatePolicy == meta.DuplicatePolicyFatal {
		seen := make(map[string]bool, len(validRows))
		for _, row := range validRows {
			key := strings.TrimSpace(cast.ToString(row[InternalKeyColumn]))
			if seen[key] {
				return nil, &DuplicateKeyError{Key: key, Role: ds.Role}
			}
			seen[key] = true
		}
	}

	invalid := ds.WithRows(invalidRows)
	if len(invalidRows) > 0 && !invalid.HasColumn(ReasonColumn) {
		invalid.Columns = append(append([]string{}, ds.Columns...), ReasonColumn)
	}

	outcome := &ValidationOutcome{
		Valid:        ds.WithRows(validRows),
		Invalid:      invalid,
		ReasonCounts: reasonCounts,
	}

	v.logger.Info("数据集验证完成",
		"role", ds.Role,
		"input", len(ds.Rows),
		"valid", len(validRows),
		"invalid", len(invalidRows),
	)
	for reason, count := range reasonCounts {
		v.logger.Info("失效原因计数", "role", ds.Role, "reason", reason, "count", count)
	}

	return outcome, nil
}

// recordReasons 收集单条记录的失效原因码，各规则独立评估后取并集
func (v *Validator) recordReasons(row models.Record) []string {
	var reasons []string

	key := strings.TrimSpace(cast.ToString(row[InternalKeyColumn]))
	if key == "" {
		reasons = append(reasons, meta.ReasonEmptyKey)
	} else if v.keyPattern != nil && !v.keyPattern.MatchString(key) {
		reasons = append(reasons, meta.ReasonInvalidKeyFormat)
	}

	if v.rules.DocumentField != "" {
		if NormalizeDocument(row[v.rules.DocumentField]) == "" {
			reasons = append(reasons, meta.ReasonEmptyDocument)
		}
	}

	if v.rules.DueDateField != "" {
		if !isEmptyCell(row[v.rules.DueDateField]) && NormalizeDate(row[v.rules.DueDateField]) == nil {
			reasons = append(reasons, meta.ReasonInvalidDueDate)
		}
	}

	for _, field := range v.rules.RequiredFields {
		if field == v.rules.DocumentField {
			continue
		}
		if isEmptyCell(row[field]) {
			reasons = append(reasons, fmt.Sprintf("%s:%s", meta.ReasonEmptyField, field))
		}
	}

	return reasons
}
