/*
 * @module service/models/reconciliation_models
 * @description 对账配置模型定义，包括键组合规则、校验规则、过滤规则、导出布局和对账档案
 * @architecture DDD领域驱动设计 - 配置实体
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow YAML档案加载 -> 配置校验 -> 对账引擎消费
 * @rules 每个业务变体（vic/emccamp/tabelionato）一份声明式档案，引擎本身不区分客户
 * @dependencies 无外部依赖
 * @refs service/config, service/reconciliation
 */

package models

// KeyRule 键组合规则：按序取字段裁剪后用分隔符拼接，单字段键不拼接分隔符
type KeyRule struct {
	Fields    []string `json:"fields" yaml:"fields"`
	Separator string   `json:"separator" yaml:"separator"`
}

// ValidationRules 单个数据集角色的校验规则集
type ValidationRules struct {
	// RequiredFields 非空字段列表，裁剪后为空即记失效原因
	RequiredFields []string `json:"required_fields" yaml:"required_fields"`

	// KeyPattern 键格式正则，空键只记 CHAVE_VAZIA，不重复记格式原因
	KeyPattern string `json:"key_pattern" yaml:"key_pattern"`

	// DocumentField 文档号字段（CPF/CNPJ），为空记 CPF_VAZIO
	DocumentField string `json:"document_field" yaml:"document_field"`

	// DueDateField 到期日字段，非空但无法解析为日期时记 VENCIMENTO_INVALIDO
	DueDateField string `json:"due_date_field,omitempty" yaml:"due_date_field,omitempty"`

	// DuplicatePolicy 重复键策略：fatal 或 tolerate
	DuplicatePolicy string `json:"duplicate_policy" yaml:"duplicate_policy"`
}

// DatasetRules 单个数据集角色的完整规则：键组合 + 校验 + 去重
type DatasetRules struct {
	KeyRule    KeyRule         `json:"key_rule" yaml:"key_rule"`
	Validation ValidationRules `json:"validation" yaml:"validation"`

	// TiebreakField 去重并列裁决字段（如结清日期），空则保留首次出现的记录
	TiebreakField string `json:"tiebreak_field" yaml:"tiebreak_field"`
}

// FilterRules 退回方向的过滤规则，作用于反连接的输入侧
type FilterRules struct {
	// StatusField / StatusValue 状态等值过滤
	StatusField string `json:"status_field" yaml:"status_field"`
	StatusValue string `json:"status_value" yaml:"status_value"`

	// CampaignField / CampaignContains 活动子串过滤
	CampaignField    string `json:"campaign_field" yaml:"campaign_field"`
	CampaignContains string `json:"campaign_contains" yaml:"campaign_contains"`

	// ExcludedStatuses 排除状态列表
	ExcludedStatuses []string `json:"excluded_statuses" yaml:"excluded_statuses"`
}

// LayoutColumn 导出布局列：输出名、来源列、候补来源列
type LayoutColumn struct {
	Output   string `json:"output" yaml:"output"`
	Source   string `json:"source" yaml:"source"`
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// LayoutConfig 导出布局配置
type LayoutConfig struct {
	// Columns 输出列，顺序即导出文件列顺序
	Columns []LayoutColumn `json:"columns" yaml:"columns"`

	// KeyColumn 键列的输出名，主列和候补列都缺失时致命失败
	KeyColumn string `json:"key_column" yaml:"key_column"`

	// CreditorTaxID 注入每行输出的债权方税号（CNPJ）
	CreditorTaxID string `json:"creditor_tax_id" yaml:"creditor_tax_id"`

	// CreditorColumn 税号注入的列名
	CreditorColumn string `json:"creditor_column" yaml:"creditor_column"`
}

// IdentitySetConfig 身份集合配置（司法名单、已核销键名单）
type IdentitySetConfig struct {
	// Path CSV 文件路径
	Path string `json:"path" yaml:"path"`

	// Column 取值列名，缺省取第一列
	Column string `json:"column,omitempty" yaml:"column,omitempty"`

	// Separator 文件分隔符，缺省分号
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`

	// Encoding 文件编码，缺省utf-8
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`

	// RedisKey 可选的 Redis 集合键，配置后优先于文件读取
	RedisKey string `json:"redis_key,omitempty" yaml:"redis_key,omitempty"`
}

// DatasetFileConfig 数据集文件装载配置
type DatasetFileConfig struct {
	Path      string `json:"path" yaml:"path"`
	Separator string `json:"separator" yaml:"separator"`

	// Encoding 文件编码：utf-8 或 latin-1（巴西侧导出常见 ISO-8859-1）
	Encoding string `json:"encoding" yaml:"encoding"`
}

// ReconciliationProfile 对账档案：一个业务变体的全部声明式配置
type ReconciliationProfile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	SourceFile DatasetFileConfig `json:"source_file" yaml:"source_file"`
	AgencyFile DatasetFileConfig `json:"agency_file" yaml:"agency_file"`

	Source DatasetRules `json:"source" yaml:"source"`
	Agency DatasetRules `json:"agency" yaml:"agency"`

	Filters FilterRules `json:"filters" yaml:"filters"`

	Layout LayoutConfig `json:"layout" yaml:"layout"`

	// JudicialSet 司法 CPF/CNPJ 名单
	JudicialSet IdentitySetConfig `json:"judicial_set" yaml:"judicial_set"`

	// WriteOffSet 已核销键名单，退回结果中剔除
	WriteOffSet IdentitySetConfig `json:"write_off_set" yaml:"write_off_set"`

	// OutputDir 导出目录
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// CronExpr 可选的调度表达式，配置后由调度器周期执行
	CronExpr string `json:"cron_expr,omitempty" yaml:"cron_expr,omitempty"`
}
