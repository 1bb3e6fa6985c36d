/*
 * @module service/reconciliation/normalizer
 * @description 字段规范化工具，负责日期、金额、文档号、电话等原始单元格值的规范化
 * @architecture 工具函数模式，提供无状态转换方法集合
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 无状态转换：输入 -> 转换逻辑 -> 输出
 * @rules
 *   - 所有规范化函数必须全函数：畸形输入映射为 nil/空串，绝不 panic
 *   - 畸形金额必须返回 nil，不得坍缩为 0，避免污染下游求和
 *   - 日期解析歧义时优先按 日/月 解释（巴西侧约定）
 * @dependencies github.com/shopspring/decimal, github.com/spf13/cast
 * @refs service/reconciliation/validator.go, service/reconciliation/deduplicator.go
 */

package reconciliation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// 日期解析格式，日先格式排在前面，歧义输入因此按 日/月 解释
var dateLayouts = []string{
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"01/02/2006",
}

// 文本空值哨兵，规范化时视同空
var textualNullSentinels = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"nil":  true,
}

// NormalizeDate 规范化日期值，无法解析时返回 nil
func NormalizeDate(value interface{}) *time.Time {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		return v
	}

	str := strings.TrimSpace(cast.ToString(value))
	if str == "" || textualNullSentinels[strings.ToLower(str)] {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return &t
		}
	}
	return nil
}

// NormalizeDecimal 规范化金额值，逗号/点分隔符自动判别，无法解析时返回 nil
//
// 判别规则：两种分隔符同时出现时，最后出现的是小数分隔符，
// 之前出现的均为千位分隔符；单一分隔符出现一次视为小数分隔符，
// 出现多次视为千位分隔符。解析前剥离货币符号、不换行空格和空白。
func NormalizeDecimal(value interface{}) *decimal.Decimal {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case decimal.Decimal:
		return &v
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case float32:
		d := decimal.NewFromFloat32(v)
		return &d
	case int:
		d := decimal.NewFromInt(int64(v))
		return &d
	case int64:
		d := decimal.NewFromInt(v)
		return &d
	}

	str := strings.TrimSpace(cast.ToString(value))
	if str == "" || textualNullSentinels[strings.ToLower(str)] {
		return nil
	}

	// 剥离货币符号与各类空白
	str = strings.NewReplacer(
		"R$", "",
		"$", "",
		"€", "",
		" ", "",
		" ", "",
		"\t", "",
	).Replace(str)

	str = normalizeSeparators(str)
	if str == "" {
		return nil
	}

	d, err := decimal.NewFromString(str)
	if err != nil {
		return nil
	}
	return &d
}

// normalizeSeparators 把逗号/点的本地化写法统一为点分隔的十进制文本
func normalizeSeparators(str string) string {
	lastComma := strings.LastIndex(str, ",")
	lastDot := strings.LastIndex(str, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// 两种分隔符并存：最后出现的是小数分隔符
		if lastComma > lastDot {
			str = strings.ReplaceAll(str, ".", "")
			str = strings.Replace(str, ",", ".", 1)
		} else {
			str = strings.ReplaceAll(str, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(str, ",") > 1 {
			str = strings.ReplaceAll(str, ",", "")
		} else {
			str = strings.Replace(str, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(str, ".") > 1 {
			str = strings.ReplaceAll(str, ".", "")
		}
	}
	return str
}

// NormalizeDocument 文档号规范化：仅保留数字字符，保留前导零，空值返回空串
func NormalizeDocument(value interface{}) string {
	if value == nil {
		return ""
	}

	str := strings.TrimSpace(cast.ToString(value))
	if str == "" || textualNullSentinels[strings.ToLower(str)] {
		return ""
	}

	var b strings.Builder
	for _, r := range str {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone 电话号码规范化：仅保留数字与前导加号
func NormalizePhone(value interface{}) string {
	str := strings.TrimSpace(cast.ToString(value))
	if str == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range str {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FirstNonEmpty 返回序列中第一个非空值：非 nil、字符串化裁剪后非空且不是文本空值哨兵
func FirstNonEmpty(values ...interface{}) interface{} {
	for _, v := range values {
		if v == nil {
			continue
		}
		str := strings.TrimSpace(cast.ToString(v))
		if str == "" || textualNullSentinels[strings.ToLower(str)] {
			continue
		}
		return v
	}
	return nil
}

// isEmptyCell 判断单元格值是否为空（nil、空白或文本空值哨兵）
func isEmptyCell(value interface{}) bool {
	if value == nil {
		return true
	}
	str := strings.TrimSpace(cast.ToString(value))
	return str == "" || textualNullSentinels[strings.ToLower(str)]
}
