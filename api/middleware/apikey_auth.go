/*
 * @module api/middleware/apikey_auth
 * @description API密钥鉴权中间件，验证X-API-Key请求头的有效性
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 密钥提取 -> 密钥验证 -> 上下文注入 -> 下一个处理器
 * @rules 白名单路径跳过鉴权；验证失败统一返回401，不区分失败原因
 * @dependencies net/http, github.com/go-chi/render
 * @refs service/apikey_service.go, api/routes.go
 */

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"batimento-service/service/models"
)

// ContextKey 上下文键类型
type ContextKey string

// ApiKeyInfoKey 密钥信息在上下文中的键
const ApiKeyInfoKey ContextKey = "api_key_info"

// HeaderApiKey 密钥请求头名称
const HeaderApiKey = "X-API-Key"

// KeyVerifier 密钥验证入口，由API密钥服务实现
type KeyVerifier interface {
	VerifyApiKey(plaintext string) (*models.ApiKey, error)
}

// ApiKeyAuthMiddleware API密钥鉴权中间件
type ApiKeyAuthMiddleware struct {
	verifier KeyVerifier

	// 白名单路径（不需要鉴权），前缀匹配
	whitelistPaths []string
}

// NewApiKeyAuthMiddleware 创建API密钥鉴权中间件实例
func NewApiKeyAuthMiddleware(verifier KeyVerifier) *ApiKeyAuthMiddleware {
	return &ApiKeyAuthMiddleware{
		verifier: verifier,
		whitelistPaths: []string{
			"/health",
			"/ready",
			"/metrics",
			"/swagger",
		},
	}
}

// AddWhitelistPath 添加白名单路径
func (m *ApiKeyAuthMiddleware) AddWhitelistPath(path string) {
	m.whitelistPaths = append(m.whitelistPaths, path)
}

// IsWhitelistPath 检查路径是否在白名单中
func (m *ApiKeyAuthMiddleware) IsWhitelistPath(path string) bool {
	for _, whitelistPath := range m.whitelistPaths {
		if strings.HasPrefix(path, whitelistPath) {
			return true
		}
	}
	return false
}

// Middleware 鉴权中间件处理函数
func (m *ApiKeyAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.IsWhitelistPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		plaintext := r.Header.Get(HeaderApiKey)
		if plaintext == "" {
			m.unauthorized(w, r, "缺少API密钥")
			return
		}

		apiKey, err := m.verifier.VerifyApiKey(plaintext)
		if err != nil {
			m.unauthorized(w, r, "API密钥无效")
			return
		}

		ctx := context.WithValue(r.Context(), ApiKeyInfoKey, apiKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *ApiKeyAuthMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status": http.StatusUnauthorized,
		"msg":    msg,
	})
}

// ApiKeyFromContext 从上下文中取出验证通过的密钥信息
func ApiKeyFromContext(ctx context.Context) (*models.ApiKey, bool) {
	apiKey, ok := ctx.Value(ApiKeyInfoKey).(*models.ApiKey)
	return apiKey, ok
}
