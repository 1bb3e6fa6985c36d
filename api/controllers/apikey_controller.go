/*
 * @module api/controllers/apikey_controller
 * @description API密钥控制器，提供密钥签发、查询与吊销接口
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow HTTP请求处理流程
 * @rules 密钥明文只在签发响应中返回一次，之后不可再查询
 * @dependencies batimento-service/service, github.com/go-chi/chi/v5
 * @refs service/apikey_service.go, api/middleware/apikey_auth.go
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"batimento-service/service"
)

// ApiKeyController API密钥控制器
type ApiKeyController struct {
	apiKeyService *service.ApiKeyService
}

// NewApiKeyController 创建API密钥控制器实例
func NewApiKeyController(apiKeyService *service.ApiKeyService) *ApiKeyController {
	return &ApiKeyController{apiKeyService: apiKeyService}
}

// CreateApiKeyRequest 签发密钥请求结构
type CreateApiKeyRequest struct {
	Name      string     `json:"name" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreateApiKeyResponse 签发密钥响应结构，Key字段只在此响应中出现
type CreateApiKeyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	KeyPrefix string `json:"key_prefix"`
	Key       string `json:"key"`
}

// CreateApiKey 签发新密钥
// @Summary 签发API密钥
// @Description 签发新密钥，明文只在本次响应返回
// @Tags API密钥
// @Accept json
// @Produce json
// @Param key body CreateApiKeyRequest true "密钥信息"
// @Success 201 {object} APIResponse{data=CreateApiKeyResponse} "签发成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api-keys [post]
func (c *ApiKeyController) CreateApiKey(w http.ResponseWriter, r *http.Request) {
	var req CreateApiKeyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Name == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	apiKey, plaintext, err := c.apiKeyService.CreateApiKey(req.Name, "api", req.ExpiresAt)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "签发密钥失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "签发密钥成功",
		Data: CreateApiKeyResponse{
			ID:        apiKey.ID,
			Name:      apiKey.Name,
			KeyPrefix: apiKey.KeyPrefix,
			Key:       plaintext,
		},
	})
}

// ListApiKeys 获取密钥列表
// @Summary 获取API密钥列表
// @Description 返回全部密钥元数据，不含密钥值
// @Tags API密钥
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.ApiKey} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api-keys [get]
func (c *ApiKeyController) ListApiKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := c.apiKeyService.ListApiKeys()
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "查询密钥失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取密钥列表成功",
		Data:   keys,
	})
}

// RevokeApiKey 吊销密钥
// @Summary 吊销API密钥
// @Description 按ID吊销密钥，吊销后立即失效
// @Tags API密钥
// @Produce json
// @Param id path string true "密钥ID"
// @Success 200 {object} APIResponse "吊销成功"
// @Failure 404 {object} APIResponse "密钥不存在"
// @Router /api-keys/{id} [delete]
func (c *ApiKeyController) RevokeApiKey(w http.ResponseWriter, r *http.Request) {
	if err := c.apiKeyService.RevokeApiKey(chi.URLParam(r, "id")); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "吊销密钥成功",
	})
}
