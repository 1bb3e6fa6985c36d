/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs service/init.go
 */

package api

import (
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"batimento-service/api/controllers"
	"batimento-service/api/middleware"
	"batimento-service/service"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderApiKey},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API密钥鉴权，默认开启，本地调试可用 API_AUTH=disabled 关闭
	if os.Getenv("API_AUTH") != "disabled" {
		authMiddleware := middleware.NewApiKeyAuthMiddleware(service.GlobalApiKeyService)
		r.Use(authMiddleware.Middleware)
	}

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 对账档案
	r.Route("/profiles", func(r chi.Router) {
		profileController := controllers.NewProfileController(service.GlobalProfileStore, service.GlobalSchedulerService)
		r.Get("/", profileController.ListProfiles)
		r.Post("/reload", profileController.ReloadProfiles)
		r.Get("/{name}", profileController.GetProfile)
	})

	// 对账运行
	r.Route("/runs", func(r chi.Router) {
		runController := controllers.NewRunController(service.GlobalBatimentoService, service.GlobalRunLedger)
		r.Post("/", runController.StartRun)
		r.Get("/", runController.ListRuns)
		r.Get("/{id}", runController.GetRun)
		r.Get("/{id}/artifact", runController.DownloadArtifact)
	})

	// API密钥管理
	r.Route("/api-keys", func(r chi.Router) {
		apiKeyController := controllers.NewApiKeyController(service.GlobalApiKeyService)
		r.Post("/", apiKeyController.CreateApiKey)
		r.Get("/", apiKeyController.ListApiKeys)
		r.Delete("/{id}", apiKeyController.RevokeApiKey)
	})
}
