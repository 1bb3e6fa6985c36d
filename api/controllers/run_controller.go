/*
 * @module api/controllers/run_controller
 * @description 对账运行控制器，提供运行触发、历史查询与产物下载接口
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow HTTP请求处理流程
 * @rules 运行同步执行，响应即携带终态台账；产物以ZIP文件下载
 * @dependencies batimento-service/service, github.com/go-chi/chi/v5
 * @refs service/batimento_service.go, service/runledger
 */

package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"batimento-service/api/middleware"
	"batimento-service/service"
	"batimento-service/service/meta"
	"batimento-service/service/runledger"
)

// RunController 对账运行控制器
type RunController struct {
	batimento *service.BatimentoService
	ledger    *runledger.Service
}

// NewRunController 创建对账运行控制器实例
func NewRunController(batimento *service.BatimentoService, ledger *runledger.Service) *RunController {
	return &RunController{
		batimento: batimento,
		ledger:    ledger,
	}
}

// StartRunRequest 触发运行请求结构，路径字段可选，覆盖档案里的数据集文件
type StartRunRequest struct {
	ProfileName string `json:"profile_name" validate:"required"`
	SourcePath  string `json:"source_path,omitempty"`
	AgencyPath  string `json:"agency_path,omitempty"`
}

// StartRun 触发一次对账运行
// @Summary 触发对账运行
// @Description 按档案名同步执行一次完整对账，返回终态台账记录
// @Tags 对账运行
// @Accept json
// @Produce json
// @Param run body StartRunRequest true "运行参数"
// @Success 200 {object} APIResponse{data=models.ReconciliationRun} "运行完成"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 404 {object} APIResponse "档案不存在"
// @Router /runs [post]
func (c *RunController) StartRun(w http.ResponseWriter, r *http.Request) {
	var req StartRunRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}
	if req.ProfileName == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "档案名不能为空",
		})
		return
	}

	createdBy := "api"
	if apiKey, ok := middleware.ApiKeyFromContext(r.Context()); ok {
		createdBy = apiKey.Name
	}

	run, err := c.batimento.RunProfileWithOverrides(r.Context(), req.ProfileName, meta.RunTriggerManual, createdBy, service.RunOverrides{
		SourcePath: req.SourcePath,
		AgencyPath: req.AgencyPath,
	})
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "对账运行完成",
		Data:   run,
	})
}

// ListRuns 获取运行历史
// @Summary 获取运行历史
// @Description 分页查询运行台账，可按档案名过滤
// @Tags 对账运行
// @Produce json
// @Param profile query string false "档案名"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(20)
// @Success 200 {object} PaginatedResponse{data=[]models.ReconciliationRun} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /runs [get]
func (c *RunController) ListRuns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 20
	}

	runs, total, err := c.ledger.ListRuns(r.URL.Query().Get("profile"), page, size)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "查询运行历史失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取运行历史成功",
		Data:   runs,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// GetRun 按ID获取运行记录
// @Summary 获取运行记录
// @Description 按运行ID返回台账记录与计数快照
// @Tags 对账运行
// @Produce json
// @Param id path string true "运行ID"
// @Success 200 {object} APIResponse{data=models.ReconciliationRun} "获取成功"
// @Failure 404 {object} APIResponse "运行不存在"
// @Router /runs/{id} [get]
func (c *RunController) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := c.ledger.GetRun(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "运行不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取运行记录成功",
		Data:   run,
	})
}

// DownloadArtifact 下载运行产物ZIP
// @Summary 下载运行产物
// @Description 按运行ID下载对账产物ZIP交付件
// @Tags 对账运行
// @Produce application/zip
// @Param id path string true "运行ID"
// @Success 200 {file} binary "ZIP交付件"
// @Failure 404 {object} APIResponse "运行或产物不存在"
// @Router /runs/{id}/artifact [get]
func (c *RunController) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	run, err := c.ledger.GetRun(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "运行不存在",
		})
		return
	}

	if run.ArtifactDir == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "运行没有产物",
		})
		return
	}

	zipPath := filepath.Join(run.ArtifactDir, "resultado.zip")
	if _, err := os.Stat(zipPath); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "产物文件不存在",
		})
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=\"resultado_"+run.ID+".zip\"")
	http.ServeFile(w, r, zipPath)
}
