/*
 * @module api/controllers/profile_controller
 * @description 对账档案控制器，提供档案查询与热重载接口
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式
 * @dependencies batimento-service/service, github.com/go-chi/chi/v5
 * @refs service/config/profile_store.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"batimento-service/service/config"
	"batimento-service/service/scheduler"
)

// ProfileController 对账档案控制器
type ProfileController struct {
	profiles  *config.ProfileStore
	scheduler *scheduler.SchedulerService
}

// NewProfileController 创建对账档案控制器实例
func NewProfileController(profiles *config.ProfileStore, schedulerService *scheduler.SchedulerService) *ProfileController {
	return &ProfileController{
		profiles:  profiles,
		scheduler: schedulerService,
	}
}

// ListProfiles 获取档案列表
// @Summary 获取对账档案列表
// @Description 返回当前加载的全部对账档案
// @Tags 对账档案
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.ReconciliationProfile} "获取成功"
// @Router /profiles [get]
func (c *ProfileController) ListProfiles(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取档案列表成功",
		Data:   c.profiles.List(),
	})
}

// GetProfile 按名称获取档案
// @Summary 获取对账档案
// @Description 按名称返回单个对账档案
// @Tags 对账档案
// @Produce json
// @Param name path string true "档案名"
// @Success 200 {object} APIResponse{data=models.ReconciliationProfile} "获取成功"
// @Failure 404 {object} APIResponse "档案不存在"
// @Router /profiles/{name} [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	profile, ok := c.profiles.Get(name)
	if !ok {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "档案不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取档案成功",
		Data:   profile,
	})
}

// ReloadProfiles 热重载档案目录
// @Summary 重载对账档案
// @Description 重新扫描档案目录并重建调度注册表
// @Tags 对账档案
// @Produce json
// @Success 200 {object} APIResponse "重载成功"
// @Failure 500 {object} APIResponse "重载失败"
// @Router /profiles/reload [post]
func (c *ProfileController) ReloadProfiles(w http.ResponseWriter, r *http.Request) {
	if err := c.profiles.Reload(); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "重载档案失败: " + err.Error(),
		})
		return
	}

	if c.scheduler != nil {
		if err := c.scheduler.Reload(); err != nil {
			render.JSON(w, r, APIResponse{
				Status: http.StatusInternalServerError,
				Msg:    "重建调度注册表失败: " + err.Error(),
			})
			return
		}
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "重载档案成功",
		Data:   len(c.profiles.List()),
	})
}
