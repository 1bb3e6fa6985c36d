/**
 * @module SchedulerService_test
 * @description 对账调度器服务单元测试
 * @architecture 单元测试
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 构造桩运行器 -> 注册档案 -> 断言注册与在途去重
 * @rules 覆盖Cron注册、无表达式档案跳过与在途运行去重
 * @dependencies github.com/stretchr/testify
 * @refs service/scheduler/scheduler_service
 */

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batimento-service/service/models"
)

type stubRunner struct {
	mutex sync.Mutex
	calls []string
	block chan struct{}
}

func (r *stubRunner) RunProfile(ctx context.Context, profileName, trigger, createdBy string) (*models.ReconciliationRun, error) {
	r.mutex.Lock()
	r.calls = append(r.calls, profileName+"/"+trigger)
	r.mutex.Unlock()
	if r.block != nil {
		<-r.block
	}
	return &models.ReconciliationRun{ProfileName: profileName}, nil
}

func (r *stubRunner) callCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.calls)
}

type stubLister struct {
	profiles []*models.ReconciliationProfile
}

func (l *stubLister) List() []*models.ReconciliationProfile {
	return l.profiles
}

func TestStartRegistersOnlyCronProfiles(t *testing.T) {
	runner := &stubRunner{}
	lister := &stubLister{profiles: []*models.ReconciliationProfile{
		{Name: "vic", CronExpr: "0 6 * * *"},
		{Name: "emccamp"},
	}}

	service := NewSchedulerService(runner, lister)
	require.NoError(t, service.Start())
	defer service.Stop()

	assert.Len(t, service.cron.Entries(), 1)
}

func TestStartRejectsInvalidCron(t *testing.T) {
	runner := &stubRunner{}
	lister := &stubLister{profiles: []*models.ReconciliationProfile{
		{Name: "ruim", CronExpr: "isto não é cron"},
	}}

	service := NewSchedulerService(runner, lister)
	assert.Error(t, service.Start())
}

func TestRunScheduledSkipsInflight(t *testing.T) {
	runner := &stubRunner{block: make(chan struct{})}
	service := NewSchedulerService(runner, &stubLister{})

	done := make(chan struct{})
	go func() {
		service.runScheduled("vic")
		close(done)
	}()

	// 等首个运行进入在途状态
	require.Eventually(t, func() bool { return runner.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// 在途期间的第二次触发被跳过
	service.runScheduled("vic")
	assert.Equal(t, 1, runner.callCount())

	close(runner.block)
	<-done

	// 在途释放后可以再次运行
	runner.block = nil
	service.runScheduled("vic")
	assert.Equal(t, 2, runner.callCount())
	assert.Equal(t, "vic/scheduled", runner.calls[0])
}

func TestReloadRebuildsEntries(t *testing.T) {
	runner := &stubRunner{}
	lister := &stubLister{profiles: []*models.ReconciliationProfile{
		{Name: "vic", CronExpr: "0 6 * * *"},
	}}

	service := NewSchedulerService(runner, lister)
	require.NoError(t, service.Start())
	defer service.Stop()

	lister.profiles = append(lister.profiles, &models.ReconciliationProfile{Name: "emccamp", CronExpr: "30 6 * * *"})
	require.NoError(t, service.Reload())
	assert.Len(t, service.cron.Entries(), 2)
}
