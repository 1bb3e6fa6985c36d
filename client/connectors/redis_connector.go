/*
 * @module RedisConnector
 * @description Redis连接器，封装身份集合（司法名单、核销键）的集合读写操作
 * @architecture 适配器模式 - 封装第三方Redis客户端，提供统一的接口
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 连接建立 -> 集合读写 -> 连接断开
 * @rules 集合成员按Redis返回顺序透传，规整化由身份集合装载器负责
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/identity, service/init.go
 */
package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisConnector Redis连接器结构体
type RedisConnector struct {
	config      *RedisConfig
	client      *redis.Client
	isConnected bool
	mutex       sync.RWMutex
}

// RedisConfig Redis配置信息
type RedisConfig struct {
	Address      string        `json:"address"`        // Redis地址
	Password     string        `json:"password"`       // 密码
	Database     int           `json:"database"`       // 数据库编号
	PoolSize     int           `json:"pool_size"`      // 连接池大小
	MinIdleConns int           `json:"min_idle_conns"` // 最小空闲连接数
	MaxRetries   int           `json:"max_retries"`    // 最大重试次数
	DialTimeout  time.Duration `json:"dial_timeout"`   // 连接超时时间
	ReadTimeout  time.Duration `json:"read_timeout"`   // 读取超时时间
	WriteTimeout time.Duration `json:"write_timeout"`  // 写入超时时间
}

// NewRedisConnector 创建新的Redis连接器
func NewRedisConnector(config *RedisConfig) *RedisConnector {
	return &RedisConnector{
		config: config,
		client: redis.NewClient(&redis.Options{
			Addr:         config.Address,
			Password:     config.Password,
			DB:           config.Database,
			PoolSize:     config.PoolSize,
			MinIdleConns: config.MinIdleConns,
			MaxRetries:   config.MaxRetries,
			DialTimeout:  config.DialTimeout,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		}),
	}
}

// Connect 建立Redis连接
func (rc *RedisConnector) Connect(ctx context.Context) error {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if rc.isConnected {
		return nil
	}

	if _, err := rc.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("Redis连接失败: %w", err)
	}

	rc.isConnected = true
	slog.Info("Redis连接器已连接", "address", rc.config.Address, "database", rc.config.Database)
	return nil
}

// Disconnect 断开Redis连接
func (rc *RedisConnector) Disconnect() error {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if !rc.isConnected {
		return nil
	}

	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("关闭Redis客户端失败: %w", err)
	}

	rc.isConnected = false
	slog.Info("Redis连接器已断开连接")
	return nil
}

// SetMembers 读取集合的全部成员
func (rc *RedisConnector) SetMembers(ctx context.Context, key string) ([]string, error) {
	if !rc.IsConnected() {
		return nil, fmt.Errorf("Redis客户端未连接")
	}

	members, err := rc.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("SMEMBERS命令失败: %w", err)
	}
	return members, nil
}

// AddSetMembers 向集合追加成员，返回新增数量
func (rc *RedisConnector) AddSetMembers(ctx context.Context, key string, members ...string) (int64, error) {
	if !rc.IsConnected() {
		return 0, fmt.Errorf("Redis客户端未连接")
	}
	if len(members) == 0 {
		return 0, nil
	}

	values := make([]interface{}, len(members))
	for i, member := range members {
		values[i] = member
	}
	added, err := rc.client.SAdd(ctx, key, values...).Result()
	if err != nil {
		return 0, fmt.Errorf("SADD命令失败: %w", err)
	}
	slog.Debug("已向集合追加成员", "key", key, "added", added)
	return added, nil
}

// SetCard 返回集合的成员数量
func (rc *RedisConnector) SetCard(ctx context.Context, key string) (int64, error) {
	if !rc.IsConnected() {
		return 0, fmt.Errorf("Redis客户端未连接")
	}

	count, err := rc.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("SCARD命令失败: %w", err)
	}
	return count, nil
}

// IsConnected 检查连接状态
func (rc *RedisConnector) IsConnected() bool {
	rc.mutex.RLock()
	defer rc.mutex.RUnlock()
	return rc.isConnected
}
