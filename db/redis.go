// db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func CacheEmployee(ctx context.Context, employee *model.Employee) error {
	employeeJSON, err := json.Marshal(employee)
	if err != nil {
		return fmt.Errorf("failed to marshal employee: %w", err)
	}

	key := fmt.Sprintf("employee:%s", employee.ID)
	ttl := viper.GetDuration("cache.employeeTTL")
	err = RedisClient.Set(ctx, key, employeeJSON, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache employee: %w", err)
	}

	logger.Debug("Employee cached successfully", zap.String("employeeID", employee.ID))
	return nil
}

func GetCachedEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	key := fmt.Sprintf("employee:%s", employeeID)
	employeeJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Employee not found in cache", zap.String("employeeID", employeeID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get employee from cache: %w", err)
	}

	var employee model.Employee
	err = json.Unmarshal([]byte(employeeJSON), &employee)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal employee: %w", err)
	}

	logger.Debug("Employee retrieved from cache", zap.String("employeeID", employeeID))
	return &employee, nil
}

func CacheResource(ctx context.Context, resource *model.Resource) error {
	resourceJSON, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to marshal resource: %w", err)
	}

	key := fmt.Sprintf("resource:%s", resource.ID)
	ttl := viper.GetDuration("cache.resourceTTL")
	err = RedisClient.Set(ctx, key, resourceJSON, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache resource: %w", err)
	}

	logger.Debug("Resource cached successfully", zap.String("resourceID", resource.ID))
	return nil
}

func GetCachedResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	key := fmt.Sprintf("resource:%s", resourceID)
	resourceJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Resource not found in cache", zap.String("resourceID", resourceID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get resource from cache: %w", err)
	}

	var resource model.Resource
	err = json.Unmarshal([]byte(resourceJSON), &resource)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource: %w", err)
	}

	logger.Debug("Resource retrieved from cache", zap.String("resourceID", resourceID))
	return &resource, nil
}

func CacheRelationship(ctx context.Context, subjectID, ownerID string, rel *model.Relationship) error {
	relJSON, err := json.Marshal(rel)
	if err != nil {
		return fmt.Errorf("failed to marshal relationship: %w", err)
	}

	key := fmt.Sprintf("relationship:%s:%s", subjectID, ownerID)
	ttl := viper.GetDuration("cache.relationshipTTL")
	err = RedisClient.Set(ctx, key, relJSON, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache relationship: %w", err)
	}

	logger.Debug("Relationship cached successfully",
		zap.String("subjectID", subjectID),
		zap.String("ownerID", ownerID))
	return nil
}

func GetCachedRelationship(ctx context.Context, subjectID, ownerID string) (*model.Relationship, error) {
	key := fmt.Sprintf("relationship:%s:%s", subjectID, ownerID)
	relJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get relationship from cache: %w", err)
	}

	var rel model.Relationship
	err = json.Unmarshal([]byte(relJSON), &rel)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal relationship: %w", err)
	}

	return &rel, nil
}

// RateLimit implements a sliding window limiter keyed by client.
func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - per.Nanoseconds()
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := RedisClient.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, redisKey, per)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	return countCmd.Val() < int64(limit), nil
}
