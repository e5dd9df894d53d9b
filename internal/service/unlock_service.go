package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"astro_learn_backend/internal/model"
	"astro_learn_backend/internal/repository"
	"astro_learn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const unlockCacheTTL = 5 * time.Minute

// UnlockService 解锁状态是进度账本的派生数据，不落库，按需计算。
// Redis 可选，client 为 nil 时每次直接计算。
type UnlockService struct {
	planetRepo   *repository.PlanetRepository
	levelRepo    *repository.LevelRepository
	progressRepo *repository.ProgressRepository
	redisClient  *redis.Client
}

func NewUnlockService(planetRepo *repository.PlanetRepository, levelRepo *repository.LevelRepository, progressRepo *repository.ProgressRepository, redisClient *redis.Client) *UnlockService {
	return &UnlockService{
		planetRepo:   planetRepo,
		levelRepo:    levelRepo,
		progressRepo: progressRepo,
		redisClient:  redisClient,
	}
}

func unlockCacheKey(userID uint) string {
	return fmt.Sprintf("unlock:levels:%d", userID)
}

// UnlockedLevelIDs 计算当前解锁的关卡集合。
// 全部激活关卡按 (星球序, 关卡序) 拉平成单一序列，无关卡的星球跳过；
// 首个关卡始终解锁，其余关卡在前一关完成后解锁。
func (s *UnlockService) UnlockedLevelIDs(ctx context.Context, userID uint) ([]uint, error) {
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, unlockCacheKey(userID)).Result(); err == nil {
			var ids []uint
			if json.Unmarshal([]byte(cached), &ids) == nil {
				return ids, nil
			}
		}
	}

	sequence, err := s.levelSequence()
	if err != nil {
		return nil, err
	}
	completed, err := s.completedSet(userID)
	if err != nil {
		return nil, err
	}

	ids := resolveUnlocked(sequence, completed)

	if s.redisClient != nil {
		if payload, err := json.Marshal(ids); err == nil {
			if err := s.redisClient.Set(ctx, unlockCacheKey(userID), payload, unlockCacheTTL).Err(); err != nil {
				logger.Log.Warn("写入解锁缓存失败", zap.Error(err))
			}
		}
	}
	return ids, nil
}

func (s *UnlockService) IsUnlocked(ctx context.Context, userID, levelID uint) (bool, error) {
	ids, err := s.UnlockedLevelIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == levelID {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate 账本每次写入后调用，保证缓存不跨越进度变更
func (s *UnlockService) Invalidate(ctx context.Context, userID uint) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, unlockCacheKey(userID)).Err(); err != nil {
		logger.Log.Warn("清除解锁缓存失败", zap.Error(err))
	}
}

// PlanetMap 星球地图视图：星球及其关卡，附带解锁与完成标记
func (s *UnlockService) PlanetMap(ctx context.Context, userID uint) ([]model.PlanetUnlockView, error) {
	planets, err := s.planetRepo.FindActiveOrdered()
	if err != nil {
		return nil, err
	}
	unlocked, err := s.UnlockedLevelIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlockedSet := make(map[uint]struct{}, len(unlocked))
	for _, id := range unlocked {
		unlockedSet[id] = struct{}{}
	}
	completed, err := s.completedSet(userID)
	if err != nil {
		return nil, err
	}

	views := make([]model.PlanetUnlockView, 0, len(planets))
	for _, planet := range planets {
		levels, err := s.levelRepo.FindActiveByPlanet(planet.ID)
		if err != nil {
			return nil, err
		}
		view := model.PlanetUnlockView{
			ID:          planet.ID,
			Title:       planet.Title,
			Description: planet.Description,
			CoverURL:    planet.CoverURL,
			OrderIndex:  planet.OrderIndex,
			Levels:      make([]model.LevelUnlockView, 0, len(levels)),
		}
		for _, level := range levels {
			_, isUnlocked := unlockedSet[level.ID]
			_, isCompleted := completed[level.ID]
			view.Levels = append(view.Levels, model.LevelUnlockView{
				ID:          level.ID,
				Title:       level.Title,
				Description: level.Description,
				OrderIndex:  level.OrderIndex,
				Unlocked:    isUnlocked,
				Completed:   isCompleted,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *UnlockService) levelSequence() ([]uint, error) {
	planets, err := s.planetRepo.FindActiveOrdered()
	if err != nil {
		return nil, err
	}
	var sequence []uint
	for _, planet := range planets {
		levels, err := s.levelRepo.FindActiveByPlanet(planet.ID)
		if err != nil {
			return nil, err
		}
		for _, level := range levels {
			sequence = append(sequence, level.ID)
		}
	}
	return sequence, nil
}

func (s *UnlockService) completedSet(userID uint) (map[uint]struct{}, error) {
	ids, err := s.progressRepo.CompletedLevelIDs(userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// resolveUnlocked 对拉平序列做一次线性扫描：
// 位置 0 解锁，位置 i 在位置 i-1 完成后解锁。
func resolveUnlocked(sequence []uint, completed map[uint]struct{}) []uint {
	unlocked := make([]uint, 0, len(sequence))
	for i, id := range sequence {
		if i == 0 {
			unlocked = append(unlocked, id)
			continue
		}
		if _, ok := completed[sequence[i-1]]; ok {
			unlocked = append(unlocked, id)
		}
	}
	return unlocked
}
