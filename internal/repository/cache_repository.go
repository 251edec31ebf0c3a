package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/util"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

// SetFile : кладёт метаданные файла в кэш
func (r *CacheRepository) SetFile(ctx context.Context, file *model.UploadedFile) error {
	data, err := json.Marshal(file)
	if err != nil {
		return util.LogError("[Cache] ошибка сериализации файла", err)
	}

	cmd := r.client.Client.Set(ctx, r.fileKey(file.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("[Cache] ошибка сохранения файла в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

// GetFile : возвращает файл из кэша; (nil, nil) при промахе
func (r *CacheRepository) GetFile(ctx context.Context, fileUUID string) (*model.UploadedFile, error) {
	val, err := r.client.Client.Get(ctx, r.fileKey(fileUUID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("[Cache] ошибка получения файла из Redis", err)
	}

	var file model.UploadedFile
	if err := json.Unmarshal([]byte(val), &file); err != nil {
		return nil, util.LogError("[Cache] ошибка десериализации файла из кэша", err)
	}
	return &file, nil
}

func (r *CacheRepository) DeleteFile(ctx context.Context, fileUUID string) error {
	if err := r.client.Client.Del(ctx, r.fileKey(fileUUID)).Err(); err != nil {
		return util.LogError("[Cache] ошибка удаления файла из Redis", err)
	}
	return nil
}

// SetColumns : кэширует описание колонок листа для выбора осей
func (r *CacheRepository) SetColumns(ctx context.Context, fileUUID string, sheetName string, columns *model.ColumnsResult) error {
	data, err := json.Marshal(columns)
	if err != nil {
		return util.LogError("[Cache] ошибка сериализации колонок", err)
	}

	if err := r.client.Client.Set(ctx, r.columnsKey(fileUUID, sheetName), data, r.ttl).Err(); err != nil {
		return util.LogError("[Cache] ошибка сохранения колонок в Redis", err)
	}

	return nil
}

// GetColumns : возвращает колонки из кэша; (nil, nil) при промахе
func (r *CacheRepository) GetColumns(ctx context.Context, fileUUID string, sheetName string) (*model.ColumnsResult, error) {
	val, err := r.client.Client.Get(ctx, r.columnsKey(fileUUID, sheetName)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("[Cache] ошибка получения колонок из Redis", err)
	}

	var columns model.ColumnsResult
	if err := json.Unmarshal([]byte(val), &columns); err != nil {
		return nil, util.LogError("[Cache] ошибка десериализации колонок из кэша", err)
	}
	return &columns, nil
}

// DeleteColumns : снимает кэш колонок по всем листам файла
func (r *CacheRepository) DeleteColumns(ctx context.Context, fileUUID string) error {
	iter := r.client.Client.Scan(ctx, 0, r.columnsKey(fileUUID, "*"), 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return util.LogError("[Cache] ошибка удаления колонок из Redis", err)
		}
	}
	if err := iter.Err(); err != nil {
		return util.LogError("[Cache] ошибка обхода ключей колонок", err)
	}
	return nil
}

func (r *CacheRepository) fileKey(uuid string) string {
	return fmt.Sprintf("file:%s", uuid)
}

func (r *CacheRepository) columnsKey(uuid string, sheetName string) string {
	return fmt.Sprintf("columns:%s:%s", uuid, sheetName)
}
