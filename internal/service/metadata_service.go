package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/nsxzhou1114/manga-api/internal/config"
	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"go.uber.org/zap"
)

var (
	metadataService     *MetadataService
	metadataServiceOnce sync.Once
)

// MetadataService 外部漫画元数据查询服务，结果缓存在Redis
type MetadataService struct {
	client *http.Client
	logger *zap.SugaredLogger
}

func NewMetadataService() *MetadataService {
	metadataServiceOnce.Do(func() {
		timeout := 10 * time.Second
		if cfg := config.GetConfig(); cfg != nil && cfg.Metadata.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.Metadata.TimeoutSeconds) * time.Second
		}
		metadataService = &MetadataService{
			client: &http.Client{Timeout: timeout},
			logger: logger.GetSugaredLogger(),
		}
	})
	return metadataService
}

// jikanSearchResponse Jikan接口的响应结构
type jikanSearchResponse struct {
	Data []struct {
		MalID    int     `json:"mal_id"`
		Title    string  `json:"title"`
		Synopsis string  `json:"synopsis"`
		Score    float64 `json:"score"`
		Status   string  `json:"status"`
		Images   struct {
			JPG struct {
				ImageURL string `json:"image_url"`
			} `json:"jpg"`
		} `json:"images"`
		Genres []struct {
			Name string `json:"name"`
		} `json:"genres"`
	} `json:"data"`
}

// Search 按标题检索外部元数据，命中缓存时不请求外部接口
func (s *MetadataService) Search(ctx context.Context, req *dto.MetadataSearchRequest) ([]dto.MangaMetadata, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("metadata:search:%s:%d", req.Query, limit)

	// 查缓存，缓存故障不影响主流程
	if rdb := database.GetRedis(); rdb != nil {
		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var results []dto.MangaMetadata
			if err := json.Unmarshal([]byte(cached), &results); err == nil {
				return results, nil
			}
		}
	}

	results, err := s.fetchFromJikan(ctx, req.Query, limit)
	if err != nil {
		return nil, err
	}

	if rdb := database.GetRedis(); rdb != nil {
		ttl := 24 * time.Hour
		if cfg := config.GetConfig(); cfg != nil && cfg.Metadata.CacheTTLHours > 0 {
			ttl = time.Duration(cfg.Metadata.CacheTTLHours) * time.Hour
		}
		if data, err := json.Marshal(results); err == nil {
			if err := rdb.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
				s.logger.Warnf("写入元数据缓存失败: %v", err)
			}
		}
	}

	return results, nil
}

// fetchFromJikan 请求Jikan接口，失败时带退避重试
func (s *MetadataService) fetchFromJikan(ctx context.Context, query string, limit int) ([]dto.MangaMetadata, error) {
	baseURL := "https://api.jikan.moe/v4"
	if cfg := config.GetConfig(); cfg != nil && cfg.Metadata.BaseURL != "" {
		baseURL = cfg.Metadata.BaseURL
	}

	reqURL := fmt.Sprintf("%s/manga?q=%s&limit=%d", baseURL, url.QueryEscape(query), limit)

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := s.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			// 429和5xx可重试
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return fmt.Errorf("元数据接口返回状态码 %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("元数据接口返回状态码 %d", resp.StatusCode))
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("查询外部元数据失败: %w", err)
	}

	var parsed jikanSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析元数据响应失败: %w", err)
	}

	results := make([]dto.MangaMetadata, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		genres := make([]string, 0, len(item.Genres))
		for _, g := range item.Genres {
			genres = append(genres, g.Name)
		}
		results = append(results, dto.MangaMetadata{
			MalID:    item.MalID,
			Title:    item.Title,
			Synopsis: item.Synopsis,
			Cover:    item.Images.JPG.ImageURL,
			Score:    item.Score,
			Status:   item.Status,
			Genres:   genres,
		})
	}

	return results, nil
}
