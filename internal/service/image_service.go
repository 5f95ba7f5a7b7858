package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nsxzhou1114/manga-api/internal/config"
	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/model"
	"github.com/tencentyun/cos-go-sdk-v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageService 图片上传服务
// avatar桶按用户ID划分目录，cover和page桶仅管理员可写
type ImageService struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	config *config.Config
}

// NewImageService 创建图片服务实例
func NewImageService() *ImageService {
	return &ImageService{
		db:     database.GetDB(),
		log:    logger.GetSugaredLogger(),
		config: config.GetConfig(),
	}
}

// Upload 上传图片到指定桶
func (s *ImageService) Upload(userID uint, role string, bucket string, file *multipart.FileHeader) (*model.Image, error) {
	if err := s.checkBucketPermission(role, bucket); err != nil {
		return nil, err
	}

	if err := s.validateImageFile(file); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %v", err)
	}
	defer src.Close()

	fileData, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("读取文件数据失败: %v", err)
	}

	// 校验确实是图片
	if _, _, err := image.Decode(bytes.NewReader(fileData)); err != nil {
		return nil, errors.New("文件不是有效的图片")
	}

	objectName := s.buildObjectName(userID, bucket, file.Filename)

	storageType := s.config.Storage.Type
	if storageType == "" {
		storageType = "local"
	}

	var imageURL, imagePath string
	if storageType == "cos" {
		imageURL, err = s.uploadToTencentCOS(objectName, fileData)
		if err != nil {
			return nil, err
		}
		imagePath = objectName
	} else {
		imagePath, imageURL, err = s.uploadToLocal(objectName, fileData)
		if err != nil {
			return nil, err
		}
	}

	imageModel := &model.Image{
		URL:         imageURL,
		Path:        imagePath,
		Filename:    file.Filename,
		Size:        int(file.Size),
		MimeType:    file.Header.Get("Content-Type"),
		UserID:      userID,
		Bucket:      bucket,
		StorageType: storageType,
	}

	if err := s.db.Create(imageModel).Error; err != nil {
		// 数据库保存失败时删除已上传的本地文件
		if storageType == "local" {
			os.Remove(imagePath)
		}
		return nil, fmt.Errorf("保存图片信息失败: %v", err)
	}

	return imageModel, nil
}

// Delete 删除图片，仅上传者或管理员可用
func (s *ImageService) Delete(userID uint, role string, imageID uint) error {
	var img model.Image
	if err := s.db.First(&img, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("图片不存在")
		}
		return err
	}

	if role != "admin" && img.UserID != userID {
		return errors.New("没有权限删除此图片")
	}

	if err := s.db.Delete(&img).Error; err != nil {
		return err
	}

	if img.StorageType == "local" {
		go func() {
			if err := os.Remove(img.Path); err != nil {
				s.log.Errorf("删除本地文件失败: %v", err)
			}
		}()
	}

	return nil
}

// GetByID 根据ID获取图片
func (s *ImageService) GetByID(imageID uint) (*model.Image, error) {
	var img model.Image
	if err := s.db.First(&img, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("图片不存在")
		}
		return nil, err
	}
	return &img, nil
}

// checkBucketPermission 检查桶写入权限
func (s *ImageService) checkBucketPermission(role string, bucket string) error {
	switch bucket {
	case model.ImageBucketAvatar:
		// 任何登录用户都可以上传自己的头像
		return nil
	case model.ImageBucketCover, model.ImageBucketPage:
		if role != "admin" {
			return errors.New("没有权限上传到该目录")
		}
		return nil
	default:
		return errors.New("不支持的上传目录")
	}
}

// buildObjectName 生成对象名，头像按用户ID划分目录
func (s *ImageService) buildObjectName(userID uint, bucket string, filename string) string {
	ext := filepath.Ext(filename)
	name := uuid.NewString() + ext

	switch bucket {
	case model.ImageBucketAvatar:
		return fmt.Sprintf("avatars/%d/%s", userID, name)
	case model.ImageBucketCover:
		return fmt.Sprintf("covers/%s", name)
	default:
		return fmt.Sprintf("pages/%s", name)
	}
}

// validateImageFile 验证图片文件
func (s *ImageService) validateImageFile(file *multipart.FileHeader) error {
	maxSize := s.config.Storage.MaxFileSize
	if maxSize > 0 && file.Size > maxSize {
		return fmt.Errorf("文件大小超过限制，最大允许 %d MB", maxSize/(1024*1024))
	}

	allowedTypes := make(map[string]bool)
	for _, t := range s.config.Storage.AllowTypes {
		allowedTypes[t] = true
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		return fmt.Errorf("不支持的文件类型: %s", contentType)
	}

	return nil
}

// uploadToLocal 上传到本地存储
func (s *ImageService) uploadToLocal(objectName string, data []byte) (string, string, error) {
	filePath := filepath.Join(s.config.Storage.Local.Path, objectName)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", "", fmt.Errorf("创建上传目录失败: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", "", fmt.Errorf("保存文件失败: %v", err)
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimRight(s.config.Storage.Local.URLPrefix, "/"), objectName)

	return filePath, fileURL, nil
}

// uploadToTencentCOS 上传文件到腾讯云COS
func (s *ImageService) uploadToTencentCOS(objectName string, data []byte) (string, error) {
	cosConfig := s.config.Storage.COS

	u, err := url.Parse(cosConfig.BucketURL)
	if err != nil {
		return "", fmt.Errorf("解析COS URL失败: %v", err)
	}

	b := &cos.BaseURL{BucketURL: u}
	client := cos.NewClient(b, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cosConfig.SecretID,
			SecretKey: cosConfig.SecretKey,
		},
	})

	r := bytes.NewReader(data)
	if _, err := client.Object.Put(context.Background(), objectName, r, nil); err != nil {
		s.log.Errorf("上传到腾讯云失败: %v", err)
		return "", fmt.Errorf("上传到腾讯云失败: %v", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimRight(cosConfig.BucketURL, "/"), objectName), nil
}
