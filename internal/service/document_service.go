package service

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/pkg/oss"
	"github.com/tb0023/biz_go_server/internal/repository"
)

var (
	ErrTaxNotEnabled      = errors.New("未开通税务申报服务")
	ErrFileTooLarge       = errors.New("文件超过大小限制")
	ErrFileTypeNotAllowed = errors.New("不支持的文件类型")
	ErrStorageUnavailable = errors.New("文件存储服务未配置")
)

// DocumentService 税务资料上传与查询，文件存 OSS
type DocumentService struct {
	docRepo    *repository.TaxDocumentRepository
	ossClient  *oss.Client
	subService *SubscriptionService
	upload     *config.UploadConfig
}

func NewDocumentService(
	docRepo *repository.TaxDocumentRepository,
	ossClient *oss.Client,
	subService *SubscriptionService,
	upload *config.UploadConfig,
) *DocumentService {
	return &DocumentService{
		docRepo:    docRepo,
		ossClient:  ossClient,
		subService: subService,
		upload:     upload,
	}
}

// Upload 上传一份税务资料，要求已开通税务申报
func (s *DocumentService) Upload(companyID int64, filename, category string, data []byte) (*model.TaxDocument, error) {
	// OSS 未配置时禁用上传，而不是带着 nil 客户端往下走
	if s.ossClient == nil {
		return nil, ErrStorageUnavailable
	}

	sub, err := s.subService.GetByCompany(companyID)
	if err != nil {
		return nil, err
	}
	if !sub.TaxEnabled {
		return nil, ErrTaxNotEnabled
	}

	if s.upload.MaxSize > 0 && int64(len(data)) > s.upload.MaxSize {
		return nil, ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.extAllowed(ext) {
		return nil, ErrFileTypeNotAllowed
	}

	key, url, err := s.ossClient.UploadDocument(companyID, filename, data, ext)
	if err != nil {
		return nil, err
	}

	doc := &model.TaxDocument{
		CompanyID: companyID,
		Name:      filename,
		Category:  category,
		OSSKey:    key,
		URL:       url,
		Size:      int64(len(data)),
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// List 公司名下全部税务资料
func (s *DocumentService) List(companyID int64) ([]model.TaxDocument, error) {
	return s.docRepo.ListByCompany(companyID)
}

// SignedURL 生成临时下载地址
func (s *DocumentService) SignedURL(doc *model.TaxDocument) (string, error) {
	if s.ossClient == nil {
		return "", ErrStorageUnavailable
	}
	return s.ossClient.GetSignedURL(doc.OSSKey)
}

func (s *DocumentService) extAllowed(ext string) bool {
	if len(s.upload.AllowedExtensions) == 0 {
		return true
	}
	for _, allowed := range s.upload.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
