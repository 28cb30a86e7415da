package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tb0023/biz_go_server/internal/api/middleware"
	"github.com/tb0023/biz_go_server/internal/pkg/response"
	"github.com/tb0023/biz_go_server/internal/service"
)

type DocumentHandler struct {
	docService *service.DocumentService
}

func NewDocumentHandler(docService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// Upload 上传税务资料
// POST /api/documents  (multipart: file, category)
func (h *DocumentHandler) Upload(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请上传文件")
		return
	}
	category := c.PostForm("category")

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	doc, err := h.docService.Upload(companyID, fileHeader.Filename, category, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStorageUnavailable):
			response.Fail(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrTaxNotEnabled):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrFileTooLarge):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrFileTypeNotAllowed):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Created(c, doc)
}

// List 公司的税务资料列表
// GET /api/documents
func (h *DocumentHandler) List(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	docs, err := h.docService.List(companyID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.OK(c, docs)
}
