package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 各状态码的默认消息
var statusMessages = map[int]string{
	http.StatusBadRequest:          "参数错误",
	http.StatusUnauthorized:        "认证失败",
	http.StatusForbidden:           "权限不足",
	http.StatusNotFound:            "资源不存在",
	http.StatusConflict:            "操作冲突，请重试",
	http.StatusInternalServerError: "服务器内部错误",
}

// ErrorBody 错误响应体。前端依赖扁平结构：message 之外的
// 补充字段（如 currentTeamSize、daysRemaining）直接平铺在顶层。
type ErrorBody map[string]interface{}

// PageData 分页数据结构
type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Items    interface{} `json:"items"`
}

// OK 200 成功响应，直接返回资源本体
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// OKMessage 200 仅返回消息
func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Page 分页响应
func Page(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, PageData{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    items,
	})
}

// Fail 错误响应，extras 平铺进响应体
func Fail(c *gin.Context, status int, message string, extras ...ErrorBody) {
	if message == "" {
		message = statusMessages[status]
	}
	body := gin.H{"message": message}
	for _, extra := range extras {
		for k, v := range extra {
			body[k] = v
		}
	}
	c.JSON(status, body)
}

// BadRequest 400 参数/前置条件错误
func BadRequest(c *gin.Context, message string, extras ...ErrorBody) {
	Fail(c, http.StatusBadRequest, message, extras...)
}

// Unauthorized 401 认证失败
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// Conflict 409 并发冲突
func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, message)
}

// ServerError 500 内部错误，不向客户端泄露细节
func ServerError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}
