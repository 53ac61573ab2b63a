package handler

import (
	"errors"
	"io"
	"net/http"

	"file-vault/backend/common"
	"file-vault/backend/service"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	svc *service.FileService
}

func NewFileHandler(svc *service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

// PostUpload godoc
// @Summary 创建文件或文件夹
// @Description Create a file, image or folder record for the token's user
// @Tags files
// @Accept json
// @Produce json
// @Param X-Token header string true "session token"
// @Param body body service.CreateFileInput true "record"
// @Success 201 {object} model.File
// @Failure 400 {object} common.ErrorResponse
// @Failure 401 {object} common.ErrorResponse
// @Router /files [post]
func (h *FileHandler) PostUpload(c *gin.Context) {
	token := c.GetHeader(common.TokenHeader)
	var input service.CreateFileInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		// Authentication still decides the status of a malformed request.
		if _, authErr := h.svc.Authenticate(c.Request.Context(), token); authErr != nil {
			common.RespError(c, authErr)
			return
		}
		common.RespErrorStr(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	file, err := h.svc.Create(c.Request.Context(), token, input)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespData(c, http.StatusCreated, file)
}

// GetShow godoc
// @Summary 获取单个文件
// @Tags files
// @Produce json
// @Param X-Token header string true "session token"
// @Param id path string true "file id"
// @Success 200 {object} model.File
// @Failure 401 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /files/{id} [get]
func (h *FileHandler) GetShow(c *gin.Context) {
	file, err := h.svc.Show(c.Request.Context(), c.GetHeader(common.TokenHeader), c.Param("id"))
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespData(c, http.StatusOK, file)
}

// GetIndex godoc
// @Summary 列出文件夹内容
// @Description Lists 20 records per page; a missing or non-folder parent yields an empty list
// @Tags files
// @Produce json
// @Param X-Token header string true "session token"
// @Param parentId query string false "parent folder id, 0 for root"
// @Param page query int false "page number starting at 0"
// @Success 200 {array} model.File
// @Failure 400 {object} common.ErrorResponse
// @Failure 401 {object} common.ErrorResponse
// @Router /files [get]
func (h *FileHandler) GetIndex(c *gin.Context) {
	files, err := h.svc.List(c.Request.Context(), c.GetHeader(common.TokenHeader), c.Query("parentId"), c.Query("page"))
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespData(c, http.StatusOK, files)
}

// GetStatus reports liveness.
func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"version": common.Version,
		},
	})
}
