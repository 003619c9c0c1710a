package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netmockpro/netmockpro/internal/database"
	"github.com/netmockpro/netmockpro/internal/model"
	"github.com/netmockpro/netmockpro/pkg/logger"
	"gorm.io/gorm"
)

// MockCmdHandler 针对命名空间与设备的自定义模拟命令处理器
// 路由：/api/v1/mock-cmds
// 支持：查询（按namespace、device_name、enabled）、创建、查看、更新、删除

type MockCmdHandler struct{}

func NewMockCmdHandler() *MockCmdHandler { return &MockCmdHandler{} }

// MockCmdRequest 创建/更新请求体
// enabled 使用指针区分 "显式传 false" 与 "未传"
type MockCmdRequest struct {
	Namespace  string `json:"namespace"`
	DeviceName string `json:"device_name"`
	Command    string `json:"command"`
	Output     string `json:"output"`
	Enabled    *bool  `json:"enabled"`
}

// CreateMockCmd 创建自定义模拟命令
func (h *MockCmdHandler) CreateMockCmd(c *gin.Context) {
	var req MockCmdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_PARAMS", "message": "参数错误: " + err.Error()})
		return
	}
	item := model.MockCommand{
		Namespace:  strings.TrimSpace(req.Namespace),
		DeviceName: strings.TrimSpace(req.DeviceName),
		Command:    strings.TrimSpace(req.Command),
		Output:     req.Output,
		Enabled:    true,
	}
	if item.Namespace == "" || item.DeviceName == "" || item.Command == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "MISSING_FIELDS", "message": "namespace、device_name 与 command 不能为空"})
		return
	}
	// 未传 enabled 时默认启用
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}

	// 并发保护：检测到 SQLite Busy 时进行短暂重试
	if err := database.WithRetry(func(d *gorm.DB) error { return d.Create(&item).Error }, 6, 100*time.Millisecond); err != nil {
		logger.Error("Create mock command failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "CREATE_FAILED", "message": "创建失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": "SUCCESS", "message": "创建成功", "data": item})
}

// ListMockCmds 列出自定义模拟命令（按命名空间与设备筛选）
func (h *MockCmdHandler) ListMockCmds(c *gin.Context) {
	ns := strings.TrimSpace(c.Query("namespace"))
	dev := strings.TrimSpace(c.Query("device_name"))
	enabledQ := strings.TrimSpace(c.Query("enabled"))

	db := database.GetDB()
	var items []model.MockCommand
	q := db.Model(&model.MockCommand{})
	if ns != "" {
		q = q.Where("namespace = ?", ns)
	}
	if dev != "" {
		q = q.Where("device_name = ?", dev)
	}
	if enabledQ != "" {
		if enabled, err := strconv.ParseBool(enabledQ); err == nil {
			q = q.Where("enabled = ?", enabled)
		}
	}
	if err := q.Order("id DESC").Find(&items).Error; err != nil {
		logger.Error("List mock commands failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "LIST_FAILED", "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "data": items})
}

// GetMockCmd 查看单条自定义模拟命令
func (h *MockCmdHandler) GetMockCmd(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ID", "message": "ID格式错误"})
		return
	}
	var item model.MockCommand
	if err := database.GetDB().First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": "记录不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": "GET_FAILED", "message": "查询失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "data": item})
}

// UpdateMockCmd 更新自定义模拟命令
func (h *MockCmdHandler) UpdateMockCmd(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ID", "message": "ID格式错误"})
		return
	}
	var item model.MockCommand
	if err := database.GetDB().First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "message": "记录不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": "GET_FAILED", "message": "查询失败: " + err.Error()})
		return
	}

	var req MockCmdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_PARAMS", "message": "参数错误: " + err.Error()})
		return
	}
	// 部分更新：仅写入请求中出现的字段
	updates := map[string]interface{}{}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if strings.TrimSpace(req.Command) != "" {
		updates["command"] = strings.TrimSpace(req.Command)
	}
	if req.Output != "" {
		updates["output"] = req.Output
	}

	if len(updates) > 0 {
		if err := database.WithRetry(func(d *gorm.DB) error {
			return d.Model(&item).Updates(updates).Error
		}, 6, 100*time.Millisecond); err != nil {
			logger.Error("Update mock command failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": "UPDATE_FAILED", "message": "更新失败: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "更新成功", "data": item})
}

// DeleteMockCmd 删除自定义模拟命令
func (h *MockCmdHandler) DeleteMockCmd(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ID", "message": "ID格式错误"})
		return
	}
	if err := database.WithRetry(func(d *gorm.DB) error {
		return d.Delete(&model.MockCommand{}, id).Error
	}, 6, 100*time.Millisecond); err != nil {
		logger.Error("Delete mock command failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "DELETE_FAILED", "message": "删除失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "删除成功"})
}
