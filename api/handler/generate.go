package handler

import (
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netmockpro/netmockpro/addone/mock"
	"github.com/netmockpro/netmockpro/internal/service"
	"github.com/netmockpro/netmockpro/pkg/logger"
)

// GenerateHandler 回显生成接口
// 与 CLI 共用 mock 注册表，保存逻辑走归档服务

type GenerateHandler struct {
	archive *service.ArchiveService
	rngMu   sync.Mutex
	rng     *rand.Rand
}

func NewGenerateHandler(archive *service.ArchiveService) *GenerateHandler {
	return &GenerateHandler{archive: archive, rng: mock.NewRand()}
}

// Health 健康检查
func (h *GenerateHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format("2006-01-02 15:04:05"),
	})
}

// ListCommands 列出所有内置模拟命令
func (h *GenerateHandler) ListCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "data": mock.Commands()})
}

// GenerateRequest 生成请求
type GenerateRequest struct {
	DeviceIP string `json:"device_ip" binding:"required"`
	Command  string `json:"command"`
	Save     bool   `json:"save"`
	Backend  string `json:"backend"`
}

// Generate 生成一条模拟回显；save 为 true 时归档并返回记录
// 未识别命令按正常输出返回固定错误文案，不视为接口错误
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_PARAMS", "message": "参数错误: " + err.Error()})
		return
	}
	command := strings.TrimSpace(req.Command)
	if command == "" {
		command = "show version"
	}

	// rand.Rand 非并发安全，串行化生成
	h.rngMu.Lock()
	output := mock.Execute(h.rng, command)
	h.rngMu.Unlock()

	resp := gin.H{"device_ip": req.DeviceIP, "command": command, "output": output}
	if req.Save {
		rep, err := h.archive.Save(c.Request.Context(), req.DeviceIP, command, output, req.Backend)
		if err != nil {
			// 保存失败不影响主输出，与 CLI 行为一致
			logger.Error("Save report failed", "error", err)
			resp["save_error"] = err.Error()
		} else {
			resp["report"] = rep
		}
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "data": resp})
}
