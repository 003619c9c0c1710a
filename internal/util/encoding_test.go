package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEnsureUTF8Passthrough 合法 UTF-8 原样返回
func TestEnsureUTF8Passthrough(t *testing.T) {
	assert.Equal(t, "", EnsureUTF8(""))
	assert.Equal(t, "show version", EnsureUTF8("show version"))
	assert.Equal(t, "接口状态", EnsureUTF8("接口状态"))
}

// TestEnsureUTF8GBK GBK 字节流转为 UTF-8
func TestEnsureUTF8GBK(t *testing.T) {
	// "中文" 的 GBK 编码
	gbk := []byte{0xd6, 0xd0, 0xce, 0xc4}
	assert.Equal(t, "中文", EnsureUTF8Bytes(gbk))
}

// TestEnsureUTF8Fallback 无法识别的字节流退回原始字符串
func TestEnsureUTF8Fallback(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0xfd}
	out := EnsureUTF8Bytes(raw)
	assert.NotEmpty(t, out)
}
