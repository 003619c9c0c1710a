package cisco_ios

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netmockpro/netmockpro/addone/mock"
)

// TestBuiltinCommandsRegistered init 注册后注册表可分发内置命令
func TestBuiltinCommandsRegistered(t *testing.T) {
	for _, name := range []string{"show version", "show interfaces", "show running-config"} {
		g, ok := mock.Get(name)
		require.True(t, ok, "内置命令 %q 应已注册", name)
		assert.Equal(t, name, g.Command())
	}
}

// TestShowInterfacesOutput 四个接口，MAC 为 Cisco 点分格式
func TestShowInterfacesOutput(t *testing.T) {
	g := &showInterfaces{}
	out := g.Generate(rand.New(rand.NewSource(11)))

	macRe := regexp.MustCompile(`address is ([0-9a-f]{4}\.[0-9a-f]{4}\.[0-9a-f]{4}) \(bia ([0-9a-f]{4}\.[0-9a-f]{4}\.[0-9a-f]{4})\)`)
	macs := macRe.FindAllStringSubmatch(out, -1)
	require.Len(t, macs, 4, "应包含 4 个接口的 MAC 地址行")
	for _, m := range macs {
		assert.Equal(t, m[1], m[2], "bia 应与主地址一致")
	}

	for i := 1; i <= 4; i++ {
		assert.Contains(t, out, "GigabitEthernet"+string(rune('0'+i))+" is up, line protocol is up")
	}
}

// TestShowRunningConfigOutput 关键结构行存在
func TestShowRunningConfigOutput(t *testing.T) {
	g := &showRunningConfig{}
	out := g.Generate(rand.New(rand.NewSource(21)))

	assert.True(t, strings.HasPrefix(out, "Building configuration..."))
	assert.True(t, strings.HasSuffix(out, "end"))
	assert.Regexp(t, `hostname CSR-[A-Z0-9]{4}`, out)
	assert.Regexp(t, `version 1[5-7]\.\d{1,2}`, out)
}

// TestRandomMACFormat MAC 三段各四位十六进制
func TestRandomMACFormat(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	re := regexp.MustCompile(`^[0-9a-f]{4}\.[0-9a-f]{4}\.[0-9a-f]{4}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, re, randomMAC(rng))
	}
}
