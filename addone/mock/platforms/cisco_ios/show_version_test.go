package cisco_ios

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	versionRe = regexp.MustCompile(`^Cisco IOS XE Software, Version (1[5-7])\.(\d{1,2})\.(\d)([abc]?)$`)
	serialRe  = regexp.MustCompile(`^Processor board ID ([A-Z0-9]{11})$`)
	uptimeRe  = regexp.MustCompile(`^Router uptime is (.+)$`)
)

// TestShowVersionProperties 多种子验证 show version 输出的结构性质
func TestShowVersionProperties(t *testing.T) {
	g := &showVersion{}
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		out := g.Generate(rng)
		lines := strings.Split(out, "\n")

		// 首行版本号在定义的数值范围内
		m := versionRe.FindStringSubmatch(lines[0])
		require.NotNil(t, m, "种子 %d：版本行格式不符: %q", seed, lines[0])

		// Configuration register 行有且仅有一行，取值在候选集内
		var regLines []string
		for _, l := range lines {
			if strings.HasPrefix(l, "Configuration register is ") {
				regLines = append(regLines, l)
			}
		}
		require.Len(t, regLines, 1, "种子 %d：Configuration register 行应有且仅有一行", seed)
		reg := strings.TrimPrefix(regLines[0], "Configuration register is ")
		assert.Contains(t, []string{"0x2102", "0x2142", "0x2100"}, reg)

		// uptime 不出现 0 weeks / 0 days，且总有 hour 与 minute 子句
		for _, l := range lines {
			um := uptimeRe.FindStringSubmatch(l)
			if um == nil {
				continue
			}
			uptimeStr := um[1]
			assert.NotContains(t, uptimeStr, "0 weeks", "种子 %d", seed)
			assert.NotContains(t, uptimeStr, "0 days", "种子 %d", seed)
			assert.Regexp(t, `\d+ hours?, \d+ minutes?$`, uptimeStr, "种子 %d", seed)
		}

		// 序列号为 11 位大写字母数字
		var serialSeen bool
		for _, l := range lines {
			if sm := serialRe.FindStringSubmatch(l); sm != nil {
				serialSeen = true
			}
		}
		assert.True(t, serialSeen, "种子 %d：应包含 Processor board ID 行", seed)

		// 末行即 Configuration register 行
		assert.Equal(t, regLines[0], lines[len(lines)-1])
	}
}

// TestShowVersionDeterministic 相同种子输出一致
func TestShowVersionDeterministic(t *testing.T) {
	g := &showVersion{}
	out1 := g.Generate(rand.New(rand.NewSource(7)))
	out2 := g.Generate(rand.New(rand.NewSource(7)))
	assert.Equal(t, out1, out2, "相同种子应产生相同回显")
}

// TestFormatUptime 单复数与零值省略规则
func TestFormatUptime(t *testing.T) {
	cases := []struct {
		u    uptime
		want string
	}{
		{uptime{0, 0, 0, 0}, "0 hours, 0 minutes"},
		{uptime{0, 0, 1, 1}, "1 hour, 1 minute"},
		{uptime{1, 0, 2, 30}, "1 week, 2 hours, 30 minutes"},
		{uptime{2, 1, 0, 5}, "2 weeks, 1 day, 0 hours, 5 minutes"},
		{uptime{52, 6, 23, 59}, "52 weeks, 6 days, 23 hours, 59 minutes"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatUptime(tc.u), "uptime %+v", tc.u)
	}
}

// TestRandomVersionRange 版本号各段落在定义区间
func TestRandomVersionRange(t *testing.T) {
	re := regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)([abc]?)$`)
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 500; i++ {
		v := randomVersion(rng)
		m := re.FindStringSubmatch(v)
		require.NotNil(t, m, "版本号格式不符: %q", v)
		assert.Contains(t, []string{"15", "16", "17"}, m[1])
	}
}

// TestRandomSerial 序列号长度与字符集
func TestRandomSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		s := randomSerial(rng)
		assert.Regexp(t, fmt.Sprintf(`^[A-Z0-9]{%d}$`, 11), s)
	}
}
