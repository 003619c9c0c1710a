package cisco_ios

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/netmockpro/netmockpro/addone/mock"
)

// showVersion 生成 show version 回显（CSR1000V 虚拟路由器样式）
type showVersion struct{}

func (g *showVersion) Command() string { return "show version" }

const showVersionTemplate = `Cisco IOS XE Software, Version %s
Cisco IOS Software [Amsterdam], Virtual XE Software (X86_64_LINUX_IOSD-UNIVERSALK9-M), Version %s, RELEASE SOFTWARE (fc3)
Technical Support: http://www.cisco.com/techsupport
Copyright (c) 1986-2021 by Cisco Systems, Inc.
Compiled %s by mcpre

Cisco IOS-XE software, Copyright (c) 2005-2021 by cisco Systems, Inc.
All rights reserved.  Certain components of Cisco IOS-XE software are
licensed under the GNU General Public License ("GPL") Version 2.0.

ROM: IOS-XE ROMMON
BOOTLDR: Virtual XE ROM

Router uptime is %s
Uptime for this control processor is %s
System returned to ROM by reload
System image file is "bootflash:packages.conf"
Last reload reason: reload

This product contains cryptographic features and is subject to United
States and local country laws governing import, export, transfer and
use. Delivery of Cisco cryptographic products does not imply
third-party authority to import, export, distribute or use encryption.

cisco CSR1000V (VXE) processor (revision VXE) with %dK/%dK bytes of memory.
Processor board ID %s
Router operating mode: Autonomous
4 Gigabit Ethernet interfaces
%dK bytes of non-volatile configuration memory.
%dK bytes of physical memory.
%dK bytes of virtual hard disk at bootflash:.

Configuration register is %s`

func (g *showVersion) Generate(rng *rand.Rand) string {
	version := randomVersion(rng)
	up := randomUptime(rng)
	serial := randomSerial(rng)
	processorMem := mock.ChoiceInt(rng, []int{1024000, 2048000, 4096000, 8192000})
	ioMem := mock.ChoiceInt(rng, []int{3075, 6147, 12291})

	// 编译时间：当前时间往前随机 30~1095 天
	compileStr := time.Now().AddDate(0, 0, -mock.IntBetween(rng, 30, 1095)).Format("Mon 02-Jan-06 15:04")

	nvram := mock.ChoiceInt(rng, []int{32768, 65536, 131072, 262144})
	physicalMem := mock.ChoiceInt(rng, []int{3984776, 7969552, 15939104})
	virtualDisk := mock.ChoiceInt(rng, []int{6139904, 12279808, 24559616})
	configReg := mock.Choice(rng, []string{"0x2102", "0x2142", "0x2100"})

	uptimeStr := formatUptime(up)
	return fmt.Sprintf(showVersionTemplate,
		version, version, compileStr, uptimeStr, uptimeStr,
		processorMem, ioMem, serial, nvram, physicalMem, virtualDisk, configReg)
}

// randomVersion 生成随机 IOS 版本号，如 17.3.4a
func randomVersion(rng *rand.Rand) string {
	major := mock.IntBetween(rng, 15, 17)
	minor := mock.IntBetween(rng, 1, 12)
	patch := mock.IntBetween(rng, 1, 9)
	// 六选一，其中三个为空：约一半概率无字母后缀
	suffix := mock.Choice(rng, []string{"", "", "", "a", "b", "c"})
	return fmt.Sprintf("%d.%d.%d%s", major, minor, patch, suffix)
}

type uptime struct {
	weeks, days, hours, minutes int
}

func randomUptime(rng *rand.Rand) uptime {
	return uptime{
		weeks:   rng.Intn(53),
		days:    rng.Intn(7),
		hours:   rng.Intn(24),
		minutes: rng.Intn(60),
	}
}

// formatUptime 组装人类可读的 uptime 文本
// 周/天为零时省略，小时与分钟总是输出，数量为 1 时使用单数名词
func formatUptime(u uptime) string {
	parts := make([]string, 0, 4)
	if u.weeks > 0 {
		parts = append(parts, pluralize(u.weeks, "week"))
	}
	if u.days > 0 {
		parts = append(parts, pluralize(u.days, "day"))
	}
	parts = append(parts, pluralize(u.hours, "hour"), pluralize(u.minutes, "minute"))
	return strings.Join(parts, ", ")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

const serialAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomSerial 生成 11 位大写字母数字序列号
func randomSerial(rng *rand.Rand) string {
	var b strings.Builder
	for i := 0; i < 11; i++ {
		b.WriteByte(serialAlphabet[rng.Intn(len(serialAlphabet))])
	}
	return b.String()
}
