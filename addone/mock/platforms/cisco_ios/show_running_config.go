package cisco_ios

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/netmockpro/netmockpro/addone/mock"
)

// showRunningConfig 生成 show running-config 回显
type showRunningConfig struct{}

func (g *showRunningConfig) Command() string { return "show running-config" }

const runningConfigTemplate = `Building configuration...

Current configuration : %d bytes
!
version %d.%d
service timestamps debug datetime msec
service timestamps log datetime msec
platform qfp utilization monitor load 80
platform punt-keepalive disable-kernel-core
platform console virtual
!
hostname %s
!
boot-start-marker
boot-end-marker
!
no aaa new-model
!
interface GigabitEthernet1
 ip address 10.0.1.1 255.255.255.0
 negotiation auto
!
interface GigabitEthernet2
 no ip address
 shutdown
 negotiation auto
!
ip forward-protocol nd
no ip http server
!
line con 0
 stopbits 1
line vty 0 4
 login
!
end`

func (g *showRunningConfig) Generate(rng *rand.Rand) string {
	major := mock.IntBetween(rng, 15, 17)
	minor := mock.IntBetween(rng, 1, 12)
	hostname := randomHostname(rng)
	size := mock.IntBetween(rng, 1800, 9600)
	return fmt.Sprintf(runningConfigTemplate, size, major, minor, hostname)
}

// randomHostname 生成 CSR-XXXX 样式的主机名
func randomHostname(rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString("CSR-")
	for i := 0; i < 4; i++ {
		b.WriteByte(serialAlphabet[rng.Intn(len(serialAlphabet))])
	}
	return b.String()
}
