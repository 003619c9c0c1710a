package cisco_ios

import (
	"github.com/netmockpro/netmockpro/addone/mock"
)

// 内置 cisco_ios 模拟命令，init 时注册到 mock 注册表
func init() {
	mock.Register(&showVersion{})
	mock.Register(&showInterfaces{})
	mock.Register(&showRunningConfig{})
}
