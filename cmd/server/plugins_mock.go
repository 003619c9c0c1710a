package main

// 引入模拟命令平台插件，触发各平台的 init() 完成注册
import (
	_ "github.com/netmockpro/netmockpro/addone/mock/platforms/cisco_ios"
)
