package mock

import (
	"math/rand"
	"time"
)

// InvalidInput Cisco 风格的未识别命令回显（原样返回，不作为 error 处理）
const InvalidInput = "% Invalid input detected at '^' marker."

// Generator 模拟命令生成器
// Command 返回注册键（完整命令文本），Generate 使用注入的随机源生成回显，
// 便于测试时传入固定种子获得确定性输出
type Generator interface {
	Command() string
	Generate(rng *rand.Rand) string
}

// Execute 执行模拟命令：已注册则生成回显，未注册返回固定错误文案
// 命令匹配为精确匹配，不做大小写与空白归一化
func Execute(rng *rand.Rand, command string) string {
	if g, ok := Get(command); ok {
		return g.Generate(rng)
	}
	return InvalidInput
}

// NewRand 创建进程级默认随机源（不可复现，跨 goroutine 使用需各自创建）
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Choice 从候选列表中均匀取一个字符串
func Choice(rng *rand.Rand, opts []string) string {
	return opts[rng.Intn(len(opts))]
}

// ChoiceInt 从候选列表中均匀取一个整数
func ChoiceInt(rng *rand.Rand, opts []int) int {
	return opts[rng.Intn(len(opts))]
}

// IntBetween 返回 [min,max] 区间内的均匀随机整数
func IntBetween(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}
