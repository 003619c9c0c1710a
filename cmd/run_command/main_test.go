package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/netmockpro/netmockpro/addone/mock"
)

func testApp(stdout, stderr *bytes.Buffer) *cli.App {
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = stderr
	// 测试中不真正退出进程，退出码通过返回的 ExitCoder 校验
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

// TestListIgnoresOtherArgs -list 优先于其它参数并以 0 退出
func TestListIgnoresOtherArgs(t *testing.T) {
	var out, errb bytes.Buffer
	app := testApp(&out, &errb)

	require.NoError(t, app.Run([]string{"run_command", "--command", "bogus", "--list"}))

	assert.True(t, strings.HasPrefix(out.String(), "Available commands:\n"), "应以命令清单开头")
	for _, name := range mock.Commands() {
		assert.Contains(t, out.String(), "  - "+name+"\n")
	}
	assert.NotContains(t, out.String(), "% Invalid input", "-list 不应执行命令")
}

// TestMissingDeviceIP 缺少 -device_ip 时非零退出且无主输出
func TestMissingDeviceIP(t *testing.T) {
	var out, errb bytes.Buffer
	app := testApp(&out, &errb)

	err := app.Run([]string{"run_command"})
	var ec cli.ExitCoder
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, 1, ec.ExitCode())
	assert.Empty(t, out.String())
}

// TestUnknownCommandSentinel 未注册命令输出固定错误文案
func TestUnknownCommandSentinel(t *testing.T) {
	var out, errb bytes.Buffer
	app := testApp(&out, &errb)

	require.NoError(t, app.Run([]string{"run_command", "--device_ip", "1.1.1.1", "--command", "show clock"}))
	assert.Equal(t, mock.InvalidInput+"\n", out.String())
}

// TestSaveMatchesPrinted -save 保存的文件内容与打印输出一致
func TestSaveMatchesPrinted(t *testing.T) {
	t.Chdir(t.TempDir())
	var out, errb bytes.Buffer
	app := testApp(&out, &errb)

	require.NoError(t, app.Run([]string{"run_command", "--device_ip", "1.1.1.1", "--save"}))

	matches, err := filepath.Glob("1.1.1.1_show_version_*.txt")
	require.NoError(t, err)
	require.Len(t, matches, 1, "应生成一个保存文件")

	saved, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, string(saved)+"\n", out.String(), "文件内容应与打印输出一致")
	assert.Contains(t, errb.String(), "Output saved to "+matches[0])
}
