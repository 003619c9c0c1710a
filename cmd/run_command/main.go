package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/netmockpro/netmockpro/addone/mock"
	_ "github.com/netmockpro/netmockpro/addone/mock/platforms/cisco_ios"
	"github.com/netmockpro/netmockpro/internal/service"
)

func main() {
	// Ctrl-C 按正常中断处理：提示后以 0 退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		fmt.Fprint(os.Stderr, "\n\n% Command interrupted\n")
		os.Exit(0)
	}()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "\n%% Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "run_command",
		Usage: "Cisco device command simulator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "device_ip", Usage: "IP address of the device"},
			&cli.StringFlag{Name: "command", Value: "show version", Usage: "Command to execute (default: show version)"},
			&cli.BoolFlag{Name: "save", Usage: "Save output to file"},
			&cli.BoolFlag{Name: "list", Usage: "List all available commands"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	out := c.App.Writer

	// -list 优先于其它参数，列出后直接退出
	if c.Bool("list") {
		fmt.Fprintln(out, "Available commands:")
		for _, name := range mock.Commands() {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		return nil
	}

	deviceIP := c.String("device_ip")
	if deviceIP == "" {
		return cli.Exit("-device_ip is required (unless using -list)", 1)
	}

	command := c.String("command")
	output := mock.Execute(mock.NewRand(), command)

	// 按真实设备回显原样输出
	fmt.Fprintln(out, output)

	if c.Bool("save") {
		saveOutput(c.App.ErrWriter, deviceIP, command, output)
	}
	return nil
}

// saveOutput 将回显写入当前目录；失败仅在错误流提示，不影响主输出
func saveOutput(errw io.Writer, deviceIP, command, output string) {
	filename := service.ReportFilename(deviceIP, command, time.Now())
	if err := os.WriteFile(filename, []byte(output), 0o644); err != nil {
		fmt.Fprintf(errw, "\nERROR: Failed to save file: %v\n", err)
		return
	}
	fmt.Fprintf(errw, "\nOutput saved to %s\n", filename)
}
