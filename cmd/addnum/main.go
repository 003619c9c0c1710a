package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
)

// sumResult 成功结果
type sumResult struct {
	Success bool `json:"success"`
	Sum     int  `json:"sum"`
}

// sumError 失败结果（供自动化脚本消费）
type sumError struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func main() {
	app := &cli.App{
		Name:  "addnum",
		Usage: "Add two numbers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "num1", Aliases: []string{"N1"}, Required: true, Usage: "first number"},
			&cli.StringFlag{Name: "num2", Aliases: []string{"N2"}, Required: true, Usage: "second number"},
		},
		Action: func(c *cli.Context) error {
			out, err := addOutput(c.String("num1"), c.String("num2"))
			if err != nil {
				// 错误信息走错误流，同时输出 JSON 供自动化消费
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				errJSON, _ := json.Marshal(sumError{Error: err.Error()})
				fmt.Println(string(errJSON))
				return cli.Exit("", 1)
			}
			fmt.Println(out)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// addOutput 解析两个数字并返回求和 JSON
func addOutput(num1, num2 string) (string, error) {
	n1, err := strconv.Atoi(num1)
	if err != nil {
		return "", err
	}
	n2, err := strconv.Atoi(num2)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(sumResult{Success: true, Sum: n1 + n2})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
