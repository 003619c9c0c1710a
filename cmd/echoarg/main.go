package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "echoarg",
		Usage: "Echo an argument back to standard output",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "echo", Aliases: []string{"ec"}, Required: true, Usage: "text to echo"},
		},
		Action: func(c *cli.Context) error {
			fmt.Println(c.String("echo"))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
