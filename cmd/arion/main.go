// Command arion converts between ARION and JSON on files or standard
// input. The codec itself lives in the library; this is only the file
// plumbing around it.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	arion "github.com/alpinum/go-arion"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "arion",
		Usage: "convert between ARION and JSON",
		Commands: []*cli.Command{
			decodeCommand(),
			encodeCommand(),
			fmtCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "arion:", err)
		os.Exit(1)
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "read ARION and print JSON",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "compact", Aliases: []string{"c"}, Usage: "print compact JSON"},
		},
		Action: func(c *cli.Context) error {
			data, err := readInput(c)
			if err != nil {
				return err
			}
			out, err := arion.ToJSON(data)
			if err != nil {
				return err
			}
			if !c.Bool("compact") {
				var indented bytes.Buffer
				if err := json.Indent(&indented, out, "", "  "); err != nil {
					return err
				}
				out = indented.Bytes()
			}
			_, err = fmt.Println(string(out))
			return err
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "read JSON and print ARION",
		ArgsUsage: "[file]",
		Flags:     writeFlags(),
		Action: func(c *cli.Context) error {
			data, err := readInput(c)
			if err != nil {
				return err
			}
			out, err := arion.FromJSON(data, writeOptions(c)...)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

func fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "rewrite ARION in canonical form",
		ArgsUsage: "[file]",
		Flags:     writeFlags(),
		Action: func(c *cli.Context) error {
			data, err := readInput(c)
			if err != nil {
				return err
			}
			v, err := arion.Parse(data)
			if err != nil {
				return err
			}
			out, err := arion.Format(v, writeOptions(c)...)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

func writeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "indent", Value: 2, Usage: "spaces per indentation level"},
		&cli.BoolFlag{Name: "no-header", Usage: "omit the !ARION 1.0 header"},
	}
}

func writeOptions(c *cli.Context) []arion.Option {
	opts := []arion.Option{arion.Indent(c.Int("indent"))}
	if c.Bool("no-header") {
		opts = append(opts, arion.OmitHeader())
	}
	return opts
}

func readInput(c *cli.Context) ([]byte, error) {
	if path := c.Args().First(); path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}
