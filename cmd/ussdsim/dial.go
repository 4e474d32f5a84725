package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charly-com/safenaija/internal/simulator"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var dialCmd = &cobra.Command{
	Use:   "dial",
	Short: "Dial a service code and answer menus from stdin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, _ := cmd.Flags().GetString("url")
		phone, _ := cmd.Flags().GetString("phone")
		code, _ := cmd.Flags().GetString("code")

		d, err := simulator.NewDialer(url, code, phone)
		if err != nil {
			return err
		}

		return interact(cmd, d, os.Stdin, isTerminal(os.Stdin))
	},
}

func interact(cmd *cobra.Command, d *simulator.Dialer, in io.Reader, prompt bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	resp, err := d.Dial(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, resp.Text)

	scanner := bufio.NewScanner(in)
	for !d.Ended() {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		resp, err := d.Send(ctx, scanner.Text())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resp.Text)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func init() {
	rootCmd.AddCommand(dialCmd)

	dialCmd.Flags().String("code", "*234#", "service code to dial")
}
