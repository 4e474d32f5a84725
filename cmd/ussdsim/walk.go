package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charly-com/safenaija/internal/simulator"

	"github.com/spf13/cobra"
)

var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Run a scripted dialog",
	Long: `Run a dialog from --input, or every dialog in a YAML --script file.
Exits non-zero when a script's expectation is not met.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, _ := cmd.Flags().GetString("url")
		phone, _ := cmd.Flags().GetString("phone")
		code, _ := cmd.Flags().GetString("code")
		inputs, _ := cmd.Flags().GetStringSlice("input")
		expect, _ := cmd.Flags().GetString("expect")
		path, _ := cmd.Flags().GetString("script")

		scripts := []simulator.Script{{
			Name:        "cli",
			ServiceCode: code,
			Inputs:      inputs,
			Expect:      expect,
		}}

		if path != "" {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			if scripts, err = simulator.LoadScripts(f); err != nil {
				return err
			}
		}

		for _, s := range scripts {
			tr, err := s.Run(cmd.Context(), url, phone)
			printTranscript(cmd.OutOrStdout(), s.Name, tr)
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func printTranscript(w io.Writer, name string, tr simulator.Transcript) {
	fmt.Fprintf(w, "== %s\n", name)
	for _, resp := range tr {
		fmt.Fprintln(w, resp.Render())
		fmt.Fprintln(w)
	}
}

func init() {
	rootCmd.AddCommand(walkCmd)

	walkCmd.Flags().String("code", "*234#", "service code to dial")
	walkCmd.Flags().StringSlice("input", nil, "comma separated inputs, one per menu")
	walkCmd.Flags().String("expect", "", "text the final response must contain")
	walkCmd.Flags().String("script", "", "YAML file of scripted dialogs")
}
