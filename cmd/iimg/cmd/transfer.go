package cmd

import (
	"github.com/apex/log"
	iterm2img "github.com/blacktop/go-iterm2img"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(transferCmd)
}

var transferCmd = &cobra.Command{
	Use:   "transfer <file>",
	Short: "Transfer a file from the machine you are logged into to your desktop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		esc, err := iterm2img.Open(args[0])
		if err != nil {
			return err
		}
		log.Debugf("payload: %s (%s)", esc.Name, humanize.Bytes(uint64(esc.Size())))
		return esc.Print()
	},
}
