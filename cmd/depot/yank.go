package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var yankToken string

func init() {
	yankCmd.Flags().StringVar(&yankToken, "token", "", "owner token (required)")
	yankCmd.MarkFlagRequired("token")
	unyankCmd.Flags().StringVar(&yankToken, "token", "", "owner token (required)")
	unyankCmd.MarkFlagRequired("token")
}

var yankCmd = &cobra.Command{
	Use:   "yank <name> <version>",
	Short: "Mark a version unavailable for new installs",
	Long: `Yank marks a version as unavailable without deleting it. Yanked
versions stay in the version list but are skipped by latest-version
resolution and refused at download time.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setYanked(cmd, args[0], args[1], true)
	},
}

var unyankCmd = &cobra.Command{
	Use:   "unyank <name> <version>",
	Short: "Make a yanked version available again",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setYanked(cmd, args[0], args[1], false)
	},
}

func setYanked(cmd *cobra.Command, name, version string, yanked bool) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	if err := reg.SetYanked(cmd.Context(), yankToken, name, version, yanked); err != nil {
		return err
	}
	state := "yanked"
	if !yanked {
		state = "unyanked"
	}
	fmt.Printf("%s %s@%s\n", state, name, version)
	return nil
}
