package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var downloadOutput string

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file (default: <name>-<version>.tgz)")
}

var downloadCmd = &cobra.Command{
	Use:   "download <name> [version]",
	Short: "Download a package artifact",
	Long: `Download fetches the artifact for a version. Without an explicit
version the newest unyanked version is selected. The artifact checksum
is printed so clients can verify integrity.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		version := ""
		if len(args) == 2 {
			version = args[1]
		}

		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		dl, err := reg.Download(cmd.Context(), name, version)
		if err != nil {
			return err
		}
		defer dl.Body.Close()

		out := downloadOutput
		if out == "" {
			out = fmt.Sprintf("%s-%s.tgz", dl.Name, dl.Version)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		if _, err := io.Copy(f, dl.Body); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}

		fmt.Printf("downloaded %s@%s to %s (%d bytes)\nchecksum: %s\n",
			dl.Name, dl.Version, out, dl.Size, dl.Checksum)
		return nil
	},
}
