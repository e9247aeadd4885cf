package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/depot/internal/envelope"
	"github.com/mesh-intelligence/depot/internal/registry"
)

var (
	publishMetaPath string
	publishToken    string
)

func init() {
	publishCmd.Flags().StringVar(&publishMetaPath, "meta", "", "path to the publish metadata JSON (required)")
	publishCmd.Flags().StringVar(&publishToken, "token", "", "publish token (required)")
	publishCmd.MarkFlagRequired("meta")
	publishCmd.MarkFlagRequired("token")
}

var publishCmd = &cobra.Command{
	Use:   "publish <tarball>",
	Short: "Publish a package version",
	Long: `Publish uploads a tarball together with its metadata envelope. The
envelope is a JSON document carrying name, version, and the descriptive
fields; it is validated against a schema before anything is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metaData, err := os.ReadFile(publishMetaPath)
		if err != nil {
			return fmt.Errorf("read metadata envelope: %w", err)
		}
		meta, err := envelope.Parse(metaData)
		if err != nil {
			return err
		}

		body, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open tarball: %w", err)
		}
		defer body.Close()

		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		result, err := reg.Publish(cmd.Context(), registry.PublishRequest{
			Token:       publishToken,
			Name:        meta.Name,
			Version:     meta.Version,
			Description: meta.Description,
			Authors:     meta.Authors,
			License:     meta.License,
			Repository:  meta.Repository,
			Homepage:    meta.Homepage,
			Keywords:    meta.Keywords,
			Signature:   meta.Signature,
			Fingerprint: meta.Fingerprint,
			Body:        body,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}
