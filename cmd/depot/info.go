package main

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show a package record with all its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		rec, err := reg.GetPackage(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all packages, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		records, err := reg.ListPackages(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search packages by name, description, or keyword substring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		records, err := reg.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

var ownerCmd = &cobra.Command{
	Use:   "owner <name>",
	Short: "List the owner IDs of a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		owners, err := reg.PackageOwners(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(owners)
	},
}
