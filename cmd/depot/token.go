package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/depot/internal/auth"
	"github.com/mesh-intelligence/depot/pkg/types"
)

var tokenSuper bool

func init() {
	tokenNewCmd.Flags().BoolVar(&tokenSuper, "super", false, "mint a super-user token")
	tokenCmd.AddCommand(tokenNewCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage publish tokens",
}

var tokenNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Mint a token for a fresh identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		authn, err := auth.Open(cfg.TokenFile)
		if err != nil {
			return fmt.Errorf("open token file: %w", err)
		}

		role := types.RoleOwner
		if tokenSuper {
			role = types.RoleSuperUser
		}
		token, id, err := authn.NewToken(role)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{
			"token":    token,
			"owner_id": id.OwnerID,
			"role":     string(id.Role),
		})
	},
}
