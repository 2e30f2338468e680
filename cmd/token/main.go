package main

import (
	"fmt"
	"os"

	"Pulseboard/internal/api/config"
	"Pulseboard/internal/pkg/security"

	"github.com/spf13/cobra"
)

func main() {
	var (
		userID uint64
		roles  []string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发用于写接口的 JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(); err != nil {
				return err
			}
			if err := security.Init(config.Cfg.Auth); err != nil {
				return err
			}
			token, err := security.GenerateToken(userID, roles)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&userID, "user", 1, "操作人ID，写入变更记录")
	cmd.Flags().StringSliceVar(&roles, "roles", []string{"editor"}, "角色")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
