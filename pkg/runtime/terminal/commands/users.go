package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewUsersCmd(runtime *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the users found in the sales records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _, err := runtime.Session(cmd.Context())
			if err != nil {
				return err
			}
			for _, user := range session.Users() {
				if user == "" {
					continue
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), user); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
