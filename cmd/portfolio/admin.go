package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/portfolio"
)

var adminPassword string

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin credentials",
}

var adminPasswdCmd = &cobra.Command{
	Use:   "passwd <username>",
	Short: "Create an admin credential or replace its password",
	Long: `passwd stores a bcrypt hash for username, creating the credential when it
does not exist. Without --password the password is read from the first line
of standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := adminPassword
		if password == "" {
			var err error
			password, err = readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}

		store, err := openStore(settings.Site)
		if err != nil {
			return err
		}
		defer store.Close()

		created, err := portfolio.SetAdminPassword(cmd.Context(), store, args[0], password)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "updated password for %q\n", args[0])
		}
		return nil
	},
}

func init() {
	adminPasswdCmd.Flags().StringVar(&adminPassword, "password", "", "new password (read from stdin when empty)")
	adminCmd.AddCommand(adminPasswdCmd)
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
