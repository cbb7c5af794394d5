package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login [access-key]",
	Short: "Unlock the CLI with an access key",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the local login",
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, false, func(a *app) error {
		session, err := a.session()
		if err != nil {
			return err
		}
		ok, err := a.auth.Login(ctx, session, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("chave de acesso inválida")
		}
		fmt.Printf("Acesso liberado (%s)\n", session.Path())
		return nil
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, false, func(a *app) error {
		session, err := a.session()
		if err != nil {
			return err
		}
		if err := a.auth.Logout(ctx, session); err != nil {
			return err
		}
		fmt.Println("Sessão encerrada")
		return nil
	})
}
