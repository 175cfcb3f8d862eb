package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	loginEmail string
	loginSenha string
)

// loginCmd authenticates and persists the session for later commands.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Autentica no servidor SIGPesq e guarda a sessão",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}

		email := loginEmail
		if email == "" {
			email, err = prompt("Email: ")
			if err != nil {
				return err
			}
		}
		senha := loginSenha
		if senha == "" {
			senha, err = prompt("Senha: ")
			if err != nil {
				return err
			}
		}

		e.manager.Initialize()
		ok, msg := e.manager.Login(context.Background(), email, senha)
		if !ok {
			return fmt.Errorf("%s", msg)
		}

		user := e.manager.CurrentUser()
		logger.Debug("login succeeded", zap.String("cpf", user.CPF))
		fmt.Printf("Autenticado como %s (%s)\n", user.Name, user.Type)
		return nil
	},
}

// logoutCmd discards the persisted session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Encerra a sessão local",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		e.manager.Initialize()
		e.manager.Logout()
		fmt.Println("Sessão encerrada.")
		return nil
	},
}

// whoamiCmd shows the logged-in identity.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Mostra o usuário autenticado",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		if err := e.requireSession(); err != nil {
			return err
		}
		u := e.manager.CurrentUser()
		fmt.Printf("%s (%s) CPF %s\n", u.Name, u.Type, u.CPF)
		return nil
	},
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email de acesso")
	loginCmd.Flags().StringVar(&loginSenha, "senha", "", "senha (evite em shells compartilhados; sem a flag o valor é pedido no terminal)")
}
