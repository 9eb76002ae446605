package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"budgeto/apperr"
	"budgeto/config"
	"budgeto/database"
	"budgeto/service"
	"budgeto/store"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	configFile := fs.String("c", "", "Path to config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> [-password <password>] [-c <config>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	stores, closeStores, err := database.OpenStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStores()

	return addUser(ctx, stores.Users, *email, password, stdout)
}

// addUser 与注册接口走同一套校验和哈希
func addUser(ctx context.Context, users store.UserStore, email, password string, stdout io.Writer) error {
	user, err := service.NewCredentialService(users).Register(ctx, email, password)
	if err != nil {
		var appErr *apperr.Error
		if !apperr.Is(err, apperr.KindStorage) && errors.As(err, &appErr) {
			return errors.New(appErr.Message)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// 非终端（管道、测试）按行读取
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
