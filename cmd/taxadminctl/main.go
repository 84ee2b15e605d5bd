// Command taxadminctl performs operator tasks against the configured database:
// creating administrators, granting roles, enrolling TOTP and generating secrets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/haulmatch/taxadmin/internal/admin/app"
	"github.com/haulmatch/taxadmin/internal/admin/service"
	"github.com/haulmatch/taxadmin/pkg/cryptox"
)

const usage = `usage: taxadminctl <command> [flags]

commands:
  create-user   -email E [-password P] [-first F] [-last L] [-roles admin,editor]
  grant-role    -email E -role R
  delete-user   -email E
  enroll-totp   -email E
  gen-secret    print a random SESSION_SECRET

The database is selected with DATABASE_DRIVER, DATABASE_FILE and DATABASE_URL.
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "taxadminctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	if cmd == "gen-secret" {
		secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, secret)
		return nil
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	var (
		email     = fs.String("email", "", "account email")
		password  = fs.String("password", "", "initial password; generated when empty")
		firstName = fs.String("first", "", "first name")
		lastName  = fs.String("last", "", "last name")
		roles     = fs.String("roles", "admin", "comma-separated role slugs")
		role      = fs.String("role", "", "role slug to grant")
	)
	if err := fs.Parse(rest); err != nil {
		return errUsage
	}
	if *email == "" {
		return errUsage
	}

	cfg := app.LoadConfig()
	cryptox.SetPepperPath(cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return fmt.Errorf("load pepper: %w", err)
	}

	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	users := &service.UserService{Store: st, Issuer: cfg.Issuer}

	switch cmd {
	case "create-user":
		pw := *password
		if pw == "" {
			if pw, err = cryptox.GeneratePassword(); err != nil {
				return err
			}
			fmt.Fprintf(out, "generated password: %s\n", pw)
		}
		u, err := users.CreateUser(ctx, service.CreateUserInput{
			Email:     *email,
			FirstName: *firstName,
			LastName:  *lastName,
			Password:  pw,
			Roles:     splitRoles(*roles),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created user %s (%s) roles=%v\n", u.Email, u.ID, u.RoleSlugs())

	case "grant-role":
		if *role == "" {
			return errUsage
		}
		if err := users.GrantRole(ctx, *email, *role); err != nil {
			return err
		}
		fmt.Fprintf(out, "granted %s to %s\n", *role, *email)

	case "delete-user":
		if err := users.DeleteUser(ctx, *email); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", *email)

	case "enroll-totp":
		url, err := users.EnrollTOTP(ctx, *email)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, url)

	default:
		return errUsage
	}
	return nil
}

func splitRoles(s string) []string {
	var roles []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
