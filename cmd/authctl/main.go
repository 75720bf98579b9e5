// Command authctl is the operator CLI: migrations, demo seeding, and dev
// credential minting.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"taskflask/internal/config"
	internaldb "taskflask/internal/db"
	"taskflask/internal/domain"
	"taskflask/internal/token"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:   "authctl",
		Short: "Operator tooling for the authorization core",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "taskflask.sqlite", "path to the SQLite database")

	root.AddCommand(newMigrateCmd(&dbPath))
	root.AddCommand(newSeedCmd(&dbPath))
	root.AddCommand(newTokenCmd())
	return root
}

func newMigrateCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := internaldb.OpenSQLite(*dbPath, "write", 0)
			if err != nil {
				return err
			}
			defer db.Close()
			return internaldb.RunMigrations(db)
		},
	}
}

func newSeedCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed a demo organization, users, roles, and tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := internaldb.OpenSQLite(*dbPath, "write", 0)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := internaldb.RunMigrations(db); err != nil {
				return err
			}
			return seed(cmd.Context(), db)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		space        string
		secret       string
		subjectID    int64
		orgID        int64
		membershipID int64
		ttl          time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development credential",
		RunE: func(_ *cobra.Command, _ []string) error {
			signer, err := token.NewSigner(secret, space, ttl)
			if err != nil {
				return err
			}
			var signed string
			switch space {
			case token.SpaceMember:
				signed, err = signer.SignMember(domain.Claim{
					SubjectID:      subjectID,
					OrganizationID: orgID,
					MembershipID:   membershipID,
				})
			case token.SpaceClient:
				signed, err = signer.SignClient(domain.ClientClaim{
					ContactID:      subjectID,
					OrganizationID: orgID,
				})
			}
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&space, "space", token.SpaceMember, "credential space: member or client")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to the space's env secret)")
	cmd.Flags().Int64Var(&subjectID, "subject", 0, "user or client-contact id")
	cmd.Flags().Int64Var(&orgID, "org", 0, "organization id")
	cmd.Flags().Int64Var(&membershipID, "membership", 0, "membership id (member space)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "credential lifetime")

	cmd.PreRunE = func(_ *cobra.Command, _ []string) error {
		if secret != "" {
			return nil
		}
		_ = config.LoadEnvFile(".env")
		switch space {
		case token.SpaceMember:
			secret = os.Getenv("AUTH_MEMBER_SECRET")
		case token.SpaceClient:
			secret = os.Getenv("AUTH_CLIENT_SECRET")
		}
		if secret == "" {
			return fmt.Errorf("no signing secret: pass --secret or set the env secret for the %s space", space)
		}
		return nil
	}
	return cmd
}

// seed populates a demo tenant. Idempotent: skips when users already exist.
func seed(ctx context.Context, db *sql.DB) error {
	var count int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO organizations (slug, name, subscription_plan) VALUES ('acme', 'Acme Inc', 'pro')`)
	if err != nil {
		return err
	}
	orgID, _ := res.LastInsertId()

	res, err = db.ExecContext(ctx,
		`INSERT INTO roles (organization_id, name, permissions) VALUES (?, 'owner', '["*"]')`, orgID)
	if err != nil {
		return err
	}
	ownerRoleID, _ := res.LastInsertId()

	res, err = db.ExecContext(ctx,
		`INSERT INTO roles (organization_id, name, permissions)
		 VALUES (?, 'member', '["tasks.*","projects.view","comments.*"]')`, orgID)
	if err != nil {
		return err
	}
	memberRoleID, _ := res.LastInsertId()

	users := []struct {
		email  string
		roleID int64
	}{
		{"owner@acme.test", ownerRoleID},
		{"member@acme.test", memberRoleID},
	}
	for _, u := range users {
		res, err = db.ExecContext(ctx,
			`INSERT INTO users (email, password_hash) VALUES (?, ?)`, u.email, string(hash))
		if err != nil {
			return err
		}
		userID, _ := res.LastInsertId()
		if _, err = db.ExecContext(ctx,
			`INSERT INTO memberships (user_id, organization_id, role_id, status)
			 VALUES (?, ?, ?, 'active')`, userID, orgID, u.roleID); err != nil {
			return err
		}
	}

	res, err = db.ExecContext(ctx,
		`INSERT INTO clients (organization_id, name) VALUES (?, 'Globex LLC')`, orgID)
	if err != nil {
		return err
	}
	clientID, _ := res.LastInsertId()
	if _, err = db.ExecContext(ctx,
		`INSERT INTO client_contacts (client_id, organization_id, email, password_hash)
		 VALUES (?, ?, 'contact@globex.test', ?)`, clientID, orgID, string(hash)); err != nil {
		return err
	}

	fmt.Println("seeded demo organization acme (owner@acme.test / member@acme.test, password \"password\")")
	return nil
}
