package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ordercrm/internal/account"
	"ordercrm/internal/config"
	apperrors "ordercrm/internal/errors"
	"ordercrm/internal/infrastructure/logger"
	"ordercrm/internal/infrastructure/mysql"
	"ordercrm/internal/product"
	productrepo "ordercrm/internal/product/repository"
)

type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	db         *sql.DB
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "manage",
		Short:         "Administrative tasks for ordercrm",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "path to the YAML config file")

	root.AddCommand(a.migrateCmd(), a.createAdminCmd(), a.addProductCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func (a *app) open() error {
	_ = godotenv.Load()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	a.logger, err = logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	a.db, err = mysql.NewConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mysql.Migrate(cmd.Context(), a.db, a.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func (a *app) createAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "createadmin",
		Short: "Create a user in the admin group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := account.NewService(a.db, a.logger).CreateAdmin(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) addProductCmd() *cobra.Command {
	var req product.CreateProductRequest

	cmd := &cobra.Command{
		Use:   "addproduct",
		Short: "Add a product to the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := product.NewService(productrepo.NewMySQLProductRepository(a.db), a.logger)
			p, err := svc.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %q created (id %d, price %s)\n", p.Name, p.ID, p.Price.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "product name")
	cmd.Flags().StringVar(&req.Price, "price", "", "price, e.g. 19.99")
	cmd.Flags().StringVar(&req.Category, "category", "", `"Indoor" or "Out Door"`)
	cmd.Flags().StringVar(&req.Description, "description", "", "free text")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// describe spells out the field messages of a validation error.
func describe(err error) string {
	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		return err.Error()
	}
	lines := []string{ve.Message}
	for _, d := range ve.Details {
		lines = append(lines, fmt.Sprintf("  %s: %s", d.Field, d.Message))
	}
	return strings.Join(lines, "\n")
}
