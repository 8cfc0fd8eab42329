// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/opsboard/internal/analytics"
	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/authz"
	"github.com/tomtom215/opsboard/internal/cache"
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/dashboard"
	"github.com/tomtom215/opsboard/internal/datasource"
	"github.com/tomtom215/opsboard/internal/models"
)

// app carries the collaborators commands share. Tests replace both.
type app struct {
	loadConfig func() (*config.Config, error)
	now        func() time.Time
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "opsctl",
		Short:         "Operator tooling for the Opsboard dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       version,
	}
	root.AddCommand(
		newTokenCmd(a),
		newVerifyCmd(a),
		newExportCmd(a),
		newConfigCmd(a),
	)
	return root
}

func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		name    string
		role    string
		team    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an HS256 token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			issuer, err := auth.NewIssuer(&cfg.Auth)
			if err != nil {
				return err
			}
			token, err := issuer.Mint(subject, name, role, team, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "opsctl@example.com", "subject claim")
	cmd.Flags().StringVar(&name, "name", "Opsctl User", "name claim")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleDeveloper), "role claim, written as given")
	cmd.Flags().StringVar(&team, "team", "", "team claim; omitted when empty")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Validate a token and print its normalized claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			validator, err := auth.NewValidator(&cfg.Auth, a.now)
			if err != nil {
				return err
			}
			claims, err := validator.Validate(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), claims)
		},
	}
}

// exportFlags mirror the dashboard controls.
type exportFlags struct {
	role      string
	team      string
	start     string
	end       string
	products  []string
	regions   []string
	systems   []string
	teams     []string
	minProfit string
	owner     string
	out       string
}

func (f *exportFlags) controls() (analytics.Controls, error) {
	c := analytics.Controls{
		StartDate:  f.start,
		EndDate:    f.end,
		Products:   f.products,
		Regions:    f.regions,
		Systems:    f.systems,
		Teams:      f.teams,
		OwnerQuery: f.owner,
	}
	if f.minProfit != "" {
		v, err := strconv.ParseFloat(f.minProfit, 64)
		if err != nil {
			return c, fmt.Errorf("invalid --min-profit %q", f.minProfit)
		}
		c.MinProfit = &v
	}
	return c, nil
}

func newExportCmd(a *app) *cobra.Command {
	f := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered detail table as CSV",
		Long: `Load today's dataset from the configured provider, apply the same
row-level security and filters as the dashboard, and write the CSV export.
The file is named like a dashboard download unless --out is given; use
--out - for standard output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), a, f, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.role, "role", string(auth.RoleCIO), "role to export as")
	flags.StringVar(&f.team, "team", "", "team to export as")
	flags.StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	flags.StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
	flags.StringSliceVar(&f.products, "products", nil, "products to include")
	flags.StringSliceVar(&f.regions, "regions", nil, "regions to include")
	flags.StringSliceVar(&f.systems, "systems", nil, "systems to include")
	flags.StringSliceVar(&f.teams, "teams", nil, "teams to include")
	flags.StringVar(&f.minProfit, "min-profit", "", "minimum profit per row")
	flags.StringVar(&f.owner, "owner", "", "case-insensitive owner substring")
	flags.StringVar(&f.out, "out", "", "output path, - for stdout")
	return cmd
}

func runExport(ctx context.Context, a *app, f *exportFlags, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	controls, err := f.controls()
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	provider := datasource.NewProvider(cfg, datasource.Options{Now: a.now})
	repo := datasource.NewRepository(provider, cache.NewMemoizer[models.Dataset](nil, 0, datasource.CacheNamespace), cfg.Data.MaxRows, a.now)

	gate, err := authz.NewGate(&cfg.Auth)
	if err != nil {
		return err
	}
	dash, err := dashboard.New(repo, gate, a.now)
	if err != nil {
		return err
	}

	claims := &auth.Claims{
		Subject: "opsctl",
		Name:    "opsctl",
		Role:    auth.NormalizeRole(f.role),
		Team:    f.team,
		Expiry:  a.now().Add(time.Hour),
	}
	out, err := dash.Evaluate(ctx, claims, controls)
	if err != nil {
		return err
	}
	if out.FilterError != "" {
		return errors.New(dashboard.InvalidFiltersPrefix + out.FilterError)
	}

	dl, err := dash.Export(out.Table, dashboard.TransportCLI)
	if err != nil {
		return err
	}

	path := f.out
	if path == "" {
		path = dl.Filename
	}
	if path == "-" {
		_, err = io.WriteString(stdout, dl.Content)
		return err
	}
	if err := os.WriteFile(path, []byte(dl.Content), 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	_, err = fmt.Fprintf(stdout, "wrote %d rows to %s\n", len(out.Table), path)
	return err
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg.Redacted())
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
