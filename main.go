package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/techagentng/wefixsa/config"
	"github.com/techagentng/wefixsa/db"
	"github.com/techagentng/wefixsa/models"
	"github.com/techagentng/wefixsa/server"
	"github.com/techagentng/wefixsa/services"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	if err := newRootCommand().Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "wefixsa",
		Usage: "Municipal issue reporting: API server and on-device client",
		Commands: []*cli.Command{
			serveCommand(),
			signupCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			reportCommand(),
			dataCommand(),
		},
	}
}

// app holds the wiring shared by every command
type app struct {
	Config        *config.Config
	KV            db.KeyValueStore
	AuthService   services.AuthService
	ReportService services.ReportService
}

func loadApp(ctx context.Context) (*app, error) {
	conf, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	kv, err := db.Open(ctx, conf)
	if err != nil {
		return nil, err
	}
	if err := db.InitializeAppData(ctx, kv); err != nil {
		_ = kv.Close()
		return nil, err
	}

	reportService := services.NewReportService(db.NewReportRepo(kv), conf)
	if err := reportService.LoadReports(ctx); err != nil {
		zap.S().Warnw("continuing with an empty report list", "error", err)
	}

	return &app{
		Config:        conf,
		KV:            kv,
		AuthService:   services.NewAuthService(db.NewUserRepo(kv), conf),
		ReportService: reportService,
	}, nil
}

// withApp runs fn against a freshly loaded app and closes the store afterwards
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.KV.Close(); err != nil {
			zap.S().Warnw("error closing store", "error", err)
		}
		_ = zap.L().Sync()
	}()
	return fn(a)
}

// sessionUser returns the user logged in on this device
func (a *app) sessionUser(ctx context.Context) (*models.User, error) {
	user, err := a.AuthService.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("not logged in, run `wefixsa login` first")
	}
	return user, nil
}

func (a *app) adminUser(ctx context.Context) (*models.User, error) {
	user, err := a.sessionUser(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, errors.New("this command needs an admin session")
	}
	return user, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "seed", Usage: "JSON file of reports to load into an empty store"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, func(a *app) error {
				seedFile := c.String("seed")
				if seedFile == "" {
					seedFile = a.Config.SeedFile
				}
				if seedFile != "" {
					if _, err := seedReports(ctx, a, seedFile); err != nil {
						return err
					}
				}

				s := &server.Server{
					Config:        a.Config,
					AuthService:   a.AuthService,
					ReportService: a.ReportService,
				}
				return s.Start(ctx)
			})
		},
	}
}

func seedReports(ctx context.Context, a *app, path string) (int, error) {
	reports, err := db.LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	return a.ReportService.SeedReports(ctx, reports)
}
