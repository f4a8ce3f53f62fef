package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/techagentng/wefixsa/db"
	"github.com/techagentng/wefixsa/models"
)

func signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Register a citizen account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "name"},
			&cli.StringFlag{Name: "email"},
			&cli.StringFlag{Name: "phone"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			request := &models.SignupRequest{
				Username: c.String("username"),
				Password: c.String("password"),
				Name:     c.String("name"),
				Email:    c.String("email"),
				Phone:    c.String("phone"),
			}
			if err := models.ValidateStruct(request); err != nil {
				return err
			}
			return withApp(ctx, func(a *app) error {
				user, err := a.AuthService.SignupCitizen(ctx, request)
				if err != nil {
					return err
				}
				fmt.Printf("registered %s, you can now log in\n", user.Username)
				return nil
			})
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in on this device",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "type", Usage: "admin or citizen"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			request := &models.LoginRequest{
				Type:     c.String("type"),
				Username: c.String("username"),
				Password: c.String("password"),
			}
			if err := models.ValidateStruct(request); err != nil {
				return err
			}
			return withApp(ctx, func(a *app) error {
				user, err := a.AuthService.Login(ctx, request)
				if err != nil {
					return err
				}
				if err := a.AuthService.StartSession(ctx, user); err != nil {
					return err
				}
				fmt.Printf("logged in as %s (%s)\n", user.Username, user.Type)
				return nil
			})
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "End the session on this device",
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, func(a *app) error {
				if err := a.AuthService.EndSession(ctx); err != nil {
					return err
				}
				fmt.Println("logged out")
				return nil
			})
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the user logged in on this device",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withApp(ctx, func(a *app) error {
				user, err := a.sessionUser(ctx)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(user)
				}
				printKV([][2]string{
					{"username", user.Username},
					{"type", user.Type},
					{"name", user.Name},
					{"email", user.Email},
					{"phone", user.Phone},
				})
				return nil
			})
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Report commands",
		Commands: []*cli.Command{
			{
				Name:  "submit",
				Usage: "Submit a new report as the logged in user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "category", Required: true, Usage: "see wefixsa data catalog"},
					&cli.StringFlag{Name: "description", Required: true},
					&cli.StringFlag{Name: "location", Required: true},
					&cli.StringFlag{Name: "municipality", Required: true},
					&cli.StringFlag{Name: "address"},
					&cli.StringFlag{Name: "city"},
					&cli.StringFlag{Name: "image-url"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					input := &models.ReportInput{
						Title:        c.String("title"),
						Category:     c.String("category"),
						Description:  c.String("description"),
						Location:     c.String("location"),
						Municipality: c.String("municipality"),
						Address:      c.String("address"),
						City:         c.String("city"),
						ImageURL:     c.String("image-url"),
					}
					if err := input.Validate(); err != nil {
						return err
					}
					return withApp(ctx, func(a *app) error {
						user, err := a.sessionUser(ctx)
						if err != nil {
							return err
						}
						input.SubmittedBy = user.Username
						report, err := a.ReportService.CreateReport(ctx, input)
						if err != nil {
							return err
						}
						if c.Bool("json") {
							return printJSON(report)
						}
						printReport(report)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "List all reports (admin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Usage: "text to search for"},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "municipality"},
					&cli.StringFlag{Name: "status"},
					&cli.StringFlag{Name: "submitted-by"},
					&cli.BoolFlag{Name: "recent", Usage: "newest first"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						if _, err := a.adminUser(ctx); err != nil {
							return err
						}
						var reports []models.Report
						if c.Bool("recent") && !hasFilter(c) {
							reports = a.ReportService.RecentReports(ctx, 0)
						} else {
							reports = a.ReportService.FilterReports(ctx, models.ReportFilter{
								Query:        c.String("q"),
								Category:     c.String("category"),
								Municipality: c.String("municipality"),
								Status:       c.String("status"),
								SubmittedBy:  c.String("submitted-by"),
							})
							if c.Bool("recent") {
								reports = newestFirst(reports)
							}
						}
						return outputReports(c, reports)
					})
				},
			},
			{
				Name:  "mine",
				Usage: "List the logged in user's reports, newest first",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						user, err := a.sessionUser(ctx)
						if err != nil {
							return err
						}
						return outputReports(c, newestFirst(a.ReportService.GetReportsByUser(ctx, user.Username)))
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show one report",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := requireArg(c, "report id")
					if err != nil {
						return err
					}
					return withApp(ctx, func(a *app) error {
						user, err := a.sessionUser(ctx)
						if err != nil {
							return err
						}
						report, found := a.ReportService.GetReportByID(ctx, id)
						if !found || (!user.IsAdmin() && report.SubmittedBy != user.Username) {
							return errors.Errorf("report %s not found", id)
						}
						if c.Bool("json") {
							return printJSON(report)
						}
						printReport(report)
						return nil
					})
				},
			},
			{
				Name:      "update",
				Usage:     "Change the status or admin note of a report (admin)",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "submitted, in_progress, resolved or rejected"},
					&cli.StringFlag{Name: "note", Usage: "admin note shown to the citizen"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := requireArg(c, "report id")
					if err != nil {
						return err
					}
					request := &models.UpdateReportRequest{}
					if c.IsSet("status") {
						status := c.String("status")
						request.Status = &status
					}
					if c.IsSet("note") {
						note := c.String("note")
						request.AdminNote = &note
					}
					patch, ok := request.ToPatch()
					if !ok {
						return errors.Errorf("unknown status %q", c.String("status"))
					}
					return withApp(ctx, func(a *app) error {
						if _, err := a.adminUser(ctx); err != nil {
							return err
						}
						report, found, err := a.ReportService.UpdateReport(ctx, id, patch)
						if err != nil {
							return err
						}
						if !found {
							return errors.Errorf("report %s not found", id)
						}
						if c.Bool("json") {
							return printJSON(report)
						}
						printReport(report)
						return nil
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a report (admin)",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := requireArg(c, "report id")
					if err != nil {
						return err
					}
					return withApp(ctx, func(a *app) error {
						if _, err := a.adminUser(ctx); err != nil {
							return err
						}
						deleted, err := a.ReportService.DeleteReport(ctx, id)
						if err != nil {
							return err
						}
						if !deleted {
							return errors.Errorf("report %s not found", id)
						}
						fmt.Printf("deleted report %s\n", id)
						return nil
					})
				},
			},
			{
				Name:      "search",
				Usage:     "Search reports by text (admin)",
				ArgsUsage: "<query>",
				Flags:     []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						if _, err := a.adminUser(ctx); err != nil {
							return err
						}
						return outputReports(c, a.ReportService.SearchReports(ctx, c.Args().First()))
					})
				},
			},
			{
				Name:      "status",
				Usage:     "List reports with one status (admin)",
				ArgsUsage: "<status>",
				Flags:     []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					status, err := requireArg(c, "status")
					if err != nil {
						return err
					}
					if _, ok := models.ParseStatus(status); !ok {
						return errors.Errorf("unknown status %q", status)
					}
					return withApp(ctx, func(a *app) error {
						if _, err := a.adminUser(ctx); err != nil {
							return err
						}
						return outputReports(c, a.ReportService.GetReportsByStatus(ctx, status))
					})
				},
			},
			{
				Name:  "stats",
				Usage: "Count reports by status; admins see every report",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						user, err := a.sessionUser(ctx)
						if err != nil {
							return err
						}
						username := user.Username
						if user.IsAdmin() {
							username = ""
						}
						counts := a.ReportService.StatusCounts(ctx, username)
						if c.Bool("json") {
							return printJSON(counts)
						}
						printCounts(counts)
						return nil
					})
				},
			},
		},
	}
}

func dataCommand() *cli.Command {
	return &cli.Command{
		Name:  "data",
		Usage: "Manage the stored application data",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create empty collections for missing keys",
				Action: func(ctx context.Context, c *cli.Command) error {
					// loadApp already initializes
					return withApp(ctx, func(a *app) error {
						fmt.Printf("store ready (%s)\n", a.Config.StorageDriver)
						return nil
					})
				},
			},
			{
				Name:      "seed",
				Usage:     "Load demo reports into an empty store",
				ArgsUsage: "<file.json>",
				Action: func(ctx context.Context, c *cli.Command) error {
					path, err := requireArg(c, "seed file")
					if err != nil {
						return err
					}
					return withApp(ctx, func(a *app) error {
						n, err := seedReports(ctx, a, path)
						if err != nil {
							return err
						}
						if n == 0 {
							fmt.Println("store already holds reports, nothing seeded")
							return nil
						}
						fmt.Printf("seeded %d reports\n", n)
						return nil
					})
				},
			},
			{
				Name:  "clear",
				Usage: "Delete every stored key, including the session",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "yes", Usage: "do not ask for confirmation"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					if !c.Bool("yes") {
						return errors.New("refusing to clear data without --yes")
					}
					return withApp(ctx, func(a *app) error {
						return db.ClearAllData(ctx, a.KV)
					})
				},
			},
			{
				Name:  "catalog",
				Usage: "Print the report categories, municipalities and statuses",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					catalog := models.GetCatalog()
					if c.Bool("json") {
						return printJSON(catalog)
					}
					printCatalog(catalog)
					return nil
				},
			},
		},
	}
}

func requireArg(c *cli.Command, name string) (string, error) {
	arg := c.Args().First()
	if arg == "" {
		return "", errors.Errorf("missing %s", name)
	}
	return arg, nil
}

func hasFilter(c *cli.Command) bool {
	for _, name := range []string{"q", "category", "municipality", "status", "submitted-by"} {
		if c.String(name) != "" {
			return true
		}
	}
	return false
}

func outputReports(c *cli.Command, reports []models.Report) error {
	if c.Bool("json") {
		return printJSON(reports)
	}
	printReports(reports)
	return nil
}

func newestFirst(reports []models.Report) []models.Report {
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	return reports
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
}
