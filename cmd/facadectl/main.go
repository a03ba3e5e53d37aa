// Command facadectl runs the legacy facade operations from a shell, against
// the backend named in the usual configuration. Output is the JSON body the
// HTTP endpoint would have returned.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/saeondata/jsonapi-facade/internal/auth"
	"github.com/saeondata/jsonapi-facade/internal/config"
	"github.com/saeondata/jsonapi-facade/internal/platform/ckan"
	"github.com/saeondata/jsonapi-facade/internal/platform/logger"
	"github.com/saeondata/jsonapi-facade/internal/translate"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:        "facadectl",
		Usage:       "run legacy facade operations against the configured backend",
		Description: "configuration is read the same way the server reads it (config.yaml, JSONAPI_* env vars)",
		Writer:      out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "legacy login name",
				EnvVars: []string{"FACADECTL_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "legacy password or identity token",
				EnvVars: []string{"FACADECTL_PASSWORD"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "public URL of the facade, used for institution links",
				Value: "http://localhost:8080",
			},
		},
		Commands: []*cli.Command{{
			Name:      "slugify",
			Usage:     "print the organization name derived from a title",
			ArgsUsage: "TITLE",
			Action: func(ctx *cli.Context) error {
				if ctx.NArg() != 1 {
					return fmt.Errorf("slugify takes exactly one TITLE argument, got %d", ctx.NArg())
				}
				_, err := fmt.Fprintln(out, translate.Slugify(ctx.Args().First()))
				return err
			},
		}, {
			Name:  "list-institutions",
			Usage: "list institutions with their legacy URLs",
			Action: withTranslator(out, func(tr *translate.Translator, ctx *cli.Context, req translate.Request) translate.Response {
				req.Fields[translate.FieldTypes] = translate.TypeInstitution
				return tr.ListInstitutions(ctx.Context, req)
			}),
		}, {
			Name:  "create-institution",
			Usage: "create an institution and its default repository",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Usage: "institution title", Required: true},
			},
			Action: withTranslator(out, func(tr *translate.Translator, ctx *cli.Context, req translate.Request) translate.Response {
				req.Fields[translate.FieldTitle] = ctx.String("title")
				return tr.CreateInstitution(ctx.Context, req)
			}),
		}, {
			Name:  "list-users",
			Usage: "list users, optionally only the pipe-delimited --user-id set",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user-id", Usage: "names to keep, e.g. alice|bob"},
			},
			Action: withTranslator(out, func(tr *translate.Translator, ctx *cli.Context, req translate.Request) translate.Response {
				if ids := ctx.String("user-id"); ids != "" {
					req.Fields[translate.FieldUserID] = ids
				}
				return tr.ListUsers(ctx.Context, req)
			}),
		}, {
			Name:  "get-user",
			Usage: "show one user",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "user name or id", Required: true},
			},
			Action: withTranslator(out, func(tr *translate.Translator, ctx *cli.Context, req translate.Request) translate.Response {
				req.Path.Username = ctx.String("name")
				return tr.GetUser(ctx.Context, req)
			}),
		}, {
			Name:  "get-metadata",
			Usage: "list the metadata records of a repository",
			Flags: repositoryFlags(),
			Action: withTranslator(out, func(tr *translate.Translator, ctx *cli.Context, req translate.Request) translate.Response {
				req.Path.Institution = ctx.String("institution")
				req.Path.Repository = ctx.String("repository")
				return tr.GetMetadata(ctx.Context, req)
			}),
		}, {
			Name:  "create-metadata",
			Usage: "upload a metadata record read from a JSON file",
			Flags: append(repositoryFlags(),
				&cli.StringFlag{Name: "metadata-type", Usage: "metadata standard, e.g. datacite-4-2", Required: true},
				&cli.StringFlag{Name: "schema-version", Usage: "metadata standard version"},
				&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to the JSON document, - for stdin", Required: true},
			),
			Action: func(ctx *cli.Context) error {
				content, err := readDocument(ctx.String("file"))
				if err != nil {
					return err
				}
				return withTranslator(out, func(tr *translate.Translator, ctx *cli.Context, req translate.Request) translate.Response {
					req.Path.Institution = ctx.String("institution")
					req.Path.Repository = ctx.String("repository")
					req.Fields["metadataType"] = ctx.String("metadata-type")
					req.Fields["jsonData"] = content
					if v := ctx.String("schema-version"); v != "" {
						req.Fields[translate.FieldSchemaVersion] = v
					}
					return tr.CreateMetadata(ctx.Context, req)
				})(ctx)
			},
		}},
	}
}

func repositoryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "institution", Usage: "institution (organization) name", Required: true},
		&cli.StringFlag{Name: "repository", Usage: "repository name", Required: true},
	}
}

// readDocument returns the JSON document at path, checking that it parses.
func readDocument(path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !json.Valid(raw) {
		return "", fmt.Errorf("%s does not contain valid JSON", path)
	}
	return string(raw), nil
}

type operation func(tr *translate.Translator, ctx *cli.Context, req translate.Request) translate.Response

// withTranslator builds a translator from configuration, runs op with a
// request carrying the global credentials, and prints the response body.
// A failure envelope becomes a non-zero exit.
func withTranslator(out io.Writer, op operation) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		tr, err := newTranslator()
		if err != nil {
			return err
		}

		req := translate.Request{
			Fields: map[string]any{
				translate.FieldUsername: ctx.String("username"),
				translate.FieldPassword: ctx.String("password"),
			},
			BaseURL: ctx.String("base-url"),
		}

		resp := op(tr, ctx, req)
		if err := writeJSON(out, resp.Body); err != nil {
			return err
		}
		if _, failed := resp.Body.(translate.Failed); failed {
			return cli.Exit("", 1)
		}
		return nil
	}
}

func newTranslator() (*translate.Translator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// Logs go to stderr so stdout stays machine-readable.
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.Server.LogLevel))

	authenticator, err := auth.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing authenticator: %w", err)
	}

	client, err := ckan.NewClient(cfg.CKAN, log)
	if err != nil {
		return nil, fmt.Errorf("initializing backend client: %w", err)
	}

	version, err := translate.ParseFieldVersion(cfg.CKAN.FieldVersion)
	if err != nil {
		return nil, err
	}

	return translate.NewTranslator(client, authenticator, translate.Options{
		BackendURL:   client.BaseURL(),
		FieldVersion: version,
	}, log)
}

func writeJSON(out io.Writer, body any) error {
	data, err := json.MarshalIndent(body, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling response to JSON: %w", err)
	}
	if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
		return fmt.Errorf("writing JSON to stdout: %w", err)
	}
	return nil
}
