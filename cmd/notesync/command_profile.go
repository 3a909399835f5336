package main

import (
	"flag"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

type ProfileCommand struct {
	wiring commandWiring
}

func NewProfileCommand(wiring commandWiring) *ProfileCommand {
	return &ProfileCommand{wiring: wiring}
}

func (c *ProfileCommand) Run(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(c.wiring.stderr)
	profilePath := fs.String("profile", defaultProfilePath, "TOML profile path")
	baseURL := fs.String("base-url", "", "REST API base url")
	token := fs.String("token", "", "bearer token")
	userId := fs.Int64("user-id", 0, "id of the signed-in user")
	verbose := fs.Bool("verbose", false, "log debug output")
	save := fs.Bool("save", false, "write the effective profile back to --profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profile, err := c.wiring.loadProfile(*profilePath)
	if err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base-url":
			profile.BaseURL = *baseURL
		case "token":
			profile.Token = *token
		case "user-id":
			profile.UserId = *userId
		case "verbose":
			profile.Verbose = *verbose
		}
	})

	if *save {
		if err := profile.Save(*profilePath); err != nil {
			return err
		}
		okColor.Fprintf(c.wiring.stderr, "profile written to %s\n", *profilePath)
	}

	data, err := toml.Marshal(profile)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.wiring.stdout, string(data))
	return err
}
