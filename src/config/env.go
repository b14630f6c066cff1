package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment variables the CLI honors. None are required.
type Env struct {
	ForceColor string `env:"FORCE_COLOR"`
	NoColor    string `env:"NO_COLOR"`
	Term       string `env:"TERM"`
	CI         string `env:"CI"`
	GitLabCI   string `env:"GITLAB_CI"`
	Project    string `env:"HLBUILD_PROJECT"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("reading environment: %w", err)
	}
	return e, nil
}

// IsCI reports whether the process runs in a CI job.
func (e Env) IsCI() bool {
	return e.CI == "true" || e.CI == "1"
}

// IsGitLabCI reports whether GitLab collapsible sections should be emitted.
func (e Env) IsGitLabCI() bool {
	return e.GitLabCI == "true"
}
