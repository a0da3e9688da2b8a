package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user interrupted or declined the session.
var ErrAborted = errors.New("tui: aborted")

// InputConfig configures a single line prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
}

// TextAreaConfig configures a multi-line prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver performs the terminal interaction. Tests script it; the
// default implementation uses survey.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// SurveyDriver prompts on the process terminal.
type SurveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

var _ PromptDriver = (*SurveyDriver)(nil)

// NewSurveyDriver returns a driver writing info lines to out (stdout when
// nil). opts are passed to every survey prompt, e.g. survey.WithStdio.
func NewSurveyDriver(out io.Writer, opts ...survey.AskOpt) *SurveyDriver {
	if out == nil {
		out = os.Stdout
	}
	return &SurveyDriver{out: out, opts: opts}
}

func (d *SurveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	err := d.ask(ctx, &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, &answer, cfg.Validator)
	return answer, err
}

func (d *SurveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	err := d.ask(ctx, &survey.Password{Message: cfg.Message, Help: cfg.Help}, &answer, cfg.Validator)
	if err == nil && answer == "" {
		answer = cfg.Default
	}
	return answer, err
}

func (d *SurveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, &answer, nil)
	return answer, err
}

func (d *SurveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	var answer string
	if err := d.ask(ctx, prompt, &answer, nil); err != nil {
		return -1, err
	}
	return slices.Index(cfg.Options, answer), nil
}

func (d *SurveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var answer string
	err := d.ask(ctx, &survey.Multiline{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, &answer, nil)
	return answer, err
}

func (d *SurveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func (d *SurveyDriver) ask(ctx context.Context, prompt survey.Prompt, answer any, validate func(string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := d.opts
	if validate != nil {
		opts = append(slices.Clip(opts), survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	err := survey.AskOne(prompt, answer, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
