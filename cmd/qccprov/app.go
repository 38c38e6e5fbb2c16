package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/moffa90/go-qccprov/console"
	"github.com/moffa90/go-qccprov/provision"
)

// Operator messages for fatal conditions.
const (
	msgEnvironmentMissing = "Can not find necessary files"
	msgDeviceUnreachable  = "Can load device configurations\nPlease ensure device is on and connected to PC"
)

// errQuit ends the menu loop normally.
var errQuit = errors.New("quit")

// app is the top-level control loop. It alone decides when the process ends.
type app struct {
	prov     *provision.Provisioner
	term     *console.Terminal
	prompt   *console.Prompter
	log      *log.Logger
	identify bool
}

func (a *app) run(ctx context.Context) error {
	if err := a.prov.CheckEnvironment(); err != nil {
		var missing *provision.EnvironmentMissingError
		if errors.As(err, &missing) {
			a.term.Printf("Can not find %s\n", missing.What)
		}
		return a.fatal(msgEnvironmentMissing, err)
	}

	if a.identify {
		if err := a.prov.Identify(ctx); err != nil {
			a.log.Warn("device not identified", "err", err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		session, err := a.prov.Load(ctx)
		var unreachable *provision.DeviceUnreachableError
		switch {
		case errors.As(err, &unreachable):
			return a.fatal(msgDeviceUnreachable, err)
		case err != nil:
			// The session still carries whatever did parse.
			a.log.Warn("device configuration only partly readable", "err", err)
		}

		a.term.Banner(console.BannerDeviceConfig)
		if _, err := session.WriteTo(a.term); err != nil {
			a.log.Warn("device configuration not shown", "err", err)
		}

		err = a.iteration(ctx)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// iteration asks for one action and performs it, finishing with the reset
// wait when the action succeeded.
func (a *app) iteration(ctx context.Context) error {
	action, err := a.choose()
	if err != nil {
		return err
	}
	if action == console.ActionQuit {
		return errQuit
	}

	input, err := a.ask(action)
	if err != nil {
		return err
	}

	a.log.Debug("performing action", "action", action)
	err = a.perform(ctx, action, input)
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case err != nil:
		a.log.Error("action failed", "action", action, "err", err)
		return nil
	}

	// ChangeSerial waits for the reset itself.
	if action == console.ActionSerial {
		return nil
	}
	if err := a.prov.ResetWait(ctx); err != nil {
		return err
	}
	return nil
}

// choose shows the menu until a valid choice is made. Closed input quits.
func (a *app) choose() (console.Action, error) {
	for {
		a.term.Banner(console.BannerMain)
		answer, err := a.prompt.Ask(console.MenuPrompt, nil)
		if errors.Is(err, io.EOF) {
			return console.ActionQuit, nil
		}
		if err != nil {
			return console.ActionInvalid, err
		}
		if action := console.ParseChoice(answer); action != console.ActionInvalid {
			return action, nil
		}
	}
}

// ask collects the input an action needs. Closed input quits.
func (a *app) ask(action console.Action) (string, error) {
	var (
		v   string
		err error
	)
	switch action {
	case console.ActionFlash:
		a.term.Banner(console.BannerFlash)
		v, err = a.prompt.Ask(console.PromptFirmwareImage, provision.ValidateFirmwareImage)
	case console.ActionRename:
		v, err = a.prompt.Ask(console.PromptDeviceName, provision.NormalizeDeviceName)
	case console.ActionBTAddress:
		v, err = a.prompt.Ask(console.PromptBTByte, provision.NormalizeBTByte)
	case console.ActionSerial:
		v, err = a.prompt.AskWithHint(console.PromptSerialNumber, console.SerialNumberHint, provision.ValidateSerialNumber)
	}
	if errors.Is(err, io.EOF) {
		return "", errQuit
	}
	return v, err
}

func (a *app) perform(ctx context.Context, action console.Action, input string) error {
	switch action {
	case console.ActionFlash:
		return a.prov.Flash(ctx, input)
	case console.ActionRename:
		return a.prov.RenameDevice(ctx, input)
	case console.ActionBTAddress:
		return a.prov.ChangeBTAddress(ctx, input)
	case console.ActionSerial:
		return a.prov.ChangeSerial(ctx, input)
	case console.ActionRestore:
		return a.prov.Restore(ctx)
	}
	return fmt.Errorf("unknown action %v", action)
}

// fatal shows msg, waits for the operator and returns err to end the run.
func (a *app) fatal(msg string, err error) error {
	a.term.Println(msg)
	if werr := a.prompt.WaitEnter(console.PromptExit); werr != nil {
		a.log.Warn("exit prompt", "err", werr)
	}
	return err
}
