package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tuntun/internal/app"
	"tuntun/internal/pin"
)

var pinCmd = &cobra.Command{
	Use:   "pin [unlock|create|change|remove]",
	Short: "Manage the app-lock PIN on an interactive keypad",
	Long: `Type digits and press Enter; "<" deletes the last digit.
Without an argument the keypad starts in unlock mode when a PIN is set and
in create mode otherwise.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"unlock", "create", "change", "remove"},
	RunE: func(cmd *cobra.Command, args []string) error {
		security, err := app.OpenSecurity(cfg, logger)
		if err != nil {
			return err
		}
		pad, err := pin.NewPad(security)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			mode, err := flowMode(args[0], pad.State().IsPinSet)
			if err != nil {
				return err
			}
			pad.SetMode(mode)
		}
		return runKeypad(pad, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func flowMode(flow string, isPinSet bool) (pin.Mode, error) {
	switch flow {
	case "unlock", "change", "remove":
		if !isPinSet {
			return 0, fmt.Errorf("no PIN is set; run %q first", "tuntun pin create")
		}
		switch flow {
		case "unlock":
			return pin.Unlock, nil
		case "change":
			return pin.ChangeOld, nil
		default:
			return pin.Remove, nil
		}
	case "create":
		if isPinSet {
			return 0, fmt.Errorf("a PIN is already set; use %q", "tuntun pin change")
		}
		return pin.Create, nil
	}
	return 0, fmt.Errorf("unknown flow %q", flow)
}

// runKeypad feeds every typed key to pad until a flow completes or input ends.
func runKeypad(pad *pin.Pad, in io.Reader, out io.Writer) error {
	render(out, pad.State())
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		for _, r := range strings.TrimSpace(scanner.Text()) {
			if r == '<' {
				pad.Backspace()
				continue
			}
			ev := pad.EnterDigit(r)
			if ev == nil {
				continue
			}
			if ev.Kind == pin.EventError {
				break
			}
			fmt.Fprintln(out, done(ev.Kind))
			return nil
		}
		render(out, pad.State())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("input ended before the PIN flow finished")
}

func render(out io.Writer, st pin.State) {
	if st.Error != "" {
		fmt.Fprintf(out, "! %s\n", st.Error)
	}
	mask := strings.Repeat("*", st.Entered) + strings.Repeat("_", pin.Length-st.Entered)
	fmt.Fprintf(out, "%s [%s]\n", st.Title, mask)
}

func done(kind pin.EventKind) string {
	switch kind {
	case pin.EventUnlockSuccess:
		return "Unlocked."
	case pin.EventPinSet:
		return "PIN set."
	case pin.EventPinChanged:
		return "PIN changed."
	case pin.EventPinRemoved:
		return "PIN removed."
	}
	return kind.String()
}
