// Package tui is a terminal front end for an exchange session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/swapdesk/internal/domain"
	"github.com/vadiminshakov/swapdesk/internal/services/amount"
	"github.com/vadiminshakov/swapdesk/internal/services/exchange"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	danger    = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F87"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	panelStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1)
	errorStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(subtle)
)

const (
	actionBuy  = "buy"
	actionSell = "sell"
	actionQuit = "quit"

	fieldMax = "max"
)

// Session is the subset of exchange.Session driven by the terminal.
type Session interface {
	Pair() domain.Pair
	State() exchange.State
	SwitchMode()
	SetAmount(value string, which domain.Currency)
	ValidateOnBlur(which domain.Currency)
	SetMax(which domain.Currency)
	CanSubmit() bool
	Execute(ctx context.Context) (domain.Receipt, error)
	Reset()
}

// Run drives the session until the user quits or ctx is done.
func Run(ctx context.Context, s Session) error {
	for ctx.Err() == nil {
		again, err := exchangeOnce(ctx, s)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
	return ctx.Err()
}

func exchangeOnce(ctx context.Context, s Session) (bool, error) {
	pair := s.Pair()

	// step 1: direction
	screen("STEP 1: DIRECTION", RenderState(pair, s.State()))
	action := modeAction(s.State().Mode)
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What do you want to do?").
				Options(
					huh.NewOption("Buy "+pair.From+" with "+pair.To, actionBuy),
					huh.NewOption("Sell "+pair.From+" for "+pair.To, actionSell),
					huh.NewOption("Quit", actionQuit),
				).
				Value(&action),
		),
	).Run()
	if err != nil {
		return false, err
	}
	if action == actionQuit {
		return false, nil
	}
	if action != modeAction(s.State().Mode) {
		s.SwitchMode()
	}

	// step 2: which field
	var field string
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Enter the amount in").
				Options(
					huh.NewOption(pair.From, domain.Base.String()),
					huh.NewOption(pair.To, domain.Quote.String()),
					huh.NewOption("Use my whole "+pair.Code(s.State().Mode.Spends())+" balance", fieldMax),
				).
				Value(&field),
		),
	).Run()
	if err != nil {
		return false, err
	}

	// step 3: amount
	if field == fieldMax {
		s.SetMax(s.State().Mode.Spends())
	} else {
		which := domain.Base
		if field == domain.Quote.String() {
			which = domain.Quote
		}
		var raw string
		screen("STEP 2: AMOUNT", RenderState(pair, s.State()))
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(pair.Code(which)+" amount").
					Description(fmt.Sprintf("Up to %d decimals, comma or dot", which.Decimals())).
					Placeholder("0.00").
					Validate(func(v string) error {
						if strings.TrimSpace(v) == "" {
							return fmt.Errorf("amount cannot be empty")
						}
						_, err := amount.Normalize(v, which.Decimals())
						return err
					}).
					Value(&raw),
			),
		).Run()
		if err != nil {
			return false, err
		}
		ApplyInput(s, raw, which)
	}

	st := s.State()
	if st.Error != "" || !s.CanSubmit() {
		screen("CHECK YOUR AMOUNTS", RenderState(pair, st))
		return askAgain("Start over?")
	}

	// step 4: confirmation
	screen("CONFIRM EXCHANGE", RenderState(pair, st))
	var confirm bool
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(confirmTitle(pair, st)).
				Affirmative("Yes, exchange").
				Negative("No, start over").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return false, err
	}
	if !confirm {
		s.Reset()
		return true, nil
	}

	receipt, err := s.Execute(ctx)
	if err != nil {
		screen("EXCHANGE FAILED", RenderState(pair, s.State()))
		if errors.Is(err, exchange.ErrRetryable) {
			return askAgain("Try again?")
		}
		s.Reset()
		return askAgain("Start over?")
	}

	screen("EXCHANGE COMPLETE", RenderReceipt(receipt))
	again, err := askAgain("Make another exchange?")
	s.Reset()
	return again, err
}

// ApplyInput enters raw into the field and validates it as if the field lost focus.
func ApplyInput(s Session, raw string, which domain.Currency) {
	s.SetAmount(raw, which)
	if s.State().Error == "" {
		s.ValidateOnBlur(which)
	}
}

// RenderState renders balances, rate, the two fields and the active error.
func RenderState(pair domain.Pair, st exchange.State) string {
	var b strings.Builder

	rate := st.Rate.StringFixed(domain.QuoteDecimals)
	if st.RateLoading {
		rate += " (updating)"
	}
	fmt.Fprintf(&b, "Rate: 1 %s = %s %s\n", pair.From, rate, pair.To)
	fmt.Fprintf(&b, "Balance: %s %s | %s %s\n",
		fixed(st.Balance.Base, domain.Base), pair.From,
		fixed(st.Balance.Quote, domain.Quote), pair.To)
	fmt.Fprintf(&b, "Mode: %s\n", strings.ToUpper(st.Mode.String()))

	if st.Base != "" || st.Quote != "" {
		fmt.Fprintf(&b, "\n%s: %s\n%s: %s\n", pair.From, orDash(st.Base), pair.To, orDash(st.Quote))
	}
	if st.Error != "" {
		fmt.Fprintf(&b, "\n%s\n", errorStyle.Render(st.Error))
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderReceipt renders a settled exchange.
func RenderReceipt(r domain.Receipt) string {
	acquired, ac := r.Acquired()
	spent, sc := r.Spent()

	var b strings.Builder
	fmt.Fprintf(&b, "You received %s %s\n", acquired, r.Pair.Code(ac))
	fmt.Fprintf(&b, "You paid %s %s\n", spent, r.Pair.Code(sc))
	fmt.Fprintf(&b, "Rate: 1 %s = %s %s\n", r.Pair.From, r.Rate.StringFixed(domain.QuoteDecimals), r.Pair.To)
	fmt.Fprintf(&b, "New balance: %s %s | %s %s\n",
		fixed(r.Balance.Base, domain.Base), r.Pair.From,
		fixed(r.Balance.Quote, domain.Quote), r.Pair.To)
	fmt.Fprintf(&b, "Receipt: %s", r.ID)

	return panelStyle.Render(b.String())
}

func confirmTitle(pair domain.Pair, st exchange.State) string {
	if st.Mode == domain.ModeSell {
		return fmt.Sprintf("Sell %s %s for %s %s?", amount.Trim(st.Base), pair.From, amount.Trim(st.Quote), pair.To)
	}
	return fmt.Sprintf("Buy %s %s for %s %s?", amount.Trim(st.Base), pair.From, amount.Trim(st.Quote), pair.To)
}

func askAgain(title string) (bool, error) {
	var again bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No, quit").
				Value(&again),
		),
	).Run()
	return again, err
}

func screen(step, body string) {
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("SWAPDESK"))
	fmt.Println(stepStyle.Render(step))
	fmt.Println(body)
	fmt.Println(hintStyle.Render("ctrl+c to quit"))
}

func modeAction(m domain.Mode) string {
	if m == domain.ModeSell {
		return actionSell
	}
	return actionBuy
}

func fixed(v decimal.Decimal, c domain.Currency) string {
	return v.StringFixed(c.Decimals())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
