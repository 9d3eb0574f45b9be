// Package setup is the interactive first-run wizard. It writes the
// config file and a starter portfolio so the tracker has something to
// run against.
package setup

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/folio/internal/services/holdings"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

type fileConfig struct {
	HoldingsFile   string          `yaml:"holdings_file"`
	Provider       string          `yaml:"provider"`
	SymbolSuffix   string          `yaml:"symbol_suffix,omitempty"`
	AlertThreshold string          `yaml:"alert_threshold"`
	WebAddr        string          `yaml:"web_addr,omitempty"`
	Email          fileEmailConfig `yaml:"email,omitempty"`
}

type fileEmailConfig struct {
	Host        string   `yaml:"host,omitempty"`
	Port        int      `yaml:"port,omitempty"`
	Username    string   `yaml:"username,omitempty"`
	PasswordEnv string   `yaml:"password_env,omitempty"`
	From        string   `yaml:"from,omitempty"`
	To          []string `yaml:"to,omitempty"`
}

// RunTUI launches the terminal configuration wizard and writes
// config.yaml plus a sample portfolio file.
func RunTUI() error {
	var (
		provider     string
		suffix       string
		thresholdStr string
		holdingsPath string
		emailHost    string
		emailPortStr string
		emailUser    string
		emailTo      string
		confirm      bool
	)

	// defaults
	thresholdStr = "5.0"
	holdingsPath = "portfolio.yaml"
	emailPortStr = "587"

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("FOLIO SETUP WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Daily portfolio valuation, alerts and reports.\n"))

	// provider
	fmt.Println(stepStyle.Render("STEP 1: PRICE PROVIDER"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should prices come from?").
				Options(
					huh.NewOption("Stooq (stocks, no API key)", "stooq"),
					huh.NewOption("Binance (crypto)", "binance"),
					huh.NewOption("Bybit (crypto)", "bybit"),
					huh.NewOption("Hyperliquid (crypto)", "hyperliquid"),
				).
				Value(&provider),
		),
	).Run()
	if err != nil {
		return err
	}

	if provider == "stooq" {
		fmt.Println(stepStyle.Render("STEP 1b: LISTING SUFFIX"))
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Symbol suffix").
					Description("Appended to every symbol, e.g. .us for US listings. Leave empty for none.").
					Value(&suffix),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	// threshold + holdings file
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FOLIO SETUP WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: ALERTING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Alert threshold %").
				Description("Day-over-day move that triggers an alert (e.g. 5.0)").
				Value(&thresholdStr).
				Validate(func(s string) error {
					t, err := decimal.NewFromString(s)
					if err != nil {
						return fmt.Errorf("not a number: %s", s)
					}
					if !t.IsPositive() {
						return fmt.Errorf("threshold must be positive")
					}
					return nil
				}),
			huh.NewInput().
				Title("Holdings file").
				Description("Path where the portfolio YAML will live").
				Value(&holdingsPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// email (optional)
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FOLIO SETUP WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: EMAIL REPORTS (optional)"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SMTP host").
				Description("Leave empty to skip email delivery").
				Value(&emailHost),
			huh.NewInput().
				Title("SMTP port").
				Value(&emailPortStr),
			huh.NewInput().
				Title("SMTP username / from address").
				Value(&emailUser),
			huh.NewInput().
				Title("Recipient address").
				Value(&emailTo),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirm
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FOLIO SETUP WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: CONFIRM"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write config.yaml and a sample portfolio to %s?", holdingsPath)).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Aborted, nothing written."))
		return nil
	}

	cfg := fileConfig{
		HoldingsFile:   holdingsPath,
		Provider:       provider,
		SymbolSuffix:   suffix,
		AlertThreshold: thresholdStr,
		WebAddr:        ":8080",
	}
	if emailHost != "" {
		port, err := strconv.Atoi(emailPortStr)
		if err != nil {
			return fmt.Errorf("invalid SMTP port %q", emailPortStr)
		}
		cfg.Email = fileEmailConfig{
			Host:        emailHost,
			Port:        port,
			Username:    emailUser,
			PasswordEnv: "FOLIO_SMTP_PASSWORD",
			From:        emailUser,
			To:          []string{emailTo},
		}
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile("config.yaml", raw, 0o644); err != nil {
		return err
	}
	if err := holdings.WriteSample(holdingsPath); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("\nDone. Edit " + holdingsPath + " with your real positions, then run: folio -config config.yaml"))
	if emailHost != "" {
		fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set FOLIO_SMTP_PASSWORD in the environment before running."))
	}
	return nil
}
