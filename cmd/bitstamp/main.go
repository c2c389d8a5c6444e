// Command bitstamp is a small console client around the library: it
// fetches the ticker for a pair and, when credentials are configured,
// the account balance.
//
// Usage:
//
//	bitstamp --config config.yaml
//	bitstamp --pair BTC_USD
//
// Credentials can come from the config file, from the
// BITSTAMP_API_KEY and BITSTAMP_API_SECRET environment variables, or
// from an interactive prompt.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/coinmesh/bitstamp"
	"github.com/coinmesh/bitstamp/config"
	"github.com/coinmesh/bitstamp/currency"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}).
			Width(14)
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Key == "" || cfg.Secret == "" {
		cfg.Key, cfg.Secret, err = promptCredentials()
		if err != nil {
			log.Fatal(err)
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	client, err := bitstamp.New(bitstamp.Config{
		Key:        cfg.Key,
		Secret:     cfg.Secret,
		Host:       cfg.Host,
		Timeout:    cfg.Timeout,
		Currencies: cfg.Currencies,
		MaxPages:   cfg.MaxPages,
		Logger:     logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	ticker, err := client.GetTicker(ctx, cfg.Pair.Base, cfg.Pair.Quote)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s/%s", ticker.BaseCurrency, ticker.QuoteCurrency)))
	fmt.Println(labelStyle.Render("last"), ticker.LastPrice)
	fmt.Println(labelStyle.Render("bid"), ticker.Bid)
	fmt.Println(labelStyle.Render("ask"), ticker.Ask)
	fmt.Println(labelStyle.Render("24h vwap"), ticker.Vwap24Hours)

	if volume, err := currency.ToMainUnit(ticker.Volume24Hours, ticker.BaseCurrency); err == nil {
		fmt.Println(labelStyle.Render("24h volume"), volume, ticker.BaseCurrency)
	}

	if cfg.Key == "" || cfg.Secret == "" {
		return
	}

	balance, err := client.GetBalance(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(headerStyle.Render("BALANCE"))
	for cur, available := range balance.Available {
		main, err := currency.ToMainUnit(available, cur)
		if err != nil {
			continue
		}
		fmt.Println(labelStyle.Render(cur), main)
	}
}
