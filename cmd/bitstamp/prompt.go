package main

import "github.com/charmbracelet/huh"

// promptCredentials asks for the API key and secret interactively when
// neither the config file nor the environment provides them.
func promptCredentials() (key, secret string, err error) {
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bitstamp API key").
				Value(&key),
			huh.NewInput().
				Title("Bitstamp API secret").
				EchoMode(huh.EchoModePassword).
				Value(&secret),
		),
	).Run()
	return key, secret, err
}
